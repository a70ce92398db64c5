package wallet

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestMemoryStoreLifecycle(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if _, err := store.Get(ctx, "u1", "USD"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := store.Set(ctx, "u1", "USD", decimal.NewFromInt(5)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("set on missing wallet should return ErrNotFound, got %v", err)
	}

	if err := store.Create(ctx, "u1", "USD", decimal.RequireFromString("10.50")); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.Create(ctx, "u1", "USD", decimal.Zero); err == nil {
		t.Fatalf("duplicate create should fail")
	}

	if err := store.Set(ctx, "u1", "USD", decimal.RequireFromString("7.25")); err != nil {
		t.Fatalf("set: %v", err)
	}
	w, err := store.Get(ctx, "u1", "USD")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !w.Balance.Equal(decimal.RequireFromString("7.25")) {
		t.Fatalf("expected balance 7.25, got %s", w.Balance)
	}

	wallets, err := store.ListByUser(ctx, "u1")
	if err != nil || len(wallets) != 1 {
		t.Fatalf("expected one wallet, got %d (%v)", len(wallets), err)
	}
}

func TestPostgresStoreListRejectsMalformedUserID(t *testing.T) {
	store := NewPostgresStore(nil)

	// A malformed id must surface as not-found, not as an empty result.
	if _, err := store.ListByUser(context.Background(), "not-a-uuid"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

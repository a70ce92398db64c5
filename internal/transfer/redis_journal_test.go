package transfer

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

func newRedisJournal(t *testing.T) *RedisJournal {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return NewRedisJournal(client)
}

func TestRedisJournalOpenPendingClose(t *testing.T) {
	journal := newRedisJournal(t)
	ctx := context.Background()

	entry := JournalEntry{
		ID:           "tx-1",
		SenderID:     "sender",
		RecipientID:  "recipient",
		PriorBalance: decimal.RequireFromString("80.00"),
		Amount:       decimal.RequireFromString("50.00"),
		Currency:     "USD",
		OpenedAt:     time.Now().UTC(),
	}
	if err := journal.Open(ctx, entry); err != nil {
		t.Fatalf("open: %v", err)
	}

	pending, err := journal.Pending(ctx)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != "tx-1" {
		t.Fatalf("expected the open entry, got %+v", pending)
	}
	if !pending[0].PriorBalance.Equal(entry.PriorBalance) {
		t.Fatalf("prior balance did not round-trip: %s", pending[0].PriorBalance)
	}

	if err := journal.Close(ctx, "tx-1"); err != nil {
		t.Fatalf("close: %v", err)
	}
	pending, err = journal.Pending(ctx)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected no entries after close, got %d", len(pending))
	}
}

func TestRedisJournalCloseIsIdempotent(t *testing.T) {
	journal := newRedisJournal(t)

	if err := journal.Close(context.Background(), "never-opened"); err != nil {
		t.Fatalf("close of unknown entry should not error: %v", err)
	}
}

package funding

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/coinbridge/coinbridge/internal/identity"
	"github.com/coinbridge/coinbridge/internal/ledger"
	"github.com/coinbridge/coinbridge/internal/logging"
	"github.com/coinbridge/coinbridge/internal/transfer"
	"github.com/coinbridge/coinbridge/internal/wallet"
)

func TestDepositCreatesWalletOnFirstUse(t *testing.T) {
	store := wallet.NewMemoryStore()
	svc := NewService(store, nil, "USD")
	ctx := context.Background()
	userID := uuid.NewString()

	res, err := svc.Deposit(ctx, userID, decimal.RequireFromString("25.00"))
	if err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if !res.Balance.Equal(decimal.RequireFromString("25.00")) {
		t.Fatalf("expected balance 25.00, got %s", res.Balance)
	}

	res, err = svc.Deposit(ctx, userID, decimal.RequireFromString("5.50"))
	if err != nil {
		t.Fatalf("second deposit: %v", err)
	}
	if !res.Balance.Equal(decimal.RequireFromString("30.50")) {
		t.Fatalf("expected balance 30.50, got %s", res.Balance)
	}
}

func TestDepositRejectsNonPositiveAmount(t *testing.T) {
	svc := NewService(wallet.NewMemoryStore(), nil, "USD")

	if _, err := svc.Deposit(context.Background(), uuid.NewString(), decimal.Zero); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestWithdraw(t *testing.T) {
	store := wallet.NewMemoryStore()
	svc := NewService(store, nil, "USD")
	ctx := context.Background()
	userID := uuid.NewString()

	if _, err := svc.Withdraw(ctx, userID, decimal.NewFromInt(1)); !errors.Is(err, ErrNoWallet) {
		t.Fatalf("expected ErrNoWallet, got %v", err)
	}

	if _, err := svc.Deposit(ctx, userID, decimal.NewFromInt(10)); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if _, err := svc.Withdraw(ctx, userID, decimal.NewFromInt(15)); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	res, err := svc.Withdraw(ctx, userID, decimal.NewFromInt(4))
	if err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if !res.Balance.Equal(decimal.NewFromInt(6)) {
		t.Fatalf("expected balance 6, got %s", res.Balance)
	}
}

// slowReadStore delays wallet reads for one user so interleavings that
// depend on a stale read become likely instead of rare.
type slowReadStore struct {
	wallet.Store
	slowUser string
	delay    time.Duration
}

func (s *slowReadStore) Get(ctx context.Context, userID, currency string) (wallet.Wallet, error) {
	if userID == s.slowUser {
		time.Sleep(s.delay)
	}
	return s.Store.Get(ctx, userID, currency)
}

func TestDepositSerializesWithIncomingTransfer(t *testing.T) {
	ctx := context.Background()
	users := identity.NewMemoryRepository()
	inner := wallet.NewMemoryStore()
	locks := wallet.NewUserLocks()

	sender := identity.User{ID: uuid.NewString(), Email: "sender@example.com", CreatedAt: time.Now().UTC()}
	recipient := identity.User{ID: uuid.NewString(), Email: "recipient@example.com", CreatedAt: time.Now().UTC()}
	for _, u := range []identity.User{sender, recipient} {
		if err := users.Create(ctx, u); err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}
	if err := inner.Create(ctx, sender.ID, "USD", decimal.NewFromInt(100)); err != nil {
		t.Fatalf("seed sender wallet: %v", err)
	}
	if err := inner.Create(ctx, recipient.ID, "USD", decimal.Zero); err != nil {
		t.Fatalf("seed recipient wallet: %v", err)
	}

	store := &slowReadStore{Store: inner, slowUser: recipient.ID, delay: 50 * time.Millisecond}
	transfers := transfer.NewService(users, store, ledger.NewInMemory(), nil, locks, logging.Discard(), "USD")
	deposits := NewService(store, locks, "USD")

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		if _, err := transfers.Transfer(ctx, transfer.Caller{ID: sender.ID, Email: sender.Email}, transfer.Input{
			RecipientEmail: recipient.Email,
			Amount:         decimal.RequireFromString("10.00"),
		}); err != nil {
			t.Errorf("transfer: %v", err)
		}
	}()
	go func() {
		defer wg.Done()
		if _, err := deposits.Deposit(ctx, recipient.ID, decimal.RequireFromString("5.00")); err != nil {
			t.Errorf("deposit: %v", err)
		}
	}()
	wg.Wait()

	w, err := inner.Get(ctx, recipient.ID, "USD")
	if err != nil {
		t.Fatalf("read recipient wallet: %v", err)
	}
	if !w.Balance.Equal(decimal.RequireFromString("15.00")) {
		t.Fatalf("deposit and incoming credit interleaved: expected 15.00, got %s", w.Balance)
	}
}

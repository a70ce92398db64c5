package funding

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/coinbridge/coinbridge/internal/wallet"
)

var (
	// ErrInvalidAmount occurs when a deposit or withdrawal amount is not positive.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrInsufficientFunds occurs when a withdrawal exceeds the wallet balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrNoWallet occurs when a withdrawal targets a user with no wallet row.
	ErrNoWallet = errors.New("no wallet to withdraw from")
)

// Service funds and drains wallets. A wallet row is created on first
// deposit; withdrawals require an existing row.
type Service struct {
	wallets  wallet.Store
	locks    *wallet.UserLocks
	currency string
}

// NewService builds a funding service for the fixed currency. The lock
// registry must be the same instance every wallet-mutating service uses.
func NewService(wallets wallet.Store, locks *wallet.UserLocks, currency string) *Service {
	if locks == nil {
		locks = wallet.NewUserLocks()
	}
	return &Service{wallets: wallets, locks: locks, currency: currency}
}

// Result reports the wallet balance after a funding operation.
type Result struct {
	Balance  decimal.Decimal
	Currency string
}

// Deposit credits the user's wallet, creating it on first use.
func (s *Service) Deposit(ctx context.Context, userID string, amount decimal.Decimal) (Result, error) {
	if amount.Sign() <= 0 {
		return Result{}, ErrInvalidAmount
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	w, err := s.wallets.Get(ctx, userID, s.currency)
	if err != nil {
		if errors.Is(err, wallet.ErrNotFound) {
			if err := s.wallets.Create(ctx, userID, s.currency, amount); err != nil {
				return Result{}, fmt.Errorf("create wallet: %w", err)
			}
			return Result{Balance: amount, Currency: s.currency}, nil
		}
		return Result{}, err
	}

	newBalance := w.Balance.Add(amount)
	if err := s.wallets.Set(ctx, userID, s.currency, newBalance); err != nil {
		return Result{}, fmt.Errorf("credit wallet: %w", err)
	}
	return Result{Balance: newBalance, Currency: s.currency}, nil
}

// Withdraw debits the user's wallet.
func (s *Service) Withdraw(ctx context.Context, userID string, amount decimal.Decimal) (Result, error) {
	if amount.Sign() <= 0 {
		return Result{}, ErrInvalidAmount
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	w, err := s.wallets.Get(ctx, userID, s.currency)
	if err != nil {
		if errors.Is(err, wallet.ErrNotFound) {
			return Result{}, ErrNoWallet
		}
		return Result{}, err
	}
	if w.Balance.LessThan(amount) {
		return Result{}, ErrInsufficientFunds
	}

	newBalance := w.Balance.Sub(amount)
	if err := s.wallets.Set(ctx, userID, s.currency, newBalance); err != nil {
		return Result{}, fmt.Errorf("debit wallet: %w", err)
	}
	return Result{Balance: newBalance, Currency: s.currency}, nil
}

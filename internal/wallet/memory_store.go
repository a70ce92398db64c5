package wallet

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

type memoryStore struct {
	mu      sync.RWMutex
	wallets map[string]Wallet // keyed by userID + "/" + currency
}

// NewMemoryStore constructs an in-memory wallet store for tests.
func NewMemoryStore() Store {
	return &memoryStore{wallets: make(map[string]Wallet)}
}

func storeKey(userID, currency string) string {
	return userID + "/" + currency
}

func (s *memoryStore) Get(_ context.Context, userID, currency string) (Wallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.wallets[storeKey(userID, currency)]
	if !ok {
		return Wallet{}, ErrNotFound
	}
	return w, nil
}

func (s *memoryStore) Set(_ context.Context, userID, currency string, balance decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := storeKey(userID, currency)
	w, ok := s.wallets[key]
	if !ok {
		return ErrNotFound
	}
	w.Balance = balance
	w.UpdatedAt = time.Now().UTC()
	s.wallets[key] = w
	return nil
}

func (s *memoryStore) Create(_ context.Context, userID, currency string, balance decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := storeKey(userID, currency)
	if _, exists := s.wallets[key]; exists {
		return errors.New("wallet exists")
	}
	s.wallets[key] = Wallet{UserID: userID, Currency: currency, Balance: balance, UpdatedAt: time.Now().UTC()}
	return nil
}

func (s *memoryStore) ListByUser(_ context.Context, userID string) ([]Wallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var wallets []Wallet
	for _, w := range s.wallets {
		if w.UserID == userID {
			wallets = append(wallets, w)
		}
	}
	sort.Slice(wallets, func(i, j int) bool { return wallets[i].Currency < wallets[j].Currency })
	return wallets, nil
}

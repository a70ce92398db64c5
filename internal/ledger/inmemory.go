package ledger

import (
	"context"
	"sync"
)

// InMemoryLedger is a concurrency-safe in-memory ledger useful for unit tests.
type InMemoryLedger struct {
	mu      sync.RWMutex
	records []TransferRecord
}

// NewInMemory creates an empty in-memory ledger.
func NewInMemory() *InMemoryLedger {
	return &InMemoryLedger{}
}

// Append stores one transfer record.
func (l *InMemoryLedger) Append(_ context.Context, record TransferRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, record)
	return nil
}

// ListByUser returns records where the user is sender or recipient, newest first.
func (l *InMemoryLedger) ListByUser(_ context.Context, userID string) ([]TransferRecord, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var out []TransferRecord
	for i := len(l.records) - 1; i >= 0; i-- {
		rec := l.records[i]
		if rec.SenderID == userID || rec.RecipientID == userID {
			out = append(out, rec)
		}
	}
	return out, nil
}

// Records returns a copy of every appended record, in append order.
func (l *InMemoryLedger) Records() []TransferRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]TransferRecord, len(l.records))
	copy(out, l.records)
	return out
}

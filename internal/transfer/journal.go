package transfer

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry marks a transfer whose debit has committed but whose credit
// (or compensation) has not yet been resolved. An entry left open after a
// crash or a failed compensation is the input to operator reconciliation.
type JournalEntry struct {
	ID           string          `json:"id"`
	SenderID     string          `json:"sender_id"`
	RecipientID  string          `json:"recipient_id"`
	PriorBalance decimal.Decimal `json:"prior_balance"`
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency"`
	OpenedAt     time.Time       `json:"opened_at"`
}

// Journal persists pending-compensation markers. Open/Close failures are
// logged by the transfer service, never propagated; the journal is a
// reconciliation aid, not a gate.
type Journal interface {
	Open(ctx context.Context, entry JournalEntry) error
	Close(ctx context.Context, id string) error
	Pending(ctx context.Context) ([]JournalEntry, error)
}

type memoryJournal struct {
	mu      sync.Mutex
	entries map[string]JournalEntry
}

// NewMemoryJournal constructs an in-memory journal for tests.
func NewMemoryJournal() Journal {
	return &memoryJournal{entries: make(map[string]JournalEntry)}
}

func (j *memoryJournal) Open(_ context.Context, entry JournalEntry) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries[entry.ID] = entry
	return nil
}

func (j *memoryJournal) Close(_ context.Context, id string) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	delete(j.entries, id)
	return nil
}

func (j *memoryJournal) Pending(_ context.Context) ([]JournalEntry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]JournalEntry, 0, len(j.entries))
	for _, e := range j.entries {
		out = append(out, e)
	}
	return out, nil
}

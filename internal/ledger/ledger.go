package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// StatusCompleted is the only status a transfer record is written with.
// Records are appended only after both balance mutations have committed.
const StatusCompleted = "completed"

// TransferRecord is an immutable audit entry for one completed transfer.
// Sender and recipient emails are denormalized snapshots taken at
// transfer time.
type TransferRecord struct {
	ID             string
	SenderID       string
	RecipientID    string
	SenderEmail    string
	RecipientEmail string
	Amount         decimal.Decimal
	Currency       string
	Status         string
	CreatedAt      time.Time
}

// Ledger is an append-only record of completed transfers. Append failures
// are logged by callers, never propagated to the transfer outcome.
type Ledger interface {
	Append(ctx context.Context, record TransferRecord) error
	ListByUser(ctx context.Context, userID string) ([]TransferRecord, error)
}

package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestInMemoryAppendAndList(t *testing.T) {
	led := NewInMemory()
	ctx := context.Background()

	sender := uuid.NewString()
	recipient := uuid.NewString()

	first := TransferRecord{
		ID:             uuid.NewString(),
		SenderID:       sender,
		RecipientID:    recipient,
		SenderEmail:    "s@example.com",
		RecipientEmail: "r@example.com",
		Amount:         decimal.RequireFromString("40.00"),
		Currency:       "USD",
		Status:         StatusCompleted,
		CreatedAt:      time.Now().UTC(),
	}
	if err := led.Append(ctx, first); err != nil {
		t.Fatalf("append: %v", err)
	}
	second := first
	second.ID = uuid.NewString()
	second.Amount = decimal.RequireFromString("1.25")
	if err := led.Append(ctx, second); err != nil {
		t.Fatalf("append: %v", err)
	}

	records, err := led.ListByUser(ctx, recipient)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].ID != second.ID {
		t.Fatalf("expected newest record first")
	}

	if records, _ := led.ListByUser(ctx, uuid.NewString()); len(records) != 0 {
		t.Fatalf("expected no records for a stranger, got %d", len(records))
	}
}

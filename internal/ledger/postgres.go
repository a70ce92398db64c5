package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PostgresLedger persists transfer records in PostgreSQL.
type PostgresLedger struct {
	db *pgxpool.Pool
}

// NewPostgresLedger constructs a Postgres-backed ledger implementation.
func NewPostgresLedger(db *pgxpool.Pool) *PostgresLedger {
	return &PostgresLedger{db: db}
}

// Append inserts one transfer record.
func (l *PostgresLedger) Append(ctx context.Context, record TransferRecord) error {
	recordID, err := uuid.Parse(record.ID)
	if err != nil {
		return err
	}
	_, err = l.db.Exec(ctx, `INSERT INTO transfers
        (id, sender_id, recipient_id, sender_email, recipient_email, amount, currency, status, created_at)
        VALUES ($1, $2, $3, $4, $5, $6::numeric, $7, $8, $9)`,
		recordID, record.SenderID, record.RecipientID, record.SenderEmail, record.RecipientEmail,
		record.Amount.String(), record.Currency, record.Status, record.CreatedAt.UTC())
	return err
}

// ListByUser returns records where the user is sender or recipient, newest first.
func (l *PostgresLedger) ListByUser(ctx context.Context, userID string) ([]TransferRecord, error) {
	ownerID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("parse user id: %w", err)
	}
	rows, err := l.db.Query(ctx, `SELECT id, sender_id, recipient_id, sender_email, recipient_email,
        amount::text, currency, status, created_at
        FROM transfers WHERE sender_id = $1 OR recipient_id = $1
        ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []TransferRecord
	for rows.Next() {
		var (
			rec        TransferRecord
			id         uuid.UUID
			amountText string
			createdAt  time.Time
		)
		if err := rows.Scan(&id, &rec.SenderID, &rec.RecipientID, &rec.SenderEmail, &rec.RecipientEmail,
			&amountText, &rec.Currency, &rec.Status, &createdAt); err != nil {
			return nil, err
		}
		if rec.Amount, err = decimal.NewFromString(amountText); err != nil {
			return nil, err
		}
		rec.ID = id.String()
		rec.CreatedAt = createdAt.UTC()
		records = append(records, rec)
	}
	return records, rows.Err()
}

package wallet

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// ErrNotFound indicates no wallet row exists for the (user, currency) pair.
var ErrNotFound = errors.New("wallet not found")

// Store gives keyed read/write access to wallet rows.
type Store interface {
	Get(ctx context.Context, userID, currency string) (Wallet, error)
	Set(ctx context.Context, userID, currency string, balance decimal.Decimal) error
	Create(ctx context.Context, userID, currency string, balance decimal.Decimal) error
	ListByUser(ctx context.Context, userID string) ([]Wallet, error)
}

// PostgresStore stores wallet rows in PostgreSQL. Balances live in a
// NUMERIC column and travel as strings to avoid float conversion.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore builds a store backed by PostgreSQL.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// Get fetches the wallet row for a (user, currency) pair.
func (s *PostgresStore) Get(ctx context.Context, userID, currency string) (Wallet, error) {
	ownerID, err := uuid.Parse(userID)
	if err != nil {
		return Wallet{}, ErrNotFound
	}
	row := s.db.QueryRow(ctx, `SELECT balance::text, updated_at FROM wallets
        WHERE user_id = $1 AND currency = $2`, ownerID, currency)

	var (
		balanceText string
		updatedAt   time.Time
	)
	if err := row.Scan(&balanceText, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Wallet{}, ErrNotFound
		}
		return Wallet{}, err
	}
	balance, err := decimal.NewFromString(balanceText)
	if err != nil {
		return Wallet{}, err
	}
	return Wallet{UserID: userID, Currency: currency, Balance: balance, UpdatedAt: updatedAt.UTC()}, nil
}

// Set overwrites the balance of an existing wallet row and bumps its timestamp.
func (s *PostgresStore) Set(ctx context.Context, userID, currency string, balance decimal.Decimal) error {
	ownerID, err := uuid.Parse(userID)
	if err != nil {
		return ErrNotFound
	}
	cmd, err := s.db.Exec(ctx, `UPDATE wallets SET balance = $3::numeric, updated_at = $4
        WHERE user_id = $1 AND currency = $2`, ownerID, currency, balance.String(), time.Now().UTC())
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Create inserts a wallet row for a (user, currency) pair.
func (s *PostgresStore) Create(ctx context.Context, userID, currency string, balance decimal.Decimal) error {
	ownerID, err := uuid.Parse(userID)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(ctx, `INSERT INTO wallets (user_id, currency, balance, updated_at)
        VALUES ($1, $2, $3::numeric, $4)`, ownerID, currency, balance.String(), time.Now().UTC())
	return err
}

// ListByUser returns every wallet row owned by the user.
func (s *PostgresStore) ListByUser(ctx context.Context, userID string) ([]Wallet, error) {
	ownerID, err := uuid.Parse(userID)
	if err != nil {
		return nil, ErrNotFound
	}
	rows, err := s.db.Query(ctx, `SELECT currency, balance::text, updated_at FROM wallets
        WHERE user_id = $1 ORDER BY currency`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var wallets []Wallet
	for rows.Next() {
		var (
			w           Wallet
			balanceText string
			updatedAt   time.Time
		)
		if err := rows.Scan(&w.Currency, &balanceText, &updatedAt); err != nil {
			return nil, err
		}
		if w.Balance, err = decimal.NewFromString(balanceText); err != nil {
			return nil, err
		}
		w.UserID = userID
		w.UpdatedAt = updatedAt.UTC()
		wallets = append(wallets, w)
	}
	return wallets, rows.Err()
}

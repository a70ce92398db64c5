package wallet

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wallet is one balance row per (user, currency) pair. At most one row
// exists per pair, and a committed balance is never negative.
type Wallet struct {
	UserID    string
	Currency  string
	Balance   decimal.Decimal
	UpdatedAt time.Time
}

package transfer

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrUnauthorized occurs when no authenticated caller identity is present.
	ErrUnauthorized = errors.New("authentication required")

	// ErrInvalidInput covers an empty recipient email or a non-positive amount.
	ErrInvalidInput = errors.New("recipient email and a positive amount are required")

	// ErrRecipientNotFound indicates the recipient email resolves to no user.
	ErrRecipientNotFound = errors.New("recipient not found")

	// ErrSelfTransfer indicates the resolved recipient is the caller.
	ErrSelfTransfer = errors.New("cannot transfer to yourself")

	// ErrSenderWalletNotFound indicates the caller has no wallet row for the
	// transfer currency. Sender wallets are never auto-provisioned.
	ErrSenderWalletNotFound = errors.New("sender wallet not found")

	// ErrTransferFailed is the generic mutation-phase failure.
	ErrTransferFailed = errors.New("transfer failed")

	// ErrCompensationFailed marks the unrecovered partial failure: the sender
	// was debited, the credit failed, and restoring the sender balance failed
	// too. Surfaced to callers as ErrTransferFailed (it wraps it) but logged
	// at the highest severity for reconciliation.
	ErrCompensationFailed = fmt.Errorf("%w: compensation failed", ErrTransferFailed)
)

// InsufficientBalanceError carries the caller's current balance so it can be
// displayed without a second lookup.
type InsufficientBalanceError struct {
	Balance decimal.Decimal
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: have %s", e.Balance)
}

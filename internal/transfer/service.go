package transfer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/coinbridge/coinbridge/internal/identity"
	"github.com/coinbridge/coinbridge/internal/ledger"
	"github.com/coinbridge/coinbridge/internal/wallet"
)

// Directory resolves users by email or id. Satisfied by identity.Repository.
type Directory interface {
	FindByEmail(ctx context.Context, email string) (identity.User, error)
	FindByID(ctx context.Context, id string) (identity.User, error)
}

// Caller is the authenticated identity a transfer runs on behalf of,
// resolved once at the HTTP boundary and passed in explicitly.
type Caller struct {
	ID    string
	Email string
}

// Input carries the transfer request payload.
type Input struct {
	RecipientEmail string
	Amount         decimal.Decimal
}

// Result describes a completed transfer.
type Result struct {
	NewSenderBalance decimal.Decimal
	RecipientEmail   string
	Amount           decimal.Decimal
	Currency         string
}

// Service moves funds between two wallet rows as one logical operation.
// The backing store offers no multi-row transaction, so the credit failure
// path compensates by restoring the sender balance, and a pending journal
// entry brackets the window between debit and credit.
type Service struct {
	directory Directory
	wallets   wallet.Store
	ledger    ledger.Ledger
	journal   Journal
	locks     *wallet.UserLocks
	logger    *slog.Logger
	currency  string
}

// NewService constructs a transfer service for the fixed currency. The lock
// registry must be the same instance every wallet-mutating service uses.
func NewService(directory Directory, wallets wallet.Store, led ledger.Ledger, journal Journal, locks *wallet.UserLocks, logger *slog.Logger, currency string) *Service {
	if journal == nil {
		journal = NewMemoryJournal()
	}
	if locks == nil {
		locks = wallet.NewUserLocks()
	}
	return &Service{
		directory: directory,
		wallets:   wallets,
		ledger:    led,
		journal:   journal,
		locks:     locks,
		logger:    logger,
		currency:  currency,
	}
}

// Transfer debits the caller and credits the recipient, creating the
// recipient wallet on first incoming transfer. Both wallets are locked for
// the duration of the mutation: without the recipient lock, two transfers
// into one wallet can interleave their read-modify-write and lose a credit.
func (s *Service) Transfer(ctx context.Context, caller Caller, input Input) (Result, error) {
	if caller.ID == "" {
		return Result{}, ErrUnauthorized
	}
	if strings.TrimSpace(input.RecipientEmail) == "" || input.Amount.Sign() <= 0 {
		return Result{}, ErrInvalidInput
	}

	recipient, err := s.directory.FindByEmail(ctx, input.RecipientEmail)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return Result{}, ErrRecipientNotFound
		}
		return Result{}, fmt.Errorf("resolve recipient: %v: %w", err, ErrTransferFailed)
	}
	if recipient.ID == caller.ID {
		return Result{}, ErrSelfTransfer
	}

	unlock := s.locks.LockPair(caller.ID, recipient.ID)
	defer unlock()

	senderWallet, err := s.wallets.Get(ctx, caller.ID, s.currency)
	if err != nil {
		if errors.Is(err, wallet.ErrNotFound) {
			return Result{}, ErrSenderWalletNotFound
		}
		return Result{}, fmt.Errorf("read sender wallet: %v: %w", err, ErrTransferFailed)
	}
	if senderWallet.Balance.LessThan(input.Amount) {
		return Result{}, &InsufficientBalanceError{Balance: senderWallet.Balance}
	}

	newSenderBalance := senderWallet.Balance.Sub(input.Amount)

	entry := JournalEntry{
		ID:           uuid.NewString(),
		SenderID:     caller.ID,
		RecipientID:  recipient.ID,
		PriorBalance: senderWallet.Balance,
		Amount:       input.Amount,
		Currency:     s.currency,
		OpenedAt:     time.Now().UTC(),
	}
	if err := s.journal.Open(ctx, entry); err != nil {
		s.logger.Warn("open pending-transfer journal entry", "transfer_id", entry.ID, "error", err)
	}

	if err := s.wallets.Set(ctx, caller.ID, s.currency, newSenderBalance); err != nil {
		s.closeJournal(ctx, entry.ID)
		return Result{}, fmt.Errorf("debit sender: %v: %w", err, ErrTransferFailed)
	}

	// The debit is committed. From here the sequence must run to
	// completion or compensation even if the caller goes away.
	ctx = context.WithoutCancel(ctx)

	if err := s.credit(ctx, recipient.ID, input.Amount); err != nil {
		if cerr := s.wallets.Set(ctx, caller.ID, s.currency, senderWallet.Balance); cerr != nil {
			// Money has left the sender with no credited destination and the
			// journal entry stays open for reconciliation.
			s.logger.Error("unrecovered partial transfer: sender debited, credit and compensation both failed",
				"transfer_id", entry.ID,
				"sender_id", caller.ID,
				"recipient_id", recipient.ID,
				"amount", input.Amount.String(),
				"credit_error", err,
				"compensation_error", cerr,
			)
			return Result{}, fmt.Errorf("credit recipient: %v: %w", err, ErrCompensationFailed)
		}
		s.closeJournal(ctx, entry.ID)
		return Result{}, fmt.Errorf("credit recipient: %v: %w", err, ErrTransferFailed)
	}

	s.closeJournal(ctx, entry.ID)

	senderEmail := caller.Email
	if sender, err := s.directory.FindByID(ctx, caller.ID); err == nil && sender.Email != "" {
		senderEmail = sender.Email
	}

	record := ledger.TransferRecord{
		ID:             entry.ID,
		SenderID:       caller.ID,
		RecipientID:    recipient.ID,
		SenderEmail:    senderEmail,
		RecipientEmail: recipient.Email,
		Amount:         input.Amount,
		Currency:       s.currency,
		Status:         ledger.StatusCompleted,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.ledger.Append(ctx, record); err != nil {
		// The transfer is already committed; the missing audit row is the
		// only consequence.
		s.logger.Error("append transfer record", "transfer_id", entry.ID, "error", err)
	}

	return Result{
		NewSenderBalance: newSenderBalance,
		RecipientEmail:   recipient.Email,
		Amount:           input.Amount,
		Currency:         s.currency,
	}, nil
}

// History returns the caller's transfer records, newest first.
func (s *Service) History(ctx context.Context, caller Caller) ([]ledger.TransferRecord, error) {
	if caller.ID == "" {
		return nil, ErrUnauthorized
	}
	return s.ledger.ListByUser(ctx, caller.ID)
}

// PendingCompensations lists journal entries left open by crashed or
// unrecovered transfers.
func (s *Service) PendingCompensations(ctx context.Context) ([]JournalEntry, error) {
	return s.journal.Pending(ctx)
}

// credit adds to the recipient wallet, creating it on first incoming transfer.
func (s *Service) credit(ctx context.Context, recipientID string, amount decimal.Decimal) error {
	recipientWallet, err := s.wallets.Get(ctx, recipientID, s.currency)
	if err != nil {
		if errors.Is(err, wallet.ErrNotFound) {
			return s.wallets.Create(ctx, recipientID, s.currency, amount)
		}
		return err
	}
	return s.wallets.Set(ctx, recipientID, s.currency, recipientWallet.Balance.Add(amount))
}

func (s *Service) closeJournal(ctx context.Context, id string) {
	if err := s.journal.Close(ctx, id); err != nil {
		s.logger.Warn("close pending-transfer journal entry", "transfer_id", id, "error", err)
	}
}

// Package transfer orchestrates money movements through the optimistic
// transfer protocol and exposes the read-only transaction queries.
package transfer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cashwire/transferd/internal/bank"
	"github.com/cashwire/transferd/internal/errs"
	"github.com/cashwire/transferd/internal/keys"
	"github.com/cashwire/transferd/internal/shortid"
)

// Repo defines read operations needed by the service.
type Repo interface {
	Transaction(ctx context.Context, id string) (bank.Transaction, error)
	ListTransactionIDs(ctx context.Context) ([]string, error)
}

// Engine executes a transfer with all-or-nothing semantics. It reports
// errs.ErrTransferConflict when an optimistic-lock rejection voids the commit;
// it never retries on its own.
type Engine interface {
	Transfer(ctx context.Context, t bank.Transaction) (bank.Transaction, error)
}

// Service exposes transfer execution and the transaction query façade.
type Service interface {
	ValidateRequest(senderID, recipientID string, amount int64, currency string) error
	Create(ctx context.Context, senderID, recipientID string, amount int64, currency string) (bank.Transaction, error)
	Get(ctx context.Context, id string) (bank.Transaction, error)
	List(ctx context.Context) ([]bank.Transaction, error)
	ListForAccount(ctx context.Context, accountID string) ([]bank.Transaction, error)
}

type service struct {
	repo   Repo
	engine Engine
}

func New(repo Repo, engine Engine) Service { return &service{repo: repo, engine: engine} }

// ValidateRequest checks the shape of a transfer request before any store
// access: well-formed distinct account ids, a strictly positive minor-unit
// amount, and a known currency code. Account existence, currency agreement,
// and funds are validated inside the engine against a watched snapshot.
func (s *service) ValidateRequest(senderID, recipientID string, amount int64, currency string) error {
	if !keys.ValidID(senderID) {
		return fmt.Errorf("%w: bad sender id", errs.ErrInvalid)
	}
	if !keys.ValidID(recipientID) {
		return fmt.Errorf("%w: bad recipient id", errs.ErrInvalid)
	}
	if senderID == recipientID {
		return fmt.Errorf("%w: sender and recipient must differ", errs.ErrInvalid)
	}
	if amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", errs.ErrInvalid)
	}
	if !bank.ValidCurrency(currency) {
		return fmt.Errorf("%w: unknown currency code %q", errs.ErrInvalid, currency)
	}
	return nil
}

// Create runs one round of the transfer protocol. Two calls with identical
// arguments produce two distinct transactions; de-duplication belongs to the
// caller.
func (s *service) Create(ctx context.Context, senderID, recipientID string, amount int64, currency string) (bank.Transaction, error) {
	if err := s.ValidateRequest(senderID, recipientID, amount, currency); err != nil {
		return bank.Transaction{}, err
	}
	t := bank.Transaction{
		ID:          shortid.New(),
		Created:     time.Now().UTC(),
		Amount:      bank.Money{Amount: amount, Currency: strings.ToUpper(currency)},
		SenderID:    senderID,
		RecipientID: recipientID,
	}
	return s.engine.Transfer(ctx, t)
}

func (s *service) Get(ctx context.Context, id string) (bank.Transaction, error) {
	if !keys.ValidID(id) {
		return bank.Transaction{}, fmt.Errorf("%w: bad transaction id", errs.ErrInvalid)
	}
	return s.repo.Transaction(ctx, id)
}

// List enumerates all transactions, best-effort: each record is read
// independently and records that vanish mid-listing are skipped.
func (s *service) List(ctx context.Context) ([]bank.Transaction, error) {
	ids, err := s.repo.ListTransactionIDs(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]bank.Transaction, 0, len(ids))
	for _, id := range ids {
		t, err := s.repo.Transaction(ctx, id)
		if err != nil {
			if errors.Is(err, errs.ErrNotFound) {
				continue
			}
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// ListForAccount filters the full transaction listing down to entries where
// the account is sender or recipient.
func (s *service) ListForAccount(ctx context.Context, accountID string) ([]bank.Transaction, error) {
	if !keys.ValidID(accountID) {
		return nil, fmt.Errorf("%w: bad account id", errs.ErrInvalid)
	}
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]bank.Transaction, 0, len(all))
	for _, t := range all {
		if t.Touches(accountID) {
			out = append(out, t)
		}
	}
	return out, nil
}

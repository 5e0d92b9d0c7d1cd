// Package account implements the account use-cases: creation with validated
// opening balance and currency, reads, deletes, and best-effort listing.
package account

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
	Account(ctx context.Context, id string) (bank.Account, error)
	ListAccountIDs(ctx context.Context) ([]string, error)
}

// Writer defines write operations needed by the service.
type Writer interface {
	CreateAccount(ctx context.Context, a bank.Account) (bank.Account, error)
	DeleteAccount(ctx context.Context, id string) (bool, error)
}

// Service exposes validation and the account operations consumed by the HTTP
// layer.
type Service interface {
	ValidateCreate(balance int64, currency string) error
	Create(ctx context.Context, balance int64, currency string) (bank.Account, error)
	Get(ctx context.Context, id string) (bank.Account, error)
	Delete(ctx context.Context, id string) (bool, error)
	List(ctx context.Context) ([]bank.Account, error)
}

type service struct {
	repo   Repo
	writer Writer
}

func New(repo Repo, writer Writer) Service { return &service{repo: repo, writer: writer} }

// ValidateCreate checks the opening balance and currency of a new account.
// Balances are minor-unit integers and may not start negative.
func (s *service) ValidateCreate(balance int64, currency string) error {
	if balance < 0 {
		return fmt.Errorf("%w: balance must not be negative", errs.ErrInvalid)
	}
	if !bank.ValidCurrency(currency) {
		return fmt.Errorf("%w: unknown currency code %q", errs.ErrInvalid, currency)
	}
	return nil
}

// Create mints a fresh id and timestamp and persists the account, returning
// the record as stored.
func (s *service) Create(ctx context.Context, balance int64, currency string) (bank.Account, error) {
	if err := s.ValidateCreate(balance, currency); err != nil {
		return bank.Account{}, err
	}
	a := bank.Account{
		ID:      shortid.New(),
		Created: time.Now().UTC(),
		Balance: bank.Money{Amount: balance, Currency: strings.ToUpper(currency)},
	}
	return s.writer.CreateAccount(ctx, a)
}

func (s *service) Get(ctx context.Context, id string) (bank.Account, error) {
	if !keys.ValidID(id) {
		return bank.Account{}, fmt.Errorf("%w: bad account id", errs.ErrInvalid)
	}
	return s.repo.Account(ctx, id)
}

// Delete removes the account record. The boolean reports whether it existed.
func (s *service) Delete(ctx context.Context, id string) (bool, error) {
	if !keys.ValidID(id) {
		return false, fmt.Errorf("%w: bad account id", errs.ErrInvalid)
	}
	return s.writer.DeleteAccount(ctx, id)
}

// List enumerates all accounts. Each record is read independently, so the
// snapshot is best-effort: records deleted between the scan and the read are
// skipped rather than failing the whole listing.
func (s *service) List(ctx context.Context) ([]bank.Account, error) {
	ids, err := s.repo.ListAccountIDs(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]bank.Account, 0, len(ids))
	for _, id := range ids {
		a, err := s.repo.Account(ctx, id)
		if err != nil {
			if errors.Is(err, errs.ErrNotFound) {
				continue
			}
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

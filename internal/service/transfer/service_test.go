package transfer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/cashwire/transferd/internal/errs"
	"github.com/cashwire/transferd/internal/service/account"
	redisstore "github.com/cashwire/transferd/internal/storage/redis"
)

func setup(t *testing.T) (Service, account.Service) {
	t.Helper()
	m := miniredis.RunT(t)
	store, err := redisstore.Open(context.Background(), redisstore.Config{
		Addr: m.Addr(), PoolSize: 10, PoolTimeout: time.Second,
	})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(store.Close)
	return New(store, store), account.New(store, store)
}

func TestValidateRequest(t *testing.T) {
	svc, _ := setup(t)
	cases := []struct {
		name              string
		sender, recipient string
		amount            int64
		currency          string
		wantErr           bool
	}{
		{"valid", "a1", "a2", 100, "USD", false},
		{"empty sender", "", "a2", 100, "USD", true},
		{"separator in recipient", "a1", "a:2", 100, "USD", true},
		{"same account", "a1", "a1", 100, "USD", true},
		{"zero amount", "a1", "a2", 0, "USD", true},
		{"negative amount", "a1", "a2", -5, "USD", true},
		{"bad currency", "a1", "a2", 100, "MONEY", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.ValidateRequest(tc.sender, tc.recipient, tc.amount, tc.currency)
			if tc.wantErr && !errors.Is(err, errs.ErrInvalid) {
				t.Fatalf("expected ErrInvalid, got %v", err)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestCreateAndQueries(t *testing.T) {
	svc, accounts := setup(t)
	ctx := context.Background()

	a1, _ := accounts.Create(ctx, 10000, "USD")
	a2, _ := accounts.Create(ctx, 0, "USD")
	a3, _ := accounts.Create(ctx, 500, "USD")

	tx, err := svc.Create(ctx, a1.ID, a2.ID, 4000, "USD")
	if err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if tx.SenderID != a1.ID || tx.RecipientID != a2.ID || tx.Amount.Amount != 4000 {
		t.Fatalf("unexpected transaction: %+v", tx)
	}

	second, err := svc.Create(ctx, a3.ID, a1.ID, 500, "USD")
	if err != nil {
		t.Fatalf("second transfer: %v", err)
	}

	got, err := svc.Get(ctx, tx.ID)
	if err != nil || got != tx {
		t.Fatalf("get: %+v err=%v", got, err)
	}

	all, err := svc.List(ctx)
	if err != nil || len(all) != 2 {
		t.Fatalf("expected 2 transactions, got %v err=%v", all, err)
	}

	forA2, err := svc.ListForAccount(ctx, a2.ID)
	if err != nil || len(forA2) != 1 || forA2[0].ID != tx.ID {
		t.Fatalf("filter by recipient: %v err=%v", forA2, err)
	}
	forA1, err := svc.ListForAccount(ctx, a1.ID)
	if err != nil || len(forA1) != 2 {
		t.Fatalf("a1 touches both transfers: %v err=%v", forA1, err)
	}
	forA3, err := svc.ListForAccount(ctx, a3.ID)
	if err != nil || len(forA3) != 1 || forA3[0].ID != second.ID {
		t.Fatalf("filter by sender: %v err=%v", forA3, err)
	}

	none, err := svc.ListForAccount(ctx, "deadbeef")
	if err != nil || len(none) != 0 {
		t.Fatalf("unknown account should filter to empty: %v err=%v", none, err)
	}
}

func TestCreateNoIdempotence(t *testing.T) {
	svc, accounts := setup(t)
	ctx := context.Background()

	a1, _ := accounts.Create(ctx, 1000, "USD")
	a2, _ := accounts.Create(ctx, 0, "USD")

	first, err := svc.Create(ctx, a1.ID, a2.ID, 100, "USD")
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := svc.Create(ctx, a1.ID, a2.ID, 100, "USD")
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if first.ID == second.ID {
		t.Fatal("identical requests must yield distinct transactions")
	}
	recipient, _ := accounts.Get(ctx, a2.ID)
	if recipient.Balance.Amount != 200 {
		t.Fatalf("expected two balance movements, balance %d", recipient.Balance.Amount)
	}
}

func TestCreateValidationFailures(t *testing.T) {
	svc, accounts := setup(t)
	ctx := context.Background()

	a1, _ := accounts.Create(ctx, 500, "USD")
	a2, _ := accounts.Create(ctx, 0, "USD")

	if _, err := svc.Create(ctx, a1.ID, a2.ID, 600, "USD"); !errors.Is(err, errs.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if _, err := svc.Create(ctx, a1.ID, "deadbeef", 100, "USD"); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.Create(ctx, a1.ID, a2.ID, 100, "EUR"); !errors.Is(err, errs.ErrCurrencyMismatch) {
		t.Fatalf("expected ErrCurrencyMismatch, got %v", err)
	}

	all, _ := svc.List(ctx)
	if len(all) != 0 {
		t.Fatalf("no transaction records should exist, got %v", all)
	}
}

package account

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/cashwire/transferd/internal/errs"
	redisstore "github.com/cashwire/transferd/internal/storage/redis"
)

func setup(t *testing.T) Service {
	t.Helper()
	m := miniredis.RunT(t)
	store, err := redisstore.Open(context.Background(), redisstore.Config{
		Addr: m.Addr(), PoolSize: 10, PoolTimeout: time.Second,
	})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(store.Close)
	return New(store, store)
}

func TestValidateCreate(t *testing.T) {
	svc := setup(t)
	if err := svc.ValidateCreate(0, "USD"); err != nil {
		t.Fatalf("zero balance should be allowed: %v", err)
	}
	if err := svc.ValidateCreate(-1, "USD"); !errors.Is(err, errs.ErrInvalid) {
		t.Fatalf("negative balance: got %v", err)
	}
	if err := svc.ValidateCreate(100, "DOLLARS"); !errors.Is(err, errs.ErrInvalid) {
		t.Fatalf("bad currency: got %v", err)
	}
}

func TestCreateGetDelete(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, 10000, "usd")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if a.ID == "" || a.Balance.Amount != 10000 || a.Balance.Currency != "USD" {
		t.Fatalf("unexpected account: %+v", a)
	}

	got, err := svc.Get(ctx, a.ID)
	if err != nil || got != a {
		t.Fatalf("get: %+v err=%v", got, err)
	}

	if _, err := svc.Get(ctx, "with:colon"); !errors.Is(err, errs.ErrInvalid) {
		t.Fatalf("separator in id must be rejected: %v", err)
	}

	deleted, err := svc.Delete(ctx, a.ID)
	if err != nil || !deleted {
		t.Fatalf("delete: %v %v", deleted, err)
	}
	if _, err := svc.Get(ctx, a.ID); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	deleted, err = svc.Delete(ctx, a.ID)
	if err != nil || deleted {
		t.Fatalf("second delete should report false: %v %v", deleted, err)
	}
}

func TestList(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	accounts, err := svc.List(ctx)
	if err != nil || len(accounts) != 0 {
		t.Fatalf("empty list: %v err=%v", accounts, err)
	}

	first, _ := svc.Create(ctx, 100, "USD")
	second, _ := svc.Create(ctx, 200, "EUR")

	accounts, err = svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(accounts) != 2 {
		t.Fatalf("expected 2 accounts, got %d", len(accounts))
	}
	seen := map[string]bool{}
	for _, a := range accounts {
		seen[a.ID] = true
	}
	if !seen[first.ID] || !seen[second.ID] {
		t.Fatalf("listing missing accounts: %+v", accounts)
	}
}

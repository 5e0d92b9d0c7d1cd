package redis

// Package redis provides the go-redis-backed storage implementation that
// satisfies the repository and writer interfaces used by the services and the
// HTTP layer.
//
// Accounts and transactions are hashes keyed by the schemas in internal/keys.
// The transfer protocol (watch, validate, commit) lives in transfer.go. This
// file covers record CRUD, key enumeration, and the mapping between domain
// entities and field maps.

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cashwire/transferd/internal/bank"
	"github.com/cashwire/transferd/internal/errs"
	"github.com/cashwire/transferd/internal/keys"
)

// Config carries the connection and pool settings for the store. PoolTimeout
// bounds how long an operation waits for a free connection before the call
// fails with a pool-exhausted error.
type Config struct {
	Addr         string
	Password     string
	DB           int
	PoolSize     int
	PoolTimeout  time.Duration
	MinIdleConns int
}

// Store holds a pooled Redis client and implements the read/write interfaces
// used across the service layer. All methods are safe for concurrent use; each
// operation checks out at most one connection and returns it on every exit
// path.
type Store struct {
	client *redis.Client
}

// Open establishes a pooled client using the provided settings and verifies
// connectivity before returning.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		PoolTimeout:  cfg.PoolTimeout,
		MinIdleConns: cfg.MinIdleConns,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, wrapErr(err)
	}
	return &Store{client: client}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() { _ = s.client.Close() }

// Ready pings the store to verify connectivity.
func (s *Store) Ready(ctx context.Context) error { return wrapErr(s.client.Ping(ctx).Err()) }

// --- Accounts ---

// CreateAccount writes the full account record as one atomic multi-field write
// and returns the record as persisted. Id collisions are the caller's problem;
// id generation is assumed collision-free.
func (s *Store) CreateAccount(ctx context.Context, a bank.Account) (bank.Account, error) {
	key := keys.Account(a.ID)
	if err := s.client.HSet(ctx, key, accountFields(a)).Err(); err != nil {
		return bank.Account{}, wrapErr(err)
	}
	return s.Account(ctx, a.ID)
}

// Account reads the full field map for an account. An empty map means the
// account does not exist.
func (s *Store) Account(ctx context.Context, id string) (bank.Account, error) {
	hash, err := s.client.HGetAll(ctx, keys.Account(id)).Result()
	if err != nil {
		return bank.Account{}, wrapErr(err)
	}
	if len(hash) == 0 {
		return bank.Account{}, fmt.Errorf("%w: account %s", errs.ErrNotFound, id)
	}
	return accountFromHash(hash)
}

// DeleteAccount removes the known field set for the account key. The boolean
// reports whether any field was actually deleted; false means the account did
// not exist.
func (s *Store) DeleteAccount(ctx context.Context, id string) (bool, error) {
	n, err := s.client.HDel(ctx, keys.Account(id), keys.AccountFields...).Result()
	if err != nil {
		return false, wrapErr(err)
	}
	return n != 0, nil
}

// ListAccountIDs enumerates the ids of all account records. Ordering is
// store-native and not stable across calls.
func (s *Store) ListAccountIDs(ctx context.Context) ([]string, error) {
	return s.scanIDs(ctx, keys.AccountPattern, keys.AccountID)
}

// --- Transactions ---

// Transaction reads a committed transaction record by id.
func (s *Store) Transaction(ctx context.Context, id string) (bank.Transaction, error) {
	hash, err := s.client.HGetAll(ctx, keys.Transaction(id)).Result()
	if err != nil {
		return bank.Transaction{}, wrapErr(err)
	}
	if len(hash) == 0 {
		return bank.Transaction{}, fmt.Errorf("%w: transaction %s", errs.ErrNotFound, id)
	}
	return transactionFromHash(hash)
}

// ListTransactionIDs enumerates the ids of all transaction records.
func (s *Store) ListTransactionIDs(ctx context.Context) ([]string, error) {
	return s.scanIDs(ctx, keys.TransactionPattern, keys.TransactionID)
}

func (s *Store) scanIDs(ctx context.Context, pattern string, toID func(string) (string, bool)) ([]string, error) {
	ids := make([]string, 0)
	iter := s.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if id, ok := toID(iter.Val()); ok {
			ids = append(ids, id)
		}
	}
	if err := iter.Err(); err != nil {
		return nil, wrapErr(err)
	}
	return ids, nil
}

// --- Plain string values ---
// Used by the HTTP idempotency middleware for response caching and locks.

// GetValue fetches a plain string value.
func (s *Store) GetValue(ctx context.Context, key string) (string, error) {
	v, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("%w: %s", errs.ErrNotFound, key)
	}
	if err != nil {
		return "", wrapErr(err)
	}
	return v, nil
}

// SetValue stores a plain string value with a TTL (zero means no expiry).
func (s *Store) SetValue(ctx context.Context, key, value string, ttl time.Duration) error {
	return wrapErr(s.client.Set(ctx, key, value, ttl).Err())
}

// SetValueNX stores the value only if the key is absent, returning whether the
// write happened.
func (s *Store) SetValueNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, key, value, ttl).Result()
	if err != nil {
		return false, wrapErr(err)
	}
	return ok, nil
}

// DeleteValue removes a plain string value, reporting whether it existed.
func (s *Store) DeleteValue(ctx context.Context, key string) (bool, error) {
	n, err := s.client.Del(ctx, key).Result()
	if err != nil {
		return false, wrapErr(err)
	}
	return n != 0, nil
}

// --- Field-map codecs ---

func accountFields(a bank.Account) map[string]string {
	return map[string]string{
		keys.FieldID:       a.ID,
		keys.FieldCreated:  a.Created.UTC().Format(time.RFC3339Nano),
		keys.FieldBalance:  strconv.FormatInt(a.Balance.Amount, 10),
		keys.FieldCurrency: a.Balance.Currency,
	}
}

func accountFromHash(hash map[string]string) (bank.Account, error) {
	created, err := time.Parse(time.RFC3339Nano, hash[keys.FieldCreated])
	if err != nil {
		return bank.Account{}, fmt.Errorf("%w: bad created field: %v", errs.ErrStore, err)
	}
	amount, err := strconv.ParseInt(hash[keys.FieldBalance], 10, 64)
	if err != nil {
		return bank.Account{}, fmt.Errorf("%w: bad balance field: %v", errs.ErrStore, err)
	}
	return bank.Account{
		ID:      hash[keys.FieldID],
		Created: created,
		Balance: bank.Money{Amount: amount, Currency: hash[keys.FieldCurrency]},
	}, nil
}

func transactionFields(t bank.Transaction) map[string]string {
	return map[string]string{
		keys.FieldID:          t.ID,
		keys.FieldCreated:     t.Created.UTC().Format(time.RFC3339Nano),
		keys.FieldAmount:      strconv.FormatInt(t.Amount.Amount, 10),
		keys.FieldCurrency:    t.Amount.Currency,
		keys.FieldSenderID:    t.SenderID,
		keys.FieldRecipientID: t.RecipientID,
	}
}

func transactionFromHash(hash map[string]string) (bank.Transaction, error) {
	created, err := time.Parse(time.RFC3339Nano, hash[keys.FieldCreated])
	if err != nil {
		return bank.Transaction{}, fmt.Errorf("%w: bad created field: %v", errs.ErrStore, err)
	}
	amount, err := strconv.ParseInt(hash[keys.FieldAmount], 10, 64)
	if err != nil {
		return bank.Transaction{}, fmt.Errorf("%w: bad amount field: %v", errs.ErrStore, err)
	}
	return bank.Transaction{
		ID:          hash[keys.FieldID],
		Created:     created,
		Amount:      bank.Money{Amount: amount, Currency: hash[keys.FieldCurrency]},
		SenderID:    hash[keys.FieldSenderID],
		RecipientID: hash[keys.FieldRecipientID],
	}, nil
}

// --- Error mapping ---

// wrapErr maps backend failures onto the error taxonomy at the storage edge.
// Domain sentinels pass through untouched so callers can match on them.
func wrapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, errs.ErrNotFound),
		errors.Is(err, errs.ErrInsufficientFunds),
		errors.Is(err, errs.ErrCurrencyMismatch),
		errors.Is(err, errs.ErrTransferConflict),
		errors.Is(err, errs.ErrPoolExhausted),
		errors.Is(err, errs.ErrConnection),
		errors.Is(err, errs.ErrStore):
		return err
	case errors.Is(err, redis.TxFailedErr):
		return fmt.Errorf("%w: %v", errs.ErrTransferConflict, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	}
	if strings.Contains(err.Error(), "connection pool timeout") {
		return fmt.Errorf("%w: %v", errs.ErrPoolExhausted, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("%w: %v", errs.ErrConnection, err)
	}
	return fmt.Errorf("%w: %v", errs.ErrStore, err)
}

package redis

// The transfer protocol. A transfer either fully applies (both balances moved
// and the transaction record written in one EXEC) or has no effect at all.
// Concurrency control is optimistic: both account keys are watched, the
// preconditions are re-read on the watched connection, and the commit batch is
// discarded by the store if either key changed in the meantime.

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/cashwire/transferd/internal/bank"
	"github.com/cashwire/transferd/internal/errs"
	"github.com/cashwire/transferd/internal/keys"
)

// Transfer executes t against the store:
//
//  1. watch the sender and recipient account keys
//  2. read both records on the watched connection and validate existence,
//     currency agreement, and sufficient funds — all against one snapshot
//  3. queue HINCRBY(sender, -amount), HINCRBY(recipient, +amount) and the full
//     transaction record, then EXEC conditional on the watched keys
//
// Validation failures release the watch and return the matching sentinel; no
// mutation is attempted. An EXEC aborted by a concurrent write surfaces as
// ErrTransferConflict, and the caller may re-enter with fresh reads — Transfer
// itself never retries. On success the persisted record is read back and
// returned.
func (s *Store) Transfer(ctx context.Context, t bank.Transaction) (bank.Transaction, error) {
	senderKey := keys.Account(t.SenderID)
	recipientKey := keys.Account(t.RecipientID)

	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		// One pipelined read pass so both records come from the same
		// snapshot; a write between two separate reads could otherwise be
		// judged as a validation failure instead of a lock loss.
		var senderCmd, recipientCmd *redis.MapStringStringCmd
		if _, err := tx.Pipelined(ctx, func(pipe redis.Pipeliner) error {
			senderCmd = pipe.HGetAll(ctx, senderKey)
			recipientCmd = pipe.HGetAll(ctx, recipientKey)
			return nil
		}); err != nil {
			return err
		}
		senderHash := senderCmd.Val()
		recipientHash := recipientCmd.Val()

		if len(senderHash) == 0 {
			return fmt.Errorf("%w: account %s", errs.ErrNotFound, t.SenderID)
		}
		if len(recipientHash) == 0 {
			return fmt.Errorf("%w: account %s", errs.ErrNotFound, t.RecipientID)
		}
		sender, err := accountFromHash(senderHash)
		if err != nil {
			return err
		}
		recipient, err := accountFromHash(recipientHash)
		if err != nil {
			return err
		}
		if sender.Balance.Currency != t.Amount.Currency || recipient.Balance.Currency != t.Amount.Currency {
			return fmt.Errorf("%w: sender %s, recipient %s, transfer %s",
				errs.ErrCurrencyMismatch, sender.Balance.Currency, recipient.Balance.Currency, t.Amount.Currency)
		}
		if sender.Balance.Amount < t.Amount.Amount {
			return fmt.Errorf("%w: required %d, available %d",
				errs.ErrInsufficientFunds, t.Amount.Amount, sender.Balance.Amount)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HIncrBy(ctx, senderKey, keys.FieldBalance, -t.Amount.Amount)
			pipe.HIncrBy(ctx, recipientKey, keys.FieldBalance, t.Amount.Amount)
			pipe.HSet(ctx, keys.Transaction(t.ID), transactionFields(t))
			return nil
		})
		return err
	}, senderKey, recipientKey)
	if err != nil {
		return bank.Transaction{}, wrapErr(err)
	}

	return s.Transaction(ctx, t.ID)
}

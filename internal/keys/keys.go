// Package keys defines the mapping from domain identifiers to store keys and
// the field names used inside account and transaction records. Pure functions,
// no I/O; ids must not contain the ':' separator.
package keys

import "strings"

// Scan patterns for enumerating records by kind.
const (
	AccountPattern     = "account:*"
	TransactionPattern = "transaction:*"
)

const (
	accountPrefix     = "account:"
	transactionPrefix = "transaction:"
)

// Separator splits the record kind from the id inside a key.
const Separator = ":"

// Field names inside an account record.
const (
	FieldID       = "id"
	FieldCreated  = "created"
	FieldBalance  = "balance"
	FieldCurrency = "currency"
)

// Additional field names inside a transaction record.
const (
	FieldAmount      = "amount"
	FieldSenderID    = "senderId"
	FieldRecipientID = "recipientId"
)

// AccountFields is the full field set of an account record, used for
// whole-record deletes.
var AccountFields = []string{FieldID, FieldCreated, FieldBalance, FieldCurrency}

// Account returns the store key for an account id, "account:<id>".
func Account(id string) string { return accountPrefix + id }

// Transaction returns the store key for a transaction id, "transaction:<id>".
func Transaction(id string) string { return transactionPrefix + id }

// AccountID extracts the id from an account key. The second return is false
// when the key is not an account key.
func AccountID(key string) (string, bool) {
	return strings.CutPrefix(key, accountPrefix)
}

// TransactionID extracts the id from a transaction key.
func TransactionID(key string) (string, bool) {
	return strings.CutPrefix(key, transactionPrefix)
}

// ValidID reports whether an id is usable as a key component: non-empty and
// free of the separator, so keys stay collision-free.
func ValidID(id string) bool {
	return id != "" && !strings.Contains(id, Separator)
}

// Package bank holds the canonical domain entities of the transfer ledger.
// Monetary amounts are integers in the currency's minor unit everywhere; no
// floating point enters balance arithmetic.
package bank

import (
	"strings"
	"time"

	"github.com/govalues/money"
)

// Money is an integer amount of minor units in a single currency.
type Money struct {
	Amount   int64
	Currency string
}

// Display renders the amount in major units for human consumption, e.g.
// "USD 40.00". The minor-unit integer stays the machine representation.
func (m Money) Display() string {
	amt, err := money.NewAmountFromMinorUnits(m.Currency, m.Amount)
	if err != nil {
		return ""
	}
	return amt.String()
}

// ValidCurrency reports whether code is a known ISO 4217 currency code.
// Case-insensitive; stored records always carry the uppercase form.
func ValidCurrency(code string) bool {
	_, err := money.NewAmountFromMinorUnits(strings.ToUpper(code), 0)
	return err == nil
}

// Account is a balance-holding record. The balance is only ever mutated by the
// transfer protocol; ID and Created are immutable after creation.
type Account struct {
	ID      string
	Created time.Time
	Balance Money
}

// Transaction records one committed transfer. Immutable once written: it
// exists if and only if the corresponding balance movement committed.
type Transaction struct {
	ID          string
	Created     time.Time
	Amount      Money
	SenderID    string
	RecipientID string
}

// Touches reports whether the transaction debits or credits the given account.
func (t Transaction) Touches(accountID string) bool {
	return t.SenderID == accountID || t.RecipientID == accountID
}

package v1

import (
	"time"

	"github.com/cashwire/transferd/internal/bank"
)

// Request field names follow the public API contract (balance/amount in minor
// units, currencyCode as ISO 4217).

type createAccountRequest struct {
	Balance      int64  `json:"balance"`
	CurrencyCode string `json:"currencyCode"`
}

type createTransactionRequest struct {
	Amount             int64  `json:"amount"`
	CurrencyCode       string `json:"currencyCode"`
	SenderAccountID    string `json:"senderAccountId"`
	RecipientAccountID string `json:"recipientAccountId"`
}

type accountResponse struct {
	ID             string    `json:"id"`
	Created        time.Time `json:"created"`
	Balance        int64     `json:"balance"`
	Currency       string    `json:"currency"`
	BalanceDisplay string    `json:"balanceDisplay,omitempty"`
}

type transactionResponse struct {
	ID            string    `json:"id"`
	Created       time.Time `json:"created"`
	Amount        int64     `json:"amount"`
	Currency      string    `json:"currency"`
	AmountDisplay string    `json:"amountDisplay,omitempty"`
	SenderID      string    `json:"senderId"`
	RecipientID   string    `json:"recipientId"`
}

func toAccountResponse(a bank.Account) accountResponse {
	return accountResponse{
		ID:             a.ID,
		Created:        a.Created,
		Balance:        a.Balance.Amount,
		Currency:       a.Balance.Currency,
		BalanceDisplay: a.Balance.Display(),
	}
}

func toTransactionResponse(t bank.Transaction) transactionResponse {
	return transactionResponse{
		ID:            t.ID,
		Created:       t.Created,
		Amount:        t.Amount.Amount,
		Currency:      t.Amount.Currency,
		AmountDisplay: t.Amount.Display(),
		SenderID:      t.SenderID,
		RecipientID:   t.RecipientID,
	}
}

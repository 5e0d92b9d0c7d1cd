package bank

import "testing"

func TestMoneyDisplay(t *testing.T) {
	m := Money{Amount: 4000, Currency: "USD"}
	if got := m.Display(); got != "USD 40.00" {
		t.Fatalf("unexpected display: %q", got)
	}
	// zero-decimal currency
	y := Money{Amount: 500, Currency: "JPY"}
	if got := y.Display(); got != "JPY 500" {
		t.Fatalf("unexpected display: %q", got)
	}
	bad := Money{Amount: 1, Currency: "XXX?"}
	if got := bad.Display(); got != "" {
		t.Fatalf("expected empty display for bad code, got %q", got)
	}
}

func TestValidCurrency(t *testing.T) {
	for _, code := range []string{"USD", "EUR", "GBP", "JPY"} {
		if !ValidCurrency(code) {
			t.Errorf("expected %s to be valid", code)
		}
	}
	for _, code := range []string{"", "usd?", "US", "DOLLARS"} {
		if ValidCurrency(code) {
			t.Errorf("expected %q to be invalid", code)
		}
	}
}

func TestTransactionTouches(t *testing.T) {
	tx := Transaction{SenderID: "a1", RecipientID: "a2"}
	if !tx.Touches("a1") || !tx.Touches("a2") {
		t.Fatal("expected transaction to touch both parties")
	}
	if tx.Touches("a3") {
		t.Fatal("expected transaction not to touch a stranger")
	}
}

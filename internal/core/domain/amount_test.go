package domain

import (
	"encoding/json"
	"testing"
)

func TestAmount_UnmarshalStringOrNumber(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"string", `"1500.5"`, "₱1500.50"},
		{"number", `1500.456`, "₱1500.46"},
		{"integer", `20`, "₱20.00"},
		{"exponent", `1.5e3`, "₱1500.00"},
		{"half rounds away from zero", `"1.005"`, "₱1.01"},
		{"negative", `"-3.2"`, "₱-3.20"},
		{"null", `null`, "-"},
		{"non numeric string", `"n/a"`, "-"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			var a Amount
			if err := json.Unmarshal([]byte(tc.raw), &a); err != nil {
				t.Fatalf("unmarshal %s: %v", tc.raw, err)
			}
			if got := a.Display(); got != tc.want {
				t.Fatalf("Display() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestAmount_InTransaction(t *testing.T) {
	var tx Transaction
	body := `{"id":7,"amount":"2500","status":"completed","transaction_status":null,"customer_id":null}`
	if err := json.Unmarshal([]byte(body), &tx); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if tx.Amount.Cents() != 250000 {
		t.Fatalf("expected 250000 cents, got %d", tx.Amount.Cents())
	}

	out, err := json.Marshal(tx.Amount)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `"2500.00"` {
		t.Fatalf("unexpected marshalled amount %s", out)
	}
}

func TestTransaction_Details(t *testing.T) {
	date := "2025-03-01T10:00:00Z"
	tx := Transaction{
		ProposalNumber:  "PR-1",
		PolicyID:        "POL-9",
		Amount:          NewAmount(12345),
		Status:          TxPending,
		TransactionDate: &date,
		AgentCodeUsed:   "AG-01",
	}

	fields := tx.Details(nil)
	byLabel := map[string]string{}
	for _, f := range fields {
		byLabel[f.Label] = f.Value
	}

	if byLabel["Amount"] != "₱123.45" {
		t.Fatalf("unexpected amount %q", byLabel["Amount"])
	}
	if byLabel["Merchant Transaction ID"] != "-" || byLabel["Customer ID"] != "-" {
		t.Fatalf("absent values must render as '-': %+v", byLabel)
	}
	if byLabel["Transaction Date"] == "-" {
		t.Fatalf("expected formatted transaction date")
	}
}

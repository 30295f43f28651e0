package domain

import (
	"strconv"
	"time"
)

// TransactionStatus is the lifecycle status of a premium payment.
type TransactionStatus string

const (
	TxPending   TransactionStatus = "pending"
	TxCompleted TransactionStatus = "completed"
	TxFailed    TransactionStatus = "failed"
	TxCancelled TransactionStatus = "cancelled"
)

// Transaction is a read-only payment record. TransactionStatus is the free
// text reported by the payment processor and is independent of Status.
type Transaction struct {
	ID                    int64             `json:"id"`
	AgentID               int64             `json:"agent_id"`
	AgentCodeUsed         string            `json:"agent_code_used"`
	ProposalNumber        string            `json:"proposal_number"`
	PolicyID              string            `json:"policy_id"`
	MerchantTransactionID *string           `json:"merchant_transaction_id"`
	Amount                Amount            `json:"amount"`
	CustomerID            *int64            `json:"customer_id"`
	Status                TransactionStatus `json:"status"`
	TransactionStatus     *string           `json:"transaction_status"`
	TransactionDate       *string           `json:"transaction_date"`
	CreatedAt             string            `json:"created_at"`
	UpdatedAt             string            `json:"updated_at"`
	DeletedAt             *string           `json:"deleted_at"`
}

// DetailField is one labelled line of the transaction detail view.
type DetailField struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Details renders the transaction for the detail view. Absent values are
// shown as "-" and timestamps are converted to loc.
func (t Transaction) Details(loc *time.Location) []DetailField {
	return []DetailField{
		{"Proposal Number", t.ProposalNumber},
		{"Policy ID", t.PolicyID},
		{"Merchant Transaction ID", orDash(t.MerchantTransactionID)},
		{"Amount", t.Amount.Display()},
		{"Status", string(t.Status)},
		{"Transaction Status", orDash(t.TransactionStatus)},
		{"Transaction Date", FormatTimestamp(t.TransactionDate, loc)},
		{"Agent Code Used", t.AgentCodeUsed},
		{"Customer ID", int64OrDash(t.CustomerID)},
		{"Created At", FormatTimestamp(&t.CreatedAt, loc)},
		{"Updated At", FormatTimestamp(&t.UpdatedAt, loc)},
	}
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// FormatTimestamp renders a server timestamp in loc. Absent or empty values
// render as "-"; unparseable values are returned verbatim.
func FormatTimestamp(ts *string, loc *time.Location) string {
	if ts == nil || *ts == "" {
		return "-"
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, *ts); err == nil {
			return t.In(loc).Format("2006-01-02 15:04:05")
		}
	}
	return *ts
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

func int64OrDash(v *int64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatInt(*v, 10)
}

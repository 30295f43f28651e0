package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/insureadmin/admin-console/internal/core/domain"
)

var agentColumns = []string{"ID", "Name", "Handle", "Email", "Phone", "Designation", "Status", "Created At"}

var transactionColumns = []string{
	"ID", "Proposal Number", "Policy ID", "Agent Code Used", "Amount",
	"Status", "Transaction Status", "Transaction Date",
}

// WriteAgentsCSV writes agents as CSV with a header row.
func WriteAgentsCSV(w io.Writer, agents []domain.Agent, loc *time.Location) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(agentColumns); err != nil {
		return fmt.Errorf("write agents csv: %w", err)
	}
	for _, a := range agents {
		rec := []string{
			strconv.FormatInt(a.ID, 10),
			a.FullName(),
			a.Handle(),
			a.Email,
			deref(a.Phone),
			deref(a.Designation),
			string(a.Status),
			domain.FormatTimestamp(&a.CreatedAt, loc),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write agents csv: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTransactionsCSV writes transactions as CSV with a header row. Amounts
// are written without the currency symbol.
func WriteTransactionsCSV(w io.Writer, txs []domain.Transaction, loc *time.Location) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(transactionColumns); err != nil {
		return fmt.Errorf("write transactions csv: %w", err)
	}
	for _, t := range txs {
		rec := []string{
			strconv.FormatInt(t.ID, 10),
			t.ProposalNumber,
			t.PolicyID,
			t.AgentCodeUsed,
			t.Amount.String(),
			string(t.Status),
			deref(t.TransactionStatus),
			domain.FormatTimestamp(t.TransactionDate, loc),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write transactions csv: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

package handler

import (
	"time"

	"github.com/insureadmin/admin-console/internal/core/domain"
)

// NoticeError is a failed request that still has a notice for the operator.
// The HTTP error handler renders both.
type NoticeError struct {
	Err    error
	Notice domain.Notice
}

func (e *NoticeError) Error() string { return e.Err.Error() }
func (e *NoticeError) Unwrap() error { return e.Err }

func withNotice(err error, n domain.Notice) error {
	if n.IsZero() {
		return err
	}
	return &NoticeError{Err: err, Notice: n}
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type sessionResponse struct {
	IsAuthenticated bool                `json:"isAuthenticated"`
	TokenType       string              `json:"tokenType,omitempty"`
	User            *domain.UserProfile `json:"user"`
	Subject         string              `json:"subject,omitempty"`
	ExpiresAt       *time.Time          `json:"expiresAt,omitempty"`
	Notices         []domain.Notice     `json:"notices,omitempty"`
}

type searchRequest struct {
	Keyword string `json:"keyword" query:"keyword"`
}

// updateAgentRequest holds the editable fields; absent fields keep the
// prefilled value.
type updateAgentRequest struct {
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	Phone       *string `json:"phone"`
	Designation *string `json:"designation"`
}

func (r updateAgentRequest) apply(u domain.AgentUpdate) domain.AgentUpdate {
	if r.FirstName != nil {
		u.FirstName = *r.FirstName
	}
	if r.LastName != nil {
		u.LastName = *r.LastName
	}
	if r.Phone != nil {
		u.Phone = *r.Phone
	}
	if r.Designation != nil {
		u.Designation = *r.Designation
	}
	return u
}

// listResponse is the view of one resource as the browser renders it.
type listResponse[T any] struct {
	Data       []T                 `json:"data"`
	Page       int                 `json:"page"`
	Total      int                 `json:"total"`
	Loading    bool                `json:"loading"`
	SearchMode bool                `json:"search_mode"`
	Banner     string              `json:"banner,omitempty"`
	Pagination domain.PageControls `json:"pagination"`
	Notices    []domain.Notice     `json:"notices"`
}

type agentRow struct {
	domain.Agent
	FullName string `json:"full_name"`
	Handle   string `json:"handle"`
}

func toAgentRows(agents []domain.Agent) []agentRow {
	rows := make([]agentRow, 0, len(agents))
	for _, a := range agents {
		rows = append(rows, agentRow{Agent: a, FullName: a.FullName(), Handle: a.Handle()})
	}
	return rows
}

type transactionRow struct {
	domain.Transaction
	AmountDisplay string `json:"amount_display"`
}

func toTransactionRows(txs []domain.Transaction) []transactionRow {
	rows := make([]transactionRow, 0, len(txs))
	for _, t := range txs {
		rows = append(rows, transactionRow{Transaction: t, AmountDisplay: t.Amount.Display()})
	}
	return rows
}

type mutationResponse struct {
	Page    int             `json:"page,omitempty"`
	Notices []domain.Notice `json:"notices"`
}

type detailResponse struct {
	ID     int64                `json:"id"`
	Fields []domain.DetailField `json:"fields"`
}

func notices(n ...domain.Notice) []domain.Notice {
	out := make([]domain.Notice, 0, len(n))
	for _, x := range n {
		if !x.IsZero() {
			out = append(out, x)
		}
	}
	return out
}

package domain

import (
	"errors"
	"strings"
)

// AgentStatus is the account status reported by the server. Values other
// than active and pending (e.g. suspended) are carried through verbatim.
type AgentStatus string

const (
	AgentActive    AgentStatus = "active"
	AgentPending   AgentStatus = "pending"
	AgentSuspended AgentStatus = "suspended"
)

var (
	ErrAgentAlreadyActive = errors.New("agent is already active")
	ErrAgentNotActive     = errors.New("only active agents can be updated")
)

// Agent is a field agent account as listed by /admin/agents.
type Agent struct {
	ID               int64       `json:"id"`
	CompanyID        *int64      `json:"company_id"`
	Role             int         `json:"role"`
	Username         *string     `json:"username"`
	FirstName        string      `json:"first_name"`
	MiddleName       *string     `json:"middle_name"`
	LastName         string      `json:"last_name"`
	Designation      *string     `json:"designation"`
	JobDescription   *string     `json:"job_description"`
	Avatar           *string     `json:"avatar"`
	Email            string      `json:"email"`
	EmailVerifiedAt  *string     `json:"email_verified_at"`
	Status           AgentStatus `json:"status"`
	Phone            *string     `json:"phone"`
	PhoneVerifiedAt  *string     `json:"phone_verified_at"`
	PhoneDescription *string     `json:"phone_description"`
	Telephone        *string     `json:"telephone"`
	Address          *string     `json:"address"`
	IsSuperAdmin     int         `json:"is_super_admin"`
	BirthDate        *string     `json:"birth_date"`
	CreatedAt        string      `json:"created_at"`
	UpdatedAt        string      `json:"updated_at"`
}

// FullName joins first and last name.
func (a Agent) FullName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

// Handle is the @-handle shown next to the name: the username when set,
// otherwise first.last in lower case.
func (a Agent) Handle() string {
	if a.Username != nil && *a.Username != "" {
		return "@" + *a.Username
	}
	return "@" + strings.ToLower(a.FirstName) + "." + strings.ToLower(a.LastName)
}

// CanActivate guards the pending -> active transition. Activating an agent
// that is already active is rejected before any network call.
func (a Agent) CanActivate() error {
	if a.Status == AgentActive {
		return ErrAgentAlreadyActive
	}
	return nil
}

// CanUpdate allows profile edits only on active agents.
func (a Agent) CanUpdate() error {
	if a.Status != AgentActive {
		return ErrAgentNotActive
	}
	return nil
}

// AgentUpdate is the editable subset sent with PUT /admin/agents/{id}.
type AgentUpdate struct {
	FirstName   string `json:"first_name"  validate:"required"`
	LastName    string `json:"last_name"   validate:"required"`
	Phone       string `json:"phone"`
	Designation string `json:"designation" validate:"required"`
}

// DefaultDesignation is the designation every update form starts from.
const DefaultDesignation = "Agent"

// NewAgentUpdate pre-fills an update from the agent's current profile.
func NewAgentUpdate(a Agent) AgentUpdate {
	phone := ""
	if a.Phone != nil {
		phone = *a.Phone
	}
	return AgentUpdate{
		FirstName:   a.FirstName,
		LastName:    a.LastName,
		Phone:       phone,
		Designation: DefaultDesignation,
	}
}

// MutationResult is the {success, message} body returned by agent mutations.
type MutationResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// MessageOr returns the server message or fallback when the server sent none.
func (r MutationResult) MessageOr(fallback string) string {
	if strings.TrimSpace(r.Message) == "" {
		return fallback
	}
	return r.Message
}

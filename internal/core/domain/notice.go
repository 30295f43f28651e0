package domain

import "fmt"

// NoticeLevel classifies an operator-facing notice.
type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeSuccess NoticeLevel = "success"
	NoticeWarn    NoticeLevel = "warning"
	NoticeError   NoticeLevel = "error"
)

// Notice is a short message shown to the operator (a toast in a browser,
// a coloured line in the CLI).
type Notice struct {
	Level NoticeLevel `json:"level"`
	Text  string      `json:"text"`
}

// Operator-facing texts.
const (
	MsgSessionExpired     = "Session expired. Please log in again."
	MsgAgentAlreadyActive = "Agent is already active"
	MsgOnlyActiveUpdate   = "Only active agents can be updated"
	MsgAgentDeleted       = "Agent deleted"
	MsgAgentActivated     = "Agent activated"
	MsgAgentUpdated       = "Agent updated"
	MsgDeleteFailed       = "Failed to delete agent. Please try again."
	MsgActivateFailed     = "Failed to activate agent. Please try again."
	MsgUpdateFailed       = "Failed to update agent. Please try again."
	MsgEnterAgentSearch   = "Please enter the agent name to search."
	MsgEnterSearchTerm    = "Please enter a search term."
	MsgSearchFailed       = "Search failed. Please try again."
	MsgDuplicateSubmit    = "This action is already in progress"
	MsgLoggedOut          = "Logged out"
)

// IsZero reports whether n carries no notice.
func (n Notice) IsZero() bool { return n.Text == "" }

// Info, Success, Warn and Error build notices of the matching level.
func Info(text string) Notice    { return Notice{Level: NoticeInfo, Text: text} }
func Success(text string) Notice { return Notice{Level: NoticeSuccess, Text: text} }
func Warn(text string) Notice    { return Notice{Level: NoticeWarn, Text: text} }
func Error(text string) Notice   { return Notice{Level: NoticeError, Text: text} }

// SearchBanner is the heading shown above search results.
func SearchBanner(keyword string) string {
	return fmt.Sprintf("Showing search results for %q", keyword)
}

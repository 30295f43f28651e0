package domain

import "time"

// AuditAction names a confirmed agent mutation.
type AuditAction string

const (
	AuditDelete   AuditAction = "delete"
	AuditActivate AuditAction = "activate"
	AuditUpdate   AuditAction = "update"
)

// AuditEntry records the outcome of one confirmed mutation.
type AuditEntry struct {
	Operator  string      `json:"operator"   bson:"operator"`
	Action    AuditAction `json:"action"     bson:"action"`
	AgentID   int64       `json:"agent_id"   bson:"agent_id"`
	Succeeded bool        `json:"succeeded"  bson:"succeeded"`
	Message   string      `json:"message"    bson:"message"`
	At        time.Time   `json:"at"         bson:"at"`
}

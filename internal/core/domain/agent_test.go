package domain

import (
	"errors"
	"testing"
)

func TestAgent_CanActivate(t *testing.T) {
	if err := (Agent{Status: AgentActive}).CanActivate(); !errors.Is(err, ErrAgentAlreadyActive) {
		t.Fatalf("expected ErrAgentAlreadyActive, got %v", err)
	}
	for _, s := range []AgentStatus{AgentPending, AgentSuspended, "unknown"} {
		if err := (Agent{Status: s}).CanActivate(); err != nil {
			t.Fatalf("status %s should be activatable, got %v", s, err)
		}
	}
}

func TestAgent_CanUpdate(t *testing.T) {
	if err := (Agent{Status: AgentPending}).CanUpdate(); !errors.Is(err, ErrAgentNotActive) {
		t.Fatalf("expected ErrAgentNotActive, got %v", err)
	}
	if err := (Agent{Status: AgentActive}).CanUpdate(); err != nil {
		t.Fatalf("active agent should be updatable, got %v", err)
	}
}

func TestAgent_Handle(t *testing.T) {
	username := "jdoe"
	if got := (Agent{Username: &username}).Handle(); got != "@jdoe" {
		t.Fatalf("unexpected handle %q", got)
	}
	if got := (Agent{FirstName: "Juan", LastName: "Dela Cruz"}).Handle(); got != "@juan.dela cruz" {
		t.Fatalf("unexpected fallback handle %q", got)
	}
}

func TestNewAgentUpdate_Prefill(t *testing.T) {
	up := NewAgentUpdate(Agent{FirstName: "Ana", LastName: "Reyes"})
	if up.Phone != "" || up.Designation != DefaultDesignation {
		t.Fatalf("unexpected prefill %+v", up)
	}
}

func TestMutationResult_MessageOr(t *testing.T) {
	if got := (MutationResult{}).MessageOr(MsgAgentDeleted); got != MsgAgentDeleted {
		t.Fatalf("expected fallback, got %q", got)
	}
	if got := (MutationResult{Message: "Removed"}).MessageOr(MsgAgentDeleted); got != "Removed" {
		t.Fatalf("expected server message, got %q", got)
	}
}

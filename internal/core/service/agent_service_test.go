package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/insureadmin/admin-console/internal/core/domain"
)

func pagedAgentsAPI() *stubAdminAPI {
	return &stubAdminAPI{
		listAgentsFn: func(_ context.Context, page int) (*domain.Page[domain.Agent], error) {
			return agentsPage(page, 4, domain.Agent{ID: 7, Status: domain.AgentActive}), nil
		},
	}
}

func TestAgentService_ActivateAlreadyActiveMakesNoCall(t *testing.T) {
	api := &stubAdminAPI{}
	svc := NewAgentService(api, newLoggedInSession(t), nil, nil, zerolog.Nop())

	out, err := svc.Activate(context.Background(), domain.Agent{ID: 7, Status: domain.AgentActive})
	if !errors.Is(err, domain.ErrAgentAlreadyActive) {
		t.Fatalf("expected ErrAgentAlreadyActive, got %v", err)
	}
	if out.Notice.Level != domain.NoticeInfo || out.Notice.Text != domain.MsgAgentAlreadyActive {
		t.Fatalf("unexpected notice: %+v", out.Notice)
	}
	if api.calls.Load() != 0 {
		t.Fatalf("expected zero calls, got %d", api.calls.Load())
	}
}

func TestAgentService_UpdatePendingMakesNoCall(t *testing.T) {
	api := &stubAdminAPI{}
	svc := NewAgentService(api, newLoggedInSession(t), nil, nil, zerolog.Nop())
	agent := domain.Agent{ID: 8, FirstName: "Jo", LastName: "Cruz", Status: domain.AgentPending}

	out, err := svc.Update(context.Background(), agent, domain.NewAgentUpdate(agent))
	if !errors.Is(err, domain.ErrAgentNotActive) {
		t.Fatalf("expected ErrAgentNotActive, got %v", err)
	}
	if out.Notice.Level != domain.NoticeError || out.Notice.Text != domain.MsgOnlyActiveUpdate {
		t.Fatalf("unexpected notice: %+v", out.Notice)
	}
	if api.calls.Load() != 0 {
		t.Fatalf("expected zero calls, got %d", api.calls.Load())
	}
}

func TestAgentService_DeleteRefetchesViewedPage(t *testing.T) {
	api := pagedAgentsAPI()
	var deleted int64
	api.deleteAgentFn = func(_ context.Context, id int64) (*domain.MutationResult, error) {
		deleted = id
		return &domain.MutationResult{Success: true}, nil
	}
	var refetched []int
	list := api.listAgentsFn
	api.listAgentsFn = func(ctx context.Context, page int) (*domain.Page[domain.Agent], error) {
		refetched = append(refetched, page)
		return list(ctx, page)
	}
	audit := &stubAuditSink{}
	svc := NewAgentService(api, newLoggedInSession(t), newStubGuard(), audit, zerolog.Nop())
	ctx := context.Background()

	if _, err := svc.List(ctx, 3); err != nil {
		t.Fatalf("List: %v", err)
	}
	out, err := svc.Delete(ctx, 7)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if deleted != 7 {
		t.Fatalf("expected agent 7 deleted, got %d", deleted)
	}
	if out.Notice.Text != domain.MsgAgentDeleted || out.Page != 3 {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	if len(refetched) != 2 || refetched[1] != 3 {
		t.Fatalf("expected refetch of page 3, got %v", refetched)
	}
	if len(audit.entries) != 1 || !audit.entries[0].Succeeded || audit.entries[0].Operator != "ana@example.com" {
		t.Fatalf("unexpected audit: %+v", audit.entries)
	}
}

func TestAgentService_ServerMessageWins(t *testing.T) {
	api := pagedAgentsAPI()
	api.activateAgentFn = func(_ context.Context, id int64) (*domain.MutationResult, error) {
		return &domain.MutationResult{Success: true, Message: "Account activated successfully"}, nil
	}
	svc := NewAgentService(api, newLoggedInSession(t), nil, nil, zerolog.Nop())

	out, err := svc.Activate(context.Background(), domain.Agent{ID: 7, Status: domain.AgentPending})
	if err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if out.Notice.Level != domain.NoticeSuccess || out.Notice.Text != "Account activated successfully" {
		t.Fatalf("unexpected notice: %+v", out.Notice)
	}
}

func TestAgentService_FailureLeavesDataUntouched(t *testing.T) {
	api := pagedAgentsAPI()
	api.deleteAgentFn = func(context.Context, int64) (*domain.MutationResult, error) {
		return nil, domain.ErrRemote
	}
	svc := NewAgentService(api, newLoggedInSession(t), nil, nil, zerolog.Nop())
	ctx := context.Background()

	if _, err := svc.List(ctx, 1); err != nil {
		t.Fatalf("List: %v", err)
	}
	before := api.calls.Load()
	out, err := svc.Delete(ctx, 7)
	if !errors.Is(err, domain.ErrRemote) {
		t.Fatalf("expected ErrRemote, got %v", err)
	}
	if out.Notice.Text != domain.MsgDeleteFailed {
		t.Fatalf("unexpected notice: %+v", out.Notice)
	}
	if api.calls.Load() != before+1 {
		t.Fatalf("expected no refetch after failure")
	}
	if rows := svc.View().Rows(); len(rows) != 1 || rows[0].ID != 7 {
		t.Fatalf("displayed data changed: %+v", rows)
	}
}

func TestAgentService_UnsuccessfulResponseIsFailure(t *testing.T) {
	api := pagedAgentsAPI()
	api.deleteAgentFn = func(context.Context, int64) (*domain.MutationResult, error) {
		return &domain.MutationResult{Success: false, Message: "nope"}, nil
	}
	svc := NewAgentService(api, newLoggedInSession(t), nil, nil, zerolog.Nop())

	if _, err := svc.Delete(context.Background(), 7); !errors.Is(err, domain.ErrRemote) {
		t.Fatalf("expected ErrRemote, got %v", err)
	}
}

func TestAgentService_FailsFastWithoutToken(t *testing.T) {
	api := &stubAdminAPI{}
	m, _ := newTestSession(t)
	svc := NewAgentService(api, m, nil, nil, zerolog.Nop())

	if _, err := svc.Delete(context.Background(), 7); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
	if api.calls.Load() != 0 {
		t.Fatalf("expected zero calls")
	}
}

func TestAgentService_DuplicateSubmitBlocked(t *testing.T) {
	api := &stubAdminAPI{}
	guard := newStubGuard()
	guard.held["agent:7"] = true
	svc := NewAgentService(api, newLoggedInSession(t), guard, nil, zerolog.Nop())

	out, err := svc.Delete(context.Background(), 7)
	if !errors.Is(err, domain.ErrDuplicateSubmit) {
		t.Fatalf("expected ErrDuplicateSubmit, got %v", err)
	}
	if out.Notice.Level != domain.NoticeInfo {
		t.Fatalf("unexpected notice: %+v", out.Notice)
	}
	if api.calls.Load() != 0 {
		t.Fatalf("expected zero calls")
	}
}

func TestAgentService_UpdateSendsPayload(t *testing.T) {
	api := pagedAgentsAPI()
	var got domain.AgentUpdate
	api.updateAgentFn = func(_ context.Context, id int64, p domain.AgentUpdate) (*domain.MutationResult, error) {
		got = p
		return &domain.MutationResult{Success: true}, nil
	}
	svc := NewAgentService(api, newLoggedInSession(t), nil, nil, zerolog.Nop())
	agent := domain.Agent{ID: 7, FirstName: "Jo", LastName: "Cruz", Phone: strPtr("0917"), Status: domain.AgentActive}

	payload := domain.NewAgentUpdate(agent)
	payload.LastName = "Santos"
	out, err := svc.Update(context.Background(), agent, payload)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got.LastName != "Santos" || got.Designation != domain.DefaultDesignation || got.Phone != "0917" {
		t.Fatalf("unexpected payload: %+v", got)
	}
	if out.Notice.Text != domain.MsgAgentUpdated {
		t.Fatalf("unexpected notice: %+v", out.Notice)
	}
}

func TestAgentService_SearchBlankKeywordNotice(t *testing.T) {
	svc := NewAgentService(&stubAdminAPI{}, newLoggedInSession(t), nil, nil, zerolog.Nop())
	_, notice, err := svc.Search(context.Background(), "")
	if !errors.Is(err, domain.ErrEmptyKeyword) || notice.Text != domain.MsgEnterAgentSearch {
		t.Fatalf("unexpected result: %v %+v", err, notice)
	}
}

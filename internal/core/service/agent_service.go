package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/insureadmin/admin-console/internal/api/metrics"
	"github.com/insureadmin/admin-console/internal/core/domain"
	"github.com/insureadmin/admin-console/internal/core/ports"
)

// mutationLockTTL bounds how long a crashed submitter can block a retry.
const mutationLockTTL = 30 * time.Second

// MutationOutcome is what the operator sees after a mutation attempt.
type MutationOutcome struct {
	Notice domain.Notice `json:"notice"`
	// Page is the listing page refetched after a successful mutation.
	Page int `json:"page,omitempty"`
}

// AgentService is the agents query and mutation layer.
type AgentService struct {
	api      ports.AdminAPI
	session  *SessionManager
	view     *ResourceView[domain.Agent]
	guard    ports.MutationGuard
	audit    ports.AuditSink
	validate *validator.Validate
	log      zerolog.Logger
}

// NewAgentService wires the agents view to the session so a token change
// drops its cache. guard and audit may be nil.
func NewAgentService(api ports.AdminAPI, session *SessionManager, guard ports.MutationGuard, audit ports.AuditSink, log zerolog.Logger) *AgentService {
	view := NewResourceView[domain.Agent]("agents", api.ListAgents, api.SearchAgents,
		func(a domain.Agent) int64 { return a.ID }, session, log)
	session.Subscribe(view.Listener())

	return &AgentService{
		api:      api,
		session:  session,
		view:     view,
		guard:    guard,
		audit:    audit,
		validate: validator.New(),
		log:      log.With().Str("service", "agents").Logger(),
	}
}

// View exposes the underlying query view.
func (s *AgentService) View() *ResourceView[domain.Agent] { return s.view }

// List shows the given listing page and leaves search mode.
func (s *AgentService) List(ctx context.Context, page int) (QueryState[domain.Agent], error) {
	s.view.ClearSearch()
	return s.view.SetPage(ctx, page)
}

// Search shows the results for keyword. A blank keyword yields an
// informational notice and no call.
func (s *AgentService) Search(ctx context.Context, keyword string) (QueryState[domain.Agent], domain.Notice, error) {
	st, err := s.view.Search(ctx, keyword)
	switch {
	case errors.Is(err, domain.ErrEmptyKeyword):
		return st, domain.Info(domain.MsgEnterAgentSearch), err
	case errors.Is(err, domain.ErrSessionExpired):
		return st, domain.Notice{}, err
	case err != nil:
		return st, domain.Error(domain.MsgSearchFailed), err
	}
	return st, domain.Notice{}, nil
}

// Delete removes the agent with the given id.
func (s *AgentService) Delete(ctx context.Context, id int64) (MutationOutcome, error) {
	return s.mutate(ctx, domain.AuditDelete, id, domain.MsgAgentDeleted, domain.MsgDeleteFailed,
		func(ctx context.Context) (*domain.MutationResult, error) {
			return s.api.DeleteAgent(ctx, id)
		})
}

// Activate activates agent. An agent that is already active is rejected
// before any remote call.
func (s *AgentService) Activate(ctx context.Context, agent domain.Agent) (MutationOutcome, error) {
	if err := agent.CanActivate(); err != nil {
		metrics.MutationsTotal.WithLabelValues(string(domain.AuditActivate), "rejected").Inc()
		return MutationOutcome{Notice: domain.Info(domain.MsgAgentAlreadyActive)}, err
	}
	return s.mutate(ctx, domain.AuditActivate, agent.ID, domain.MsgAgentActivated, domain.MsgActivateFailed,
		func(ctx context.Context) (*domain.MutationResult, error) {
			return s.api.ActivateAgent(ctx, agent.ID)
		})
}

// Update applies payload to agent. Only active agents may be updated; the
// rule is enforced here and never sent to the server.
func (s *AgentService) Update(ctx context.Context, agent domain.Agent, payload domain.AgentUpdate) (MutationOutcome, error) {
	if err := agent.CanUpdate(); err != nil {
		metrics.MutationsTotal.WithLabelValues(string(domain.AuditUpdate), "rejected").Inc()
		return MutationOutcome{Notice: domain.Error(domain.MsgOnlyActiveUpdate)}, err
	}
	if err := s.validate.Struct(payload); err != nil {
		return MutationOutcome{Notice: domain.Error(domain.MsgUpdateFailed)}, fmt.Errorf("update agent %d: %w", agent.ID, err)
	}
	return s.mutate(ctx, domain.AuditUpdate, agent.ID, domain.MsgAgentUpdated, domain.MsgUpdateFailed,
		func(ctx context.Context) (*domain.MutationResult, error) {
			return s.api.UpdateAgent(ctx, agent.ID, payload)
		})
}

func (s *AgentService) mutate(ctx context.Context, action domain.AuditAction, id int64, okMsg, failMsg string, call func(context.Context) (*domain.MutationResult, error)) (MutationOutcome, error) {
	op := string(action)
	if !s.session.IsTokenValid() {
		return MutationOutcome{}, fmt.Errorf("%s agent %d: %w", op, id, domain.ErrNotAuthenticated)
	}

	if s.guard != nil {
		lockKey := "agent:" + strconv.FormatInt(id, 10)
		acquired, err := s.guard.Acquire(ctx, lockKey, mutationLockTTL)
		if err != nil {
			s.log.Warn().Err(err).Str("key", lockKey).Msg("mutation guard unavailable")
		} else if !acquired {
			metrics.MutationsTotal.WithLabelValues(op, "duplicate").Inc()
			return MutationOutcome{Notice: domain.Info(domain.MsgDuplicateSubmit)}, domain.ErrDuplicateSubmit
		} else {
			defer func() {
				if err := s.guard.Release(context.WithoutCancel(ctx), lockKey); err != nil {
					s.log.Warn().Err(err).Str("key", lockKey).Msg("failed to release mutation guard")
				}
			}()
		}
	}

	// Read before the call: the refetch goes back to the page the operator
	// was looking at.
	target := s.view.TargetPage()

	res, err := call(ctx)
	if err == nil && (res == nil || !res.Success) {
		msg := ""
		if res != nil {
			msg = res.Message
		}
		err = fmt.Errorf("%w: %s", domain.ErrRemote, msg)
	}
	if err != nil {
		metrics.MutationsTotal.WithLabelValues(op, "error").Inc()
		s.record(action, id, false, err.Error())
		s.log.Error().Err(err).Int64("agent_id", id).Str("action", op).Msg("mutation failed")
		if errors.Is(err, domain.ErrSessionExpired) {
			return MutationOutcome{}, fmt.Errorf("%s agent %d: %w", op, id, err)
		}
		return MutationOutcome{Notice: domain.Error(failMsg)}, fmt.Errorf("%s agent %d: %w", op, id, err)
	}

	msg := res.MessageOr(okMsg)
	metrics.MutationsTotal.WithLabelValues(op, "ok").Inc()
	s.record(action, id, true, msg)
	s.log.Info().Int64("agent_id", id).Str("action", op).Msg("mutation succeeded")

	if _, err := s.view.RefetchPage(ctx, target); err != nil {
		s.log.Warn().Err(err).Int("page", target).Msg("refetch after mutation failed")
	}
	return MutationOutcome{Notice: domain.Success(msg), Page: target}, nil
}

func (s *AgentService) record(action domain.AuditAction, id int64, ok bool, msg string) {
	if s.audit == nil {
		return
	}
	operator := ""
	if u := s.session.Snapshot().User; u != nil {
		operator = u.Email
	}
	s.audit.Record(domain.AuditEntry{
		Operator:  operator,
		Action:    action,
		AgentID:   id,
		Succeeded: ok,
		Message:   msg,
		At:        time.Now().UTC(),
	})
}

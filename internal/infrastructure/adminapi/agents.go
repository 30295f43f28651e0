package adminapi

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/insureadmin/admin-console/internal/core/domain"
)

type keywordBody struct {
	Keyword string `json:"keyword"`
}

type activateBody struct {
	UserID int64 `json:"user_id"`
}

func (c *Client) ListAgents(ctx context.Context, page int) (*domain.Page[domain.Agent], error) {
	var out domain.ListResponse[domain.Agent]
	err := c.do(ctx, request{
		op:     "list_agents",
		method: http.MethodGet,
		path:   "/admin/agents",
		query:  url.Values{"page": {strconv.Itoa(page)}},
		auth:   true,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func (c *Client) SearchAgents(ctx context.Context, keyword string) (*domain.Page[domain.Agent], error) {
	var out domain.ListResponse[domain.Agent]
	err := c.do(ctx, request{
		op:     "search_agents",
		method: http.MethodGet,
		path:   "/admin/agents/search",
		query:  url.Values{"keyword": {keyword}},
		auth:   true,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func (c *Client) DeleteAgent(ctx context.Context, id int64) (*domain.MutationResult, error) {
	return c.mutation(ctx, request{
		op:     "delete_agent",
		method: http.MethodDelete,
		path:   "/admin/agents/" + strconv.FormatInt(id, 10),
		auth:   true,
	})
}

// ActivateAgent goes through the auth service's activation endpoint, not
// the agents resource.
func (c *Client) ActivateAgent(ctx context.Context, id int64) (*domain.MutationResult, error) {
	return c.mutation(ctx, request{
		op:     "activate_agent",
		method: http.MethodPost,
		path:   "/auth/activate-account",
		body:   activateBody{UserID: id},
		auth:   true,
	})
}

func (c *Client) UpdateAgent(ctx context.Context, id int64, payload domain.AgentUpdate) (*domain.MutationResult, error) {
	return c.mutation(ctx, request{
		op:     "update_agent",
		method: http.MethodPut,
		path:   "/admin/agents/" + strconv.FormatInt(id, 10),
		body:   payload,
		auth:   true,
	})
}

func (c *Client) mutation(ctx context.Context, r request) (*domain.MutationResult, error) {
	var out domain.MutationResult
	if err := c.do(ctx, r, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

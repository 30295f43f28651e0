package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/insureadmin/admin-console/internal/core/domain"
	"github.com/insureadmin/admin-console/internal/core/service"
)

type AgentHandler struct {
	agents *service.AgentService
	loc    *time.Location
}

func NewAgentHandler(agents *service.AgentService, loc *time.Location) *AgentHandler {
	return &AgentHandler{agents: agents, loc: loc}
}

// List returns a page of agents and leaves search mode.
//
// @Summary      List agents
// @Tags         agents
// @Produce      json
// @Param        page  query     int  false  "1-based page"
// @Success      200   {object}  listResponse[agentRow]
// @Failure      401   {object}  map[string]string
// @Router       /agents [get]
func (h *AgentHandler) List(c echo.Context) error {
	view := h.agents.View()
	page, err := pageParam(c, view.Page())
	if err != nil {
		return err
	}
	if _, err := h.agents.List(c.Request().Context(), page); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, renderList(view, toAgentRows))
}

// Search shows agents matching ?keyword. A blank keyword answers with an
// informational notice and the current view.
//
// @Summary      Search agents
// @Tags         agents
// @Produce      json
// @Param        keyword  query     string  true  "Name, email or username"
// @Success      200      {object}  listResponse[agentRow]
// @Router       /agents/search [get]
func (h *AgentHandler) Search(c echo.Context) error {
	var req searchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query")
	}
	_, notice, err := h.agents.Search(c.Request().Context(), req.Keyword)
	if err != nil && !isEmptyKeyword(err) {
		return withNotice(err, notice)
	}
	return c.JSON(http.StatusOK, renderList(h.agents.View(), toAgentRows, notice))
}

// ClearSearch returns to the paged listing; both caches are kept.
//
// @Summary      Leave search mode
// @Tags         agents
// @Produce      json
// @Success      200  {object}  listResponse[agentRow]
// @Router       /agents/search [delete]
func (h *AgentHandler) ClearSearch(c echo.Context) error {
	view := h.agents.View()
	view.ClearSearch()
	if _, err := view.Load(c.Request().Context()); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, renderList(view, toAgentRows))
}

// Delete removes an agent and refetches the page in view.
//
// @Summary      Delete agent
// @Tags         agents
// @Produce      json
// @Param        id   path      int  true  "Agent ID"
// @Success      200  {object}  mutationResponse
// @Router       /agents/{id} [delete]
func (h *AgentHandler) Delete(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	out, err := h.agents.Delete(c.Request().Context(), id)
	if err != nil {
		return withNotice(err, out.Notice)
	}
	return c.JSON(http.StatusOK, mutationResponse{Page: out.Page, Notices: notices(out.Notice)})
}

// Activate activates an agent from the displayed list.
//
// @Summary      Activate agent
// @Tags         agents
// @Produce      json
// @Param        id   path      int  true  "Agent ID"
// @Success      200  {object}  mutationResponse
// @Failure      409  {object}  map[string]string
// @Router       /agents/{id}/activate [post]
func (h *AgentHandler) Activate(c echo.Context) error {
	agent, err := h.displayed(c)
	if err != nil {
		return err
	}
	out, err := h.agents.Activate(c.Request().Context(), agent)
	if err != nil {
		return withNotice(err, out.Notice)
	}
	return c.JSON(http.StatusOK, mutationResponse{Page: out.Page, Notices: notices(out.Notice)})
}

// Update edits an active agent. The payload starts from the agent's current
// name and phone with designation "Agent".
//
// @Summary      Update agent
// @Tags         agents
// @Accept       json
// @Produce      json
// @Param        id    path      int                 true  "Agent ID"
// @Param        body  body      updateAgentRequest  true  "Editable fields"
// @Success      200   {object}  mutationResponse
// @Failure      422   {object}  map[string]string
// @Router       /agents/{id} [put]
func (h *AgentHandler) Update(c echo.Context) error {
	agent, err := h.displayed(c)
	if err != nil {
		return err
	}
	var req updateAgentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	payload := req.apply(domain.NewAgentUpdate(agent))

	out, err := h.agents.Update(c.Request().Context(), agent, payload)
	if err != nil {
		return withNotice(err, out.Notice)
	}
	return c.JSON(http.StatusOK, mutationResponse{Page: out.Page, Notices: notices(out.Notice)})
}

// Export downloads the displayed agents as CSV.
//
// @Summary      Export agents
// @Tags         agents
// @Produce      text/csv
// @Success      200
// @Router       /agents/export.csv [get]
func (h *AgentHandler) Export(c echo.Context) error {
	var buf bytes.Buffer
	if err := service.WriteAgentsCSV(&buf, h.agents.View().Rows(), h.loc); err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="agents.csv"`)
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// displayed finds the agent in the rows the operator is looking at, so the
// client-side rules see its current status.
func (h *AgentHandler) displayed(c echo.Context) (domain.Agent, error) {
	id, err := idParam(c)
	if err != nil {
		return domain.Agent{}, err
	}
	agent, ok := h.agents.View().Find(id)
	if !ok {
		return domain.Agent{}, fmt.Errorf("agent %d is not displayed: %w", id, domain.ErrNotFound)
	}
	return agent, nil
}

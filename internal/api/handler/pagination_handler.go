package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/insureadmin/admin-console/internal/core/domain"
	"github.com/insureadmin/admin-console/internal/core/service"
)

// PaginationHandler serves the resolved page controls of each resource so a
// thin UI never parses link labels itself.
type PaginationHandler struct {
	agents *service.ResourceView[domain.Agent]
	txs    *service.ResourceView[domain.Transaction]
}

func NewPaginationHandler(agents *service.ResourceView[domain.Agent], txs *service.ResourceView[domain.Transaction]) *PaginationHandler {
	return &PaginationHandler{agents: agents, txs: txs}
}

type paginationResponse struct {
	Resource string              `json:"resource"`
	Page     int                 `json:"page"`
	Controls domain.PageControls `json:"controls"`
}

// Get resolves the controls for :resource (agents or transactions).
//
// @Summary      Page controls
// @Tags         pagination
// @Produce      json
// @Param        resource  path      string  true  "agents or transactions"
// @Success      200       {object}  paginationResponse
// @Failure      404       {object}  map[string]string
// @Router       /pagination/{resource} [get]
func (h *PaginationHandler) Get(c echo.Context) error {
	resource := c.Param("resource")
	var resp paginationResponse
	switch resource {
	case "agents":
		resp = paginationResponse{Resource: resource, Page: h.agents.Page(), Controls: h.agents.Controls()}
	case "transactions":
		resp = paginationResponse{Resource: resource, Page: h.txs.Page(), Controls: h.txs.Controls()}
	default:
		return echo.NewHTTPError(http.StatusNotFound, "unknown resource")
	}
	return c.JSON(http.StatusOK, resp)
}

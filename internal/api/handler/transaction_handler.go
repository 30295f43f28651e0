package handler

import (
	"bytes"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/insureadmin/admin-console/internal/core/domain"
	"github.com/insureadmin/admin-console/internal/core/service"
)

type TransactionHandler struct {
	txs *service.TransactionService
	loc *time.Location
}

func NewTransactionHandler(txs *service.TransactionService, loc *time.Location) *TransactionHandler {
	return &TransactionHandler{txs: txs, loc: loc}
}

// List returns a page of transactions and leaves search mode.
//
// @Summary      List transactions
// @Tags         transactions
// @Produce      json
// @Param        page  query     int  false  "1-based page"
// @Success      200   {object}  listResponse[transactionRow]
// @Router       /transactions [get]
func (h *TransactionHandler) List(c echo.Context) error {
	view := h.txs.View()
	page, err := pageParam(c, view.Page())
	if err != nil {
		return err
	}
	if _, err := h.txs.List(c.Request().Context(), page); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, renderList(view, toTransactionRows))
}

// Search posts the keyword to the remote search endpoint.
//
// @Summary      Search transactions
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Param        body  body      searchRequest  true  "Keyword"
// @Success      200   {object}  listResponse[transactionRow]
// @Router       /transactions/search [post]
func (h *TransactionHandler) Search(c echo.Context) error {
	var req searchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	_, notice, err := h.txs.Search(c.Request().Context(), req.Keyword)
	if err != nil && !isEmptyKeyword(err) {
		return withNotice(err, notice)
	}
	return c.JSON(http.StatusOK, renderList(h.txs.View(), toTransactionRows, notice))
}

// ClearSearch returns to the paged listing.
//
// @Summary      Leave search mode
// @Tags         transactions
// @Produce      json
// @Success      200  {object}  listResponse[transactionRow]
// @Router       /transactions/search [delete]
func (h *TransactionHandler) ClearSearch(c echo.Context) error {
	view := h.txs.View()
	view.ClearSearch()
	if _, err := view.Load(c.Request().Context()); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, renderList(view, toTransactionRows))
}

// Detail returns the labelled fields of a displayed transaction.
//
// @Summary      Transaction detail
// @Tags         transactions
// @Produce      json
// @Param        id   path      int  true  "Transaction ID"
// @Success      200  {object}  detailResponse
// @Failure      404  {object}  map[string]string
// @Router       /transactions/{id} [get]
func (h *TransactionHandler) Detail(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	fields, err := h.txs.Detail(id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, detailResponse{ID: id, Fields: fields})
}

// Export downloads the displayed transactions as CSV.
//
// @Summary      Export transactions
// @Tags         transactions
// @Produce      text/csv
// @Success      200
// @Router       /transactions/export.csv [get]
func (h *TransactionHandler) Export(c echo.Context) error {
	var buf bytes.Buffer
	if err := service.WriteTransactionsCSV(&buf, h.txs.View().Rows(), h.loc); err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="transactions.csv"`)
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func isEmptyKeyword(err error) bool {
	return err != nil && errors.Is(err, domain.ErrEmptyKeyword)
}

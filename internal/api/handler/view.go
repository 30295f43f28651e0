package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/insureadmin/admin-console/internal/core/domain"
	"github.com/insureadmin/admin-console/internal/core/service"
)

// renderList builds the list payload from the view's displayed slot.
func renderList[T, R any](view *service.ResourceView[T], conv func([]T) []R, extra ...domain.Notice) listResponse[R] {
	st := view.State()
	mode, kw := view.SearchMode()
	resp := listResponse[R]{
		Data:       conv(st.Rows()),
		Page:       view.Page(),
		Loading:    st.Loading,
		SearchMode: mode,
		Pagination: view.Controls(),
		Notices:    notices(extra...),
	}
	if st.Data != nil {
		resp.Total = st.Data.Total
	}
	if mode {
		resp.Banner = domain.SearchBanner(kw)
	}
	return resp
}

// pageParam reads ?page=N, defaulting to the page already in view.
func pageParam(c echo.Context, current int) (int, error) {
	raw := c.QueryParam("page")
	if raw == "" {
		return current, nil
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "page must be a positive integer")
	}
	return page, nil
}

func idParam(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

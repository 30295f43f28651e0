package adminapi

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/insureadmin/admin-console/internal/core/domain"
)

func (c *Client) ListTransactions(ctx context.Context, page int) (*domain.Page[domain.Transaction], error) {
	var out domain.ListResponse[domain.Transaction]
	err := c.do(ctx, request{
		op:     "list_transactions",
		method: http.MethodGet,
		path:   "/transactions",
		query:  url.Values{"page": {strconv.Itoa(page)}},
		auth:   true,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// SearchTransactions posts the keyword; the endpoint has no GET form.
func (c *Client) SearchTransactions(ctx context.Context, keyword string) (*domain.Page[domain.Transaction], error) {
	var out domain.ListResponse[domain.Transaction]
	err := c.do(ctx, request{
		op:     "search_transactions",
		method: http.MethodPost,
		path:   "/transactions/search",
		body:   keywordBody{Keyword: keyword},
		auth:   true,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out.Data, nil
}

package adminapi

import (
	"fmt"
	"net/http"

	"github.com/insureadmin/admin-console/internal/core/ports"
)

// sessionTransport turns any 401 on an authenticated request into a single
// session-invalidated signal. Unauthenticated calls (login) pass through so
// a wrong password never logs anyone out.
type sessionTransport struct {
	next        http.RoundTripper
	invalidator ports.SessionInvalidator
}

func (t *sessionTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.next.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized && req.Header.Get("Authorization") != "" && t.invalidator != nil {
		t.invalidator.InvalidateSession(req.Context(), fmt.Sprintf("401 from %s %s", req.Method, req.URL.Path))
	}
	return resp, nil
}

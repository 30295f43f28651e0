// Package adminapi is the HTTP client for the remote insurance admin API.
package adminapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/insureadmin/admin-console/internal/api/metrics"
	"github.com/insureadmin/admin-console/internal/core/domain"
	"github.com/insureadmin/admin-console/internal/core/ports"
)

const maxErrorBody = 64 << 10

// Options configures a Client.
type Options struct {
	BaseURL string
	// Timeout of zero keeps the transport default (no client timeout).
	Timeout time.Duration
	// RateLimit caps outgoing requests per second; zero disables it.
	RateLimit float64
	// Tokens supplies the Authorization header for authenticated calls.
	Tokens ports.TokenSource
	// Invalidator is told about every 401 on an authenticated call.
	Invalidator ports.SessionInvalidator
	// Transport overrides http.DefaultTransport, mainly for tests.
	Transport http.RoundTripper
	Log       zerolog.Logger
}

// Client implements ports.AdminAPI.
type Client struct {
	base    *url.URL
	http    *http.Client
	limiter *rate.Limiter
	tokens  ports.TokenSource
	log     zerolog.Logger
}

var _ ports.AdminAPI = (*Client)(nil)

func New(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, errors.New("adminapi: base URL is required")
	}
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("adminapi: invalid base URL: %w", err)
	}
	next := opts.Transport
	if next == nil {
		next = http.DefaultTransport
	}
	c := &Client{
		base: base,
		http: &http.Client{
			Timeout:   opts.Timeout,
			Transport: &sessionTransport{next: next, invalidator: opts.Invalidator},
		},
		tokens: opts.Tokens,
		log:    opts.Log.With().Str("component", "adminapi").Logger(),
	}
	if opts.RateLimit > 0 {
		burst := int(opts.RateLimit)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}
	return c, nil
}

type request struct {
	op     string
	method string
	path   string
	query  url.Values
	body   any
	auth   bool
}

// do sends r and decodes a 2xx JSON body into out (which may be nil).
func (c *Client) do(ctx context.Context, r request, out any) error {
	var authHeader string
	if r.auth {
		if c.tokens != nil {
			authHeader = c.tokens.AuthHeader()
		}
		if authHeader == "" {
			return fmt.Errorf("%s: %w", r.op, domain.ErrNotAuthenticated)
		}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%s: rate limit: %w", r.op, err)
		}
	}

	u := *c.base
	u.Path = c.base.Path + r.path
	if r.query != nil {
		u.RawQuery = r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		raw, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", r.op, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u.String(), body)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", r.op, err)
	}
	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.RemoteRequestDuration.WithLabelValues(r.op).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RemoteRequestsTotal.WithLabelValues(r.op, "error").Inc()
		c.log.Error().Err(err).Str("op", r.op).Str("method", r.method).Str("path", r.path).
			Str("request_id", reqID).Msg("remote call failed")
		return fmt.Errorf("%s: %w: %w", r.op, domain.ErrRemote, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{Op: r.op, Status: resp.StatusCode}
		var eb errorBody
		if raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody)); len(raw) > 0 {
			if json.Unmarshal(raw, &eb) == nil {
				apiErr.Message = eb.Message
			}
		}
		evt := c.log.Error()
		outcome := "error"
		if resp.StatusCode == http.StatusUnauthorized {
			evt = c.log.Warn()
			outcome = "unauthorized"
		}
		metrics.RemoteRequestsTotal.WithLabelValues(r.op, outcome).Inc()
		evt.Str("op", r.op).Str("method", r.method).Str("path", r.path).
			Int("status", resp.StatusCode).Str("request_id", reqID).Msg("remote call rejected")
		return apiErr
	}

	metrics.RemoteRequestsTotal.WithLabelValues(r.op, "ok").Inc()
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w: %w", r.op, domain.ErrRemote, err)
	}
	return nil
}

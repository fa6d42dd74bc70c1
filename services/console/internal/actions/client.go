// Package actions wraps every backend endpoint in a typed function. Each call
// validates its input, performs exactly one HTTP request and returns either
// the decoded payload, a *schema.ValidationError or an *apierror.Error.
package actions

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/md-rashed-zaman/bookingdesk/libs/httpx"
	otelx "github.com/md-rashed-zaman/bookingdesk/libs/otel"
	"github.com/md-rashed-zaman/bookingdesk/services/console/internal/apierror"
)

const userAgent = "bookingdesk-console"

type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
	// RateLimit caps outbound requests per second. Zero disables it.
	RateLimit float64
	Logger    *slog.Logger
	// HTTPClient replaces the default instrumented client. Tests use it to
	// point at httptest servers or failing transports.
	HTTPClient *http.Client
}

type Client struct {
	baseURL *url.URL
	http    *http.Client
	logger  *slog.Logger

	mu    sync.RWMutex
	token string
}

func New(cfg Config) (*Client, error) {
	raw := strings.TrimSpace(cfg.BaseURL)
	if raw == "" {
		return nil, errors.New("api base url is required")
	}
	base, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse api base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("api base url %q must be http or https", raw)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		var limit httpx.Middleware
		if cfg.RateLimit > 0 {
			limit = httpx.WithRateLimit(cfg.RateLimit, 1)
		}
		hc = &http.Client{
			Timeout: timeout,
			Transport: httpx.Chain(
				otelx.Transport(http.DefaultTransport),
				limit,
				httpx.WithRequestID,
				httpx.WithHeader("User-Agent", userAgent),
				httpx.WithAccessLog(logger),
			),
		}
	}

	return &Client{
		baseURL: base,
		http:    hc,
		logger:  logger,
		token:   strings.TrimSpace(cfg.Token),
	}, nil
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(token), "Bearer "))
	c.mu.Unlock()
}

func (c *Client) BaseURL() string { return c.baseURL.String() }

// CacheScope names the backend and credentials a result was fetched with.
// Cached results are only served back under the same scope, so a token never
// sees data another token was allowed to read. The token is hashed rather
// than decoded: unverified claims can be forged.
func (c *Client) CacheScope() string {
	sum := sha256.Sum256([]byte(c.BaseURL() + "\n" + c.Token()))
	return hex.EncodeToString(sum[:12])
}

type call struct {
	op     string
	method string
	path   []string
	query  url.Values
	// body is JSON encoded unless raw is set.
	body        any
	raw         io.Reader
	contentType string
}

func (c *Client) endpoint(segments []string, query url.Values) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	u := c.baseURL.JoinPath(escaped...)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// do sends one request and decodes a 2xx body into out. Anything else becomes
// an *apierror.Error, which is logged here and returned.
func (c *Client) do(ctx context.Context, cl call, out any) error {
	var body io.Reader
	contentType := cl.contentType
	switch {
	case cl.raw != nil:
		body = cl.raw
	case cl.body != nil:
		payload, err := json.Marshal(cl.body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", cl.op, err)
		}
		body = bytes.NewReader(payload)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, c.endpoint(cl.path, cl.query), body)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", cl.op, err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		apiErr := apierror.Network(cl.op, req, err)
		c.logger.Warn("backend unreachable", "op", cl.op, "method", cl.method, "path", req.URL.Path, "err", err)
		return apiErr
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := apierror.FromResponse(cl.op, resp)
		level := slog.LevelInfo
		if resp.StatusCode >= http.StatusInternalServerError {
			level = slog.LevelWarn
		}
		c.logger.Log(ctx, level, "backend rejected request",
			"op", cl.op,
			"status", apiErr.Status,
			"message", apiErr.Message,
			"request_id", apiErr.RequestID,
		)
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) && allowsEmpty(out) {
			return nil
		}
		apiErr := apierror.Decode(cl.op, resp, err)
		c.logger.Warn("backend response not understood", "op", cl.op, "err", err)
		return apiErr
	}
	return nil
}

// allowsEmpty reports whether an empty body is an acceptable answer for out.
func allowsEmpty(out any) bool {
	_, ok := out.(*emptyOK)
	return ok
}

// emptyOK wraps a destination that may legitimately receive no body, such as
// the answer to a delete.
type emptyOK struct{ v any }

func (e *emptyOK) UnmarshalJSON(b []byte) error { return json.Unmarshal(b, e.v) }

// Ping reports whether the backend answers HTTP at all. Any status counts as
// reachable; only transport failures are errors.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL.String(), nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return apierror.Network("ping", req, err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.Body.Close()
}

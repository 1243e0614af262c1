// Package api is the HTTP client for the dashboard backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/evgengiga/dashbord/internal/common"
	"github.com/evgengiga/dashbord/internal/model"
	"github.com/evgengiga/dashbord/internal/service"
	"github.com/google/uuid"
)

var (
	_ service.Authenticator    = (*Client)(nil)
	_ service.DashboardFetcher = (*Client)(nil)
)

// RequestIDHeader carries a per-request id for log correlation with the backend.
const RequestIDHeader = "X-Request-ID"

const maxErrorBody = 4 << 10

// Client talks to the dashboard backend.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	retry      service.RetryOptions
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithToken sets the bearer token used for dashboard requests.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithRetryOptions sets the backoff policy for dashboard requests.
func WithRetryOptions(opts service.RetryOptions) Option {
	return func(c *Client) { c.retry = opts }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// NewClient creates a client for the backend rooted at baseURL, e.g.
// "http://localhost:8000/api".
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken replaces the bearer token.
func (c *Client) SetToken(token string) {
	c.token = token
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	UserName    string `json:"user_name"`
	UserEmail   string `json:"user_email"`
}

// Authenticate logs in and returns the new session. The client keeps using
// the returned token.
func (c *Client) Authenticate(ctx context.Context, creds model.Credentials) (*model.Session, error) {
	if strings.TrimSpace(creds.Email) == "" {
		return nil, common.NewUserError("Укажите email", common.ErrMissingConfig)
	}

	var resp loginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, creds, "", &resp); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NewUserError("Пользователь с таким email не найден", err)
		}
		return nil, fmt.Errorf("login failed: %w", err)
	}
	if resp.AccessToken == "" {
		return nil, fmt.Errorf("login failed: %w: empty access token", common.ErrInvalidPayload)
	}

	c.token = resp.AccessToken
	return &model.Session{
		Token:     resp.AccessToken,
		TokenType: resp.TokenType,
		UserName:  resp.UserName,
		UserEmail: resp.UserEmail,
		CreatedAt: time.Now(),
	}, nil
}

// Profile returns the user behind token.
func (c *Client) Profile(ctx context.Context, token string) (*model.Profile, error) {
	var p model.Profile
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil, token, &p); err != nil {
		return nil, fmt.Errorf("fetching profile: %w", err)
	}
	return &p, nil
}

// FetchDashboard loads the dashboard for filters. Transient failures are
// retried; an expired session fails immediately with common.ErrUnauthorized.
func (c *Client) FetchDashboard(ctx context.Context, filters model.Filters) (*model.Payload, error) {
	if err := filters.Validate(); err != nil {
		return nil, common.Permanent(err)
	}
	if c.token == "" {
		return nil, common.ErrNoSession
	}

	query := url.Values{}
	query.Set("fiscal_year", string(filters.Period))
	query.Set("order_status", string(filters.OrderStatus))

	var payload *model.Payload
	err := common.WithRetry(ctx, func() error {
		var raw json.RawMessage
		if err := c.do(ctx, http.MethodGet, "/dashboard/", query, nil, c.token, &raw); err != nil {
			return err
		}
		p, err := model.DecodePayload(raw)
		if err != nil {
			return common.Permanent(fmt.Errorf("%w: %w", common.ErrInvalidPayload, err))
		}
		payload = p
		return nil
	}, c.retry)
	if err != nil {
		return nil, fmt.Errorf("fetching dashboard: %w", err)
	}

	payload.FetchedAt = time.Now()
	return payload, nil
}

type errorBody struct {
	Detail any `json:"detail"`
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, token string, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return common.Permanent(fmt.Errorf("failed to encode request: %w", err))
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return common.Permanent(fmt.Errorf("failed to create request: %w", err))
	}
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return common.Permanent(ctx.Err())
		}
		return common.Transient(fmt.Errorf("%w: %w", common.ErrBackendUnavailable, err))
	}
	defer func() { _ = resp.Body.Close() }()

	slog.Debug("Backend request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"request_id", requestID,
		"duration", time.Since(start))

	if err := statusError(resp); err != nil {
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return common.Permanent(fmt.Errorf("%w: %w", common.ErrInvalidPayload, err))
	}
	return nil
}

func statusError(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	detail := strings.TrimSpace(string(data))
	var eb errorBody
	if json.Unmarshal(data, &eb) == nil && eb.Detail != nil {
		detail = fmt.Sprint(eb.Detail)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return common.Permanent(fmt.Errorf("%w: %s", common.ErrUnauthorized, detail))
	case resp.StatusCode == http.StatusTooManyRequests:
		return common.Transient(fmt.Errorf("%w: %s", common.ErrRateLimit, detail))
	case resp.StatusCode >= 500:
		return common.Transient(fmt.Errorf("%w: status %d: %s", common.ErrBackendUnavailable, resp.StatusCode, detail))
	case resp.StatusCode == http.StatusNotFound:
		return common.Permanent(fmt.Errorf("%w: %s", common.ErrNotFound, detail))
	default:
		return common.Permanent(fmt.Errorf("backend rejected request: status %d: %s", resp.StatusCode, detail))
	}
}

// IsUnauthorized reports whether err means the session is no longer valid.
func IsUnauthorized(err error) bool {
	return errors.Is(err, common.ErrUnauthorized) || errors.Is(err, common.ErrNoSession)
}

// Package api is the REST transport for the remote scheduling service.
// Callers hold the Service interface; the concrete client attaches bearer
// tokens, tags requests, and maps 401-class responses to ErrUnauthorized so
// upper layers can translate expiry into logout instead of a generic toast.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tableflip.dev/skej/pkg/wire"
)

// ErrUnauthorized indicates the bearer token was rejected. Callers must treat
// this as session expiry (logout + re-login), never as a transient failure.
var ErrUnauthorized = errors.New("api: unauthorized")

// ErrNotFound indicates the addressed resource does not exist server-side.
var ErrNotFound = errors.New("api: not found")

// IsUnauthorized reports whether err is, or wraps, ErrUnauthorized.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// TokenSource supplies the current bearer token, empty when signed out.
type TokenSource interface {
	Token() string
}

// Service is the operation surface the orchestrator consumes. The constraint
// engine behind these calls is an external collaborator; everything arrives
// as opaque JSON shaped by pkg/wire.
type Service interface {
	Login(ctx context.Context, creds wire.Credentials) (*wire.AuthResponse, error)
	Signup(ctx context.Context, creds wire.Credentials) (*wire.AuthResponse, error)

	Events(ctx context.Context) ([]wire.Event, error)
	Event(ctx context.Context, id int64) (*wire.Event, error)
	CreateEvent(ctx context.Context, body wire.EventCreate) (*wire.Event, error)
	DeleteEvent(ctx context.Context, id int64) error

	Entities(ctx context.Context, eventID int64) ([]wire.Entity, error)
	CreateEntities(ctx context.Context, eventID int64, body wire.EntityCreate) error
	DeleteEntity(ctx context.Context, eventID, entityID int64) error

	Sessions(ctx context.Context, eventID int64) ([]wire.Session, error)
	CreateSessions(ctx context.Context, eventID int64, body wire.SessionCreate) error
	DeleteSession(ctx context.Context, eventID, sessionID int64) error

	Schedule(ctx context.Context, eventID int64) ([]wire.ScheduleItem, error)
	Generate(ctx context.Context, eventID int64) (*wire.GenerateResult, error)
}

// Client is the HTTP implementation of Service.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	logger  *zap.Logger
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithLogger enables request debug logging.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New constructs a Client for the given base URL. Timeouts stay at the
// transport default; failures surface to the caller, never silently retried.
func New(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		tokens:  tokens,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Login(ctx context.Context, creds wire.Credentials) (*wire.AuthResponse, error) {
	var out wire.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", creds, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Signup(ctx context.Context, creds wire.Credentials) (*wire.AuthResponse, error) {
	var out wire.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/signup", creds, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Events(ctx context.Context) ([]wire.Event, error) {
	var out wire.EventList
	if err := c.do(ctx, http.MethodGet, "/events", nil, &out); err != nil {
		return nil, err
	}
	return out.Events, nil
}

func (c *Client) Event(ctx context.Context, id int64) (*wire.Event, error) {
	var out wire.Event
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/events/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateEvent(ctx context.Context, body wire.EventCreate) (*wire.Event, error) {
	var out wire.Event
	if err := c.do(ctx, http.MethodPost, "/events", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteEvent(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/events/%d", id), nil, nil)
}

func (c *Client) Entities(ctx context.Context, eventID int64) ([]wire.Entity, error) {
	var out wire.EntityList
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/events/%d/entities", eventID), nil, &out); err != nil {
		return nil, err
	}
	return out.Entities, nil
}

func (c *Client) CreateEntities(ctx context.Context, eventID int64, body wire.EntityCreate) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/events/%d/entities", eventID), body, nil)
}

func (c *Client) DeleteEntity(ctx context.Context, eventID, entityID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/events/%d/entities/%d", eventID, entityID), nil, nil)
}

func (c *Client) Sessions(ctx context.Context, eventID int64) ([]wire.Session, error) {
	var out wire.SessionList
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/events/%d/sessions", eventID), nil, &out); err != nil {
		return nil, err
	}
	return out.Sessions, nil
}

func (c *Client) CreateSessions(ctx context.Context, eventID int64, body wire.SessionCreate) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/events/%d/sessions", eventID), body, nil)
}

func (c *Client) DeleteSession(ctx context.Context, eventID, sessionID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/events/%d/sessions/%d", eventID, sessionID), nil, nil)
}

func (c *Client) Schedule(ctx context.Context, eventID int64) ([]wire.ScheduleItem, error) {
	var out wire.ScheduleList
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/events/%d/schedule", eventID), nil, &out); err != nil {
		return nil, err
	}
	return out.Schedule, nil
}

func (c *Client) Generate(ctx context.Context, eventID int64) (*wire.GenerateResult, error) {
	var out wire.GenerateResult
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/events/%d/generate", eventID), struct{}{}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("api: encode %s %s: %w", method, path, err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return fmt.Errorf("api: build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("request complete",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(started)))

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%s %s: %w", method, path, ErrUnauthorized)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s %s: %w", method, path, ErrNotFound)
	case resp.StatusCode >= 400:
		return fmt.Errorf("api: %s %s: %s", method, path, readDetail(resp.Body, resp.Status))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("api: decode %s %s: %w", method, path, err)
	}
	return nil
}

// readDetail pulls the service's {"detail": "..."} error body when present.
func readDetail(r io.Reader, fallback string) string {
	data, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(data) == 0 {
		return fallback
	}
	var body struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &body); err == nil {
		if body.Detail != "" {
			return body.Detail
		}
		if body.Message != "" {
			return body.Message
		}
	}
	return fallback
}

// Package authclient resolves usernames to users through the external
// auth service.
//
// The auth service exposes:
//
//	POST {baseURL}/users   { "usernames": ["a", "b"] }
//	-> 200 { "success": true, "users": [{ "id": "...", "username": "a" }] }
package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/shoppingo/internal/domain/models"
	"go.uber.org/zap"
)

// DefaultTimeout bounds one call to the auth service when none is configured.
const DefaultTimeout = 5 * time.Second

// ErrNoUsers is returned when the auth service knows none of the usernames.
var ErrNoUsers = errors.New("No users found for the provided usernames")

// StatusError reports a non-2xx or unsuccessful response.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("Auth service error: %d", e.StatusCode)
}

// Observer receives the outcome of every auth service call.
// metrics.Collector implements it.
type Observer interface {
	ObserveAuthRequest(outcome string, d time.Duration)
}

// Outcomes reported to the Observer.
const (
	OutcomeOK      = "ok"
	OutcomeStatus  = "status_error"
	OutcomeEmpty   = "empty"
	OutcomeFailure = "failure"
)

// Client calls the auth service. It is stateless and safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	observer   Observer
	log        *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithObserver registers an outcome observer.
func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

// New returns a Client for the auth service rooted at baseURL.
// A zero timeout selects DefaultTimeout.
func New(baseURL string, timeout time.Duration, logger *zap.Logger, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		log:        logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type usersRequest struct {
	Usernames []string `json:"usernames"`
}

type usersResponse struct {
	Success bool          `json:"success"`
	Users   []models.User `json:"users"`
}

// GetUsersByUsernames returns the users known for the given usernames.
func (c *Client) GetUsersByUsernames(ctx context.Context, usernames []string) ([]models.User, error) {
	start := time.Now()

	body, err := json.Marshal(usersRequest{Usernames: usernames})
	if err != nil {
		return nil, fmt.Errorf("encode auth request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/users", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build auth request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(OutcomeFailure, start)
		c.log.Warn("auth service request failed",
			zap.Int("usernames", len(usernames)),
			zap.Error(err))
		return nil, fmt.Errorf("call auth service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.observe(OutcomeStatus, start)
		c.log.Warn("auth service returned error status",
			zap.Int("status", resp.StatusCode))
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	var out usersResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		c.observe(OutcomeFailure, start)
		c.log.Warn("auth service response decode failed", zap.Error(err))
		return nil, fmt.Errorf("decode auth response: %w", err)
	}
	if !out.Success {
		c.observe(OutcomeStatus, start)
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}
	if len(out.Users) == 0 {
		c.observe(OutcomeEmpty, start)
		return nil, ErrNoUsers
	}

	c.observe(OutcomeOK, start)
	return out.Users, nil
}

func (c *Client) observe(outcome string, start time.Time) {
	if c.observer != nil {
		c.observer.ObserveAuthRequest(outcome, time.Since(start))
	}
}

// Copyright (c) 2025-2026 DanaTelecom
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api implements the portal REST client. Every request carries the
// active bearer token; authentication failures are intercepted globally and
// reset the session instead of being surfaced to the calling view.
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

	"github.com/google/uuid"

	"github.com/danatelecom/portal-go/internal/session"
	"github.com/danatelecom/portal-go/internal/version"
)

// ErrSessionExpired is returned after a 401 response. By the time a caller
// sees it the tokens are already cleared and navigation has moved to the
// login view, so callers stop work instead of rendering an error.
var ErrSessionExpired = errors.New("api: session expired")

// Navigator receives the global navigation side effects of the client: the
// forced move to the login view on authentication failure and the redirect
// targets used by the route guard.
type Navigator interface {
	ToLogin()
	ToHome()
}

// Error is a non-auth backend failure, surfaced to the calling view as a
// single inline message.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %s (status %d)", e.Message, e.StatusCode)
	}
	return fmt.Sprintf("api: request failed with status %d", e.StatusCode)
}

// Client is the portal REST client.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	sessions  *session.Store
	nav       Navigator
	log       *slog.Logger
	userAgent string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTimeout sets the transport-level timeout. Requests run to completion
// or failure within it; they are never aborted by navigation.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithVersion sets the build info used for the User-Agent header.
func WithVersion(info version.Info) Option {
	return func(c *Client) { c.userAgent = info.UserAgent() }
}

// NewClient creates a portal client for the given backend origin.
func NewClient(baseURL string, sessions *session.Store, nav Navigator, log *slog.Logger, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base URL must be absolute, got %q", baseURL)
	}

	c := &Client{
		baseURL:   u,
		http:      &http.Client{Timeout: 30 * time.Second},
		sessions:  sessions,
		nav:       nav,
		log:       log,
		userAgent: version.Info{Version: "dev"}.UserAgent(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// AbsoluteImageURL rewrites a backend-relative image path to an absolute
// URL. The empty path stays empty: a missing image is a valid state and the
// placeholder is the renderer's concern.
func (c *Client) AbsoluteImageURL(rel string) string {
	if rel == "" {
		return ""
	}
	if strings.Contains(rel, "://") {
		return rel
	}
	ref := &url.URL{Path: rel}
	return c.baseURL.ResolveReference(ref).String()
}

// endpoint joins the backend origin with an API path.
func (c *Client) endpoint(path string) string {
	u := *c.baseURL
	u.Path = strings.TrimSuffix(u.Path, "/") + path
	return u.String()
}

// do performs a request and decodes a JSON response into out (when non-nil).
//
// A 401 from any endpoint is never returned to the caller: both tokens are
// cleared, navigation moves to the login view, and ErrSessionExpired is
// returned so the caller can abandon the operation.
func (c *Client) do(ctx context.Context, method, path string, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), body)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())
	if token := c.sessions.ActiveToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.handleAuthFailure(method, path)
		return ErrSessionExpired
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.decodeError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s %s response: %w", method, path, err)
	}
	return nil
}

// handleAuthFailure is the global 401 interceptor. The session reset uses a
// background context so it happens even when the triggering request context
// is already cancelled.
func (c *Client) handleAuthFailure(method, path string) {
	if err := c.sessions.Clear(context.Background()); err != nil {
		c.log.Error("clearing session after auth failure", "category", "auth", "error", err)
	}
	c.log.Warn("session expired, redirecting to login",
		"category", "auth", "method", method, "path", path)
	c.nav.ToLogin()
}

// decodeError extracts the backend's {message} body into *Error.
func (c *Client) decodeError(resp *http.Response) error {
	apiErr := &Error{StatusCode: resp.StatusCode}

	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&body); err == nil {
		apiErr.Message = body.Message
	}
	return apiErr
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, "", nil, out)
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, "application/json", bytes.NewReader(body), out)
}

func (c *Client) putJSON(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}
	return c.do(ctx, http.MethodPut, path, "application/json", bytes.NewReader(body), out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, "", nil, nil)
}

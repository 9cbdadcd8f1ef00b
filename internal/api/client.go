// Package api wraps outbound requests to the outreach backend: bearer token
// attachment, JSON (de)serialization, multipart uploads, and error
// normalization. It is the only component that reads the session token for
// outbound requests and the only one allowed to force a logout on 401.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/emberapps/outreach/internal/session"
)

const (
	// DefaultBaseURL is the backend address used when no --api flag or
	// environment override is given.
	DefaultBaseURL = "http://localhost:8000"

	// requestTimeout bounds any single backend call.
	requestTimeout = 30 * time.Second
)

// Client dispatches requests to the outreach backend.
type Client struct {
	baseURL string
	http    *http.Client
	sess    *session.Store
	log     *slog.Logger

	// onUnauthorized runs after a 401 has cleared the session. The CLI
	// uses it to route the user back to the public entry point.
	onUnauthorized func()
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP transport. Used by tests.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.http = h
	}
}

// WithUnauthorizedHook sets the callback invoked after any 401 response has
// terminated the session.
func WithUnauthorizedHook(hook func()) Option {
	return func(c *Client) {
		c.onUnauthorized = hook
	}
}

// WithLogger sets the structured logger.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// NewClient creates a client for the backend at baseURL, reading the bearer
// token from the given session store on every request.
func NewClient(baseURL string, sess *session.Store, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: requestTimeout},
		sess:    sess,
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// BaseURL returns the backend address the client is pointed at.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// OAuthURL returns the provider login entry point. The handshake itself is
// server-side; the provider redirects back with the token as a query
// parameter.
func (c *Client) OAuthURL(provider string) string {
	if provider == "gmail" {
		return c.baseURL + "/auth/google/login?feature=gmail"
	}
	return c.baseURL + "/auth/outlook/login"
}

// Get issues a GET and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.doJSON(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST with an optional JSON body and decodes the response
// into out. A nil body sends no payload.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, http.MethodPost, path, body, out)
}

// Patch issues a PATCH with an optional JSON body and decodes the response
// into out.
func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, http.MethodPatch, path, body, out)
}

// doJSON serializes body (when present), attaches the JSON content type and
// dispatches.
func (c *Client) doJSON(ctx context.Context, method, path string,
	body, out any) error {

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	return c.do(
		ctx, method, path, reader, "application/json", out,
		"Request failed",
	)
}

// UploadFile POSTs a multipart body. The content type must carry the
// multipart boundary (as produced by multipart.Writer.FormDataContentType);
// no JSON content type is attached.
func (c *Client) UploadFile(ctx context.Context, path, contentType string,
	body io.Reader, out any) error {

	return c.do(
		ctx, http.MethodPost, path, body, contentType, out,
		"Upload failed",
	)
}

// do performs one backend call and normalizes the outcome:
//   - 401 clears the persisted and in-memory session, fires the
//     unauthorized hook, and fails with ErrUnauthorized. Never retried here
//     or anywhere else.
//   - other non-2xx responses are parsed for a message field, falling back
//     to the generic failMsg.
//   - network-level failures propagate as-is; retry policy belongs to the
//     data synchronization layer.
func (c *Client) do(ctx context.Context, method, path string,
	body io.Reader, contentType string, out any, failMsg string) error {

	req, err := http.NewRequestWithContext(
		ctx, method, c.baseURL+path, body,
	)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token := c.sess.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.terminateSession()
		return ErrUnauthorized
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.normalizeError(resp, failMsg)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// terminateSession clears all credentials and notifies the CLI. The hook
// runs after the session is gone so it always observes the logged-out
// state.
func (c *Client) terminateSession() {
	if err := c.sess.Logout(); err != nil {
		c.log.Warn("Failed to clear persisted session", "err", err)
	}
	if c.onUnauthorized != nil {
		c.onUnauthorized()
	}
}

// normalizeError parses the backend's JSON error payload, falling back to
// the generic message when the body is not parseable.
func (c *Client) normalizeError(resp *http.Response, failMsg string) error {
	apiErr := &Error{
		StatusCode: resp.StatusCode,
		Message:    failMsg,
	}

	var payload errorPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil &&
		payload.Message != "" {

		apiErr.Message = payload.Message
	}

	return apiErr
}

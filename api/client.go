// Package api is the HTTP client for the e-ticketing backend: catalog
// reads, identity lookups and the booking registry. Every call takes a
// context and is bounded by the client timeout; nothing is retried
// automatically.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"railbook/models"
	"railbook/session"
)

// SessionCookie is the cookie the backend issues at login and expects on
// every authenticated call.
const SessionCookie = "railbook_session"

// Client talks to the e-ticketing backend. Authenticated calls attach the
// session token from the injected store and fail with ErrUnauthenticated
// when the store has no live session.
type Client struct {
	baseURL  string
	http     *http.Client
	sessions *session.Store
}

// NewClient creates a backend client. The timeout bounds every request,
// including verification and confirmation calls.
func NewClient(baseURL string, timeout time.Duration, sessions *session.Store) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: timeout},
		sessions: sessions,
	}
}

// requireSession returns the live session or ErrUnauthenticated. No
// network call happens past a missing session.
func (c *Client) requireSession() (*session.Session, error) {
	sess := c.sessions.Current()
	if sess == nil {
		return nil, ErrUnauthenticated
	}
	return sess, nil
}

// do issues one JSON request. A non-nil session attaches the auth cookie.
// Responses outside 2xx are mapped onto the error taxonomy; out, when
// non-nil, receives the decoded body.
func (c *Client) do(ctx context.Context, method, path string, sess *session.Session, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		var err error
		if reader, err = jsonBody(body); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if sess != nil {
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: sess.Token})
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := statusError(resp); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return decodeBody(resp, out)
}

// jsonBody encodes a request payload.
func jsonBody(v interface{}) (io.Reader, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	return bytes.NewReader(payload), nil
}

// decodeBody decodes a success response payload.
func decodeBody(resp *http.Response, out interface{}) error {
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// statusError maps a non-2xx response onto the error taxonomy, carrying
// the backend's error message when it sent one.
func statusError(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	detail := backendMessage(resp)
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrUnauthenticated, detail)
	case http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrForbidden, detail)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, detail)
	}
	return fmt.Errorf("backend returned %d: %s", resp.StatusCode, detail)
}

// backendMessage extracts the {"error": "..."} envelope the backend uses,
// falling back to the HTTP status text.
func backendMessage(resp *http.Response) string {
	var envelope struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&envelope); err == nil {
		if envelope.Error != "" {
			return envelope.Error
		}
		if envelope.Message != "" {
			return envelope.Message
		}
	}
	return http.StatusText(resp.StatusCode)
}

// rolePath prefixes admin variants of role-scoped endpoints.
func rolePath(role models.Role, path string) string {
	if role == models.RoleAdmin {
		return "/admin" + path
	}
	return path
}

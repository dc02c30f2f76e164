package api

import (
	"context"
	"fmt"
	"net/http"

	"railbook/models"
)

// LoginResult is what a successful authentication yields: the backend's
// token/role response plus the session cookie value to replay on later
// calls.
type LoginResult struct {
	models.LoginResponse
	Cookie string
}

// Login authenticates against /users/login or /admins/login depending on
// the requested role. It does not touch the session store: establishing
// the session from the result is the caller's decision (and where the
// remember-me choice lives).
func (c *Client) Login(ctx context.Context, email, password string, role models.Role) (*LoginResult, error) {
	path := "/users/login"
	if role == models.RoleAdmin {
		path = "/admins/login"
	}

	payload, err := jsonBody(models.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, payload)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := statusError(resp); err != nil {
		return nil, err
	}

	var result LoginResult
	if err := decodeBody(resp, &result.LoginResponse); err != nil {
		return nil, err
	}
	for _, cookie := range resp.Cookies() {
		if cookie.Name == SessionCookie {
			result.Cookie = cookie.Value
		}
	}
	if result.Cookie == "" {
		// Fall back to the token field for backends that skip cookies.
		result.Cookie = result.Token
	}
	return &result, nil
}

// Signup registers a new customer account.
func (c *Client) Signup(ctx context.Context, req models.SignupRequest) error {
	return c.do(ctx, http.MethodPost, "/users/signup", nil, req, nil)
}

// UserDetails fetches the identity details of the current session. The
// checkout verification step uses the returned mobile number.
func (c *Client) UserDetails(ctx context.Context) (*models.User, error) {
	sess, err := c.requireSession()
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := c.do(ctx, http.MethodGet, rolePath(sess.Role, "/users/details"), sess, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateDetails replaces the profile fields of the current user.
func (c *Client) UpdateDetails(ctx context.Context, user models.User) error {
	sess, err := c.requireSession()
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPut, "/users/details", sess, user, nil)
}

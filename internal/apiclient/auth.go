package apiclient

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gymflow/portal/internal/domain"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for a token and user. It never carries a bearer token, and a 401
// here is a failed login, not a session rejection.
func (c *Client) Login(ctx context.Context, email, password string) (domain.AuthResult, error) {
	var result domain.AuthResult
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   []string{"auth", "login"},
		body:   loginRequest{Email: email, Password: password},
	}, &result)
	return result, err
}

// Register creates an account. Admin accounts need an invite code.
func (c *Client) Register(ctx context.Context, reg domain.Registration) (domain.AuthResult, error) {
	var result domain.AuthResult
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   []string{"auth", "register"},
		body:   reg,
	}, &result)
	return result, err
}

// CurrentUser resolves token into the identity it belongs to.
func (c *Client) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	var raw json.RawMessage
	if err := c.do(ctx, call{
		method: http.MethodGet,
		path:   []string{"auth", "me"},
		token:  token,
	}, &raw); err != nil {
		return nil, err
	}
	return decodeItem[domain.User](raw, "user")
}

// RequestPasswordReset asks the API to email a reset link.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	return c.do(ctx, call{
		method: http.MethodPost,
		path:   []string{"auth", "reset-password"},
		body:   map[string]string{"email": email},
	}, nil)
}

// ConfirmPasswordReset sets a new password using the emailed token.
func (c *Client) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	return c.do(ctx, call{
		method: http.MethodPost,
		path:   []string{"auth", "reset-password", "confirm"},
		body:   map[string]string{"token": token, "new_password": newPassword},
	}, nil)
}

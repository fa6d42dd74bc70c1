package actions

import (
	"context"
	"net/http"
	"strings"

	"github.com/md-rashed-zaman/bookingdesk/libs/auth"
	"github.com/md-rashed-zaman/bookingdesk/services/console/internal/apierror"
	"github.com/md-rashed-zaman/bookingdesk/services/console/internal/model"
	"github.com/md-rashed-zaman/bookingdesk/services/console/internal/schema"
)

// SignIn exchanges credentials for a session token and keeps it on the client.
func (c *Client) SignIn(ctx context.Context, in schema.SignIn) (model.AuthResponse, error) {
	var out model.AuthResponse
	if err := schema.Validate(&in); err != nil {
		return out, err
	}
	err := c.do(ctx, call{op: "auth.signin", method: http.MethodPost, path: []string{"auth", "signin"}, body: in}, &out)
	if err != nil {
		return model.AuthResponse{}, err
	}
	c.adoptToken(out.Token)
	return out, nil
}

// SignUp registers an account. The backend answers with a message and mails
// a verification code; no token is issued until VerifyEmailCode succeeds.
func (c *Client) SignUp(ctx context.Context, in schema.SignUp) (model.SignUpResponse, error) {
	var out model.SignUpResponse
	if err := schema.Validate(&in); err != nil {
		return out, err
	}
	if err := c.do(ctx, call{op: "auth.signup", method: http.MethodPost, path: []string{"auth", "signup"}, body: in}, &emptyOK{&out}); err != nil {
		return model.SignUpResponse{}, err
	}
	return out, nil
}

func (c *Client) VerifyEmailCode(ctx context.Context, in schema.VerifyEmailCode) (model.AuthResponse, error) {
	var out model.AuthResponse
	if err := schema.Validate(&in); err != nil {
		return out, err
	}
	err := c.do(ctx, call{op: "auth.verify_email_code", method: http.MethodPost, path: []string{"auth", "verify-email-code"}, body: in}, &out)
	if err != nil {
		return model.AuthResponse{}, err
	}
	c.adoptToken(out.Token)
	return out, nil
}

func (c *Client) ResendEmailCode(ctx context.Context, in schema.ResendEmailCode) (model.SignUpResponse, error) {
	var out model.SignUpResponse
	if err := schema.Validate(&in); err != nil {
		return out, err
	}
	if err := c.do(ctx, call{op: "auth.resend_email_code", method: http.MethodPost, path: []string{"auth", "resend-email-code"}, body: in}, &emptyOK{&out}); err != nil {
		return model.SignUpResponse{}, err
	}
	return out, nil
}

// CheckStatus asks the backend whether the current token is still valid and
// picks up the refreshed token it returns. Without a token there is nothing
// to check and no request is made.
func (c *Client) CheckStatus(ctx context.Context) (model.AuthResponse, error) {
	if c.Token() == "" {
		return model.AuthResponse{}, &apierror.Error{
			Op:      "auth.check_status",
			Method:  http.MethodGet,
			Path:    "/auth/check-status",
			Status:  http.StatusUnauthorized,
			Message: "not signed in",
		}
	}
	var out model.AuthResponse
	err := c.do(ctx, call{op: "auth.check_status", method: http.MethodGet, path: []string{"auth", "check-status"}}, &out)
	if err != nil {
		return model.AuthResponse{}, err
	}
	c.adoptToken(out.Token)
	return out, nil
}

// SignOut forgets the session token. The backend keeps no session state.
func (c *Client) SignOut() { c.SetToken("") }

// Session decodes the current token without verifying it. The console only
// uses it for display; the backend remains the authority.
func (c *Client) Session() (*auth.Claims, error) {
	token := c.Token()
	if token == "" {
		return nil, auth.ErrInvalidToken
	}
	return auth.ParseUnverified(token)
}

func (c *Client) adoptToken(token string) {
	token = strings.TrimSpace(token)
	if token == "" {
		return
	}
	if _, err := auth.ParseUnverified(token); err != nil {
		c.logger.Debug("backend token is not a jwt", "err", err)
	}
	c.SetToken(token)
}

package backend

import (
	"context"
	"fmt"
	"time"

	"github.com/grtech/pilates/pkg/domain"
)

// authResponse is the auth provider's token envelope. ExpiresAt is a unix
// timestamp; the JWT claims carry the same value and win when they disagree.
type authResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at"`
	User         struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

func (r *authResponse) toSession() *domain.AuthSession {
	s := &domain.AuthSession{
		UserID:       r.User.ID,
		Email:        r.User.Email,
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
	}
	if r.ExpiresAt > 0 {
		s.ExpiresAt = time.Unix(r.ExpiresAt, 0)
	}
	s.FillFromToken()
	return s
}

type passwordGrant struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignIn exchanges email/password for a session.
func (c *Client) SignIn(ctx context.Context, email, password string) (*domain.AuthSession, error) {
	var resp authResponse
	if err := c.post(ctx, "/auth/v1/token?grant_type=password", passwordGrant{Email: email, Password: password}, &resp); err != nil {
		return nil, fmt.Errorf("backend.SignIn: %w", err)
	}
	return resp.toSession(), nil
}

// SignUp registers a new account. The provider may withhold a session until
// the email is confirmed, so only the outcome is reported; the user signs in
// afterwards.
func (c *Client) SignUp(ctx context.Context, email, password string) error {
	if err := c.post(ctx, "/auth/v1/signup", passwordGrant{Email: email, Password: password}, nil); err != nil {
		return fmt.Errorf("backend.SignUp: %w", err)
	}
	return nil
}

// SignOut revokes the current session server-side.
func (c *Client) SignOut(ctx context.Context) error {
	if err := c.post(ctx, "/auth/v1/logout", nil, nil); err != nil {
		return fmt.Errorf("backend.SignOut: %w", err)
	}
	return nil
}

type refreshGrant struct {
	RefreshToken string `json:"refresh_token"`
}

// RefreshSession exchanges a refresh token for a fresh session.
func (c *Client) RefreshSession(ctx context.Context, refreshToken string) (*domain.AuthSession, error) {
	var resp authResponse
	if err := c.post(ctx, "/auth/v1/token?grant_type=refresh_token", refreshGrant{RefreshToken: refreshToken}, &resp); err != nil {
		return nil, fmt.Errorf("backend.RefreshSession: %w", err)
	}
	return resp.toSession(), nil
}

package domain

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthSession is the client's read-only projection of the auth provider's
// session object. The provider owns the tokens; this type just carries them
// plus the claims the client needs for scoping table reads.
type AuthSession struct {
	UserID       string    `json:"user_id"`
	Email        string    `json:"email"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Valid reports whether the session carries an access token at all.
// It does not check expiry; callers that care use Expired.
func (s *AuthSession) Valid() bool {
	return s != nil && s.AccessToken != ""
}

// Expired reports whether the access token's expiry has passed.
// Sessions without a known expiry are treated as not expired and left
// to the provider to reject.
func (s *AuthSession) Expired() bool {
	if s == nil || s.ExpiresAt.IsZero() {
		return false
	}
	return time.Now().After(s.ExpiresAt)
}

// FillFromToken decodes the JWT access token and copies the subject (user id)
// and expiry into the session. The token is parsed without signature
// verification: the client holds no signing secret, and the provider rejects
// tampered tokens on every call anyway.
func (s *AuthSession) FillFromToken() {
	if s == nil || s.AccessToken == "" {
		return
	}
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(s.AccessToken, claims); err != nil {
		return
	}
	if sub, err := claims.GetSubject(); err == nil && sub != "" {
		s.UserID = sub
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		s.ExpiresAt = exp.Time
	}
}

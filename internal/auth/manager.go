// Package auth owns the process-wide auth session: the single cached
// credential every other component reads. Screens never mutate the session
// directly; they go through the Manager, which persists changes and notifies
// subscribers so the navigation shell can react.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/grtech/pilates/internal/keystore"
	"github.com/grtech/pilates/pkg/backend"
	"github.com/grtech/pilates/pkg/domain"
)

// Manager is the session store client. One instance exists per process; it is
// created at startup and torn down with it, and is safe for concurrent use.
type Manager struct {
	client *backend.Client
	store  *keystore.Store
	log    zerolog.Logger

	mu         sync.Mutex
	session    *domain.AuthSession
	subs       map[int]func(*domain.AuthSession)
	nextSubID  int
	storageKey string
}

// NewManager creates the session manager. The persisted-session key follows
// the provider's naming convention, sb-<project-ref>-auth-token, so the
// credential-reset sweep finds it by prefix alone.
func NewManager(client *backend.Client, store *keystore.Store, log zerolog.Logger) *Manager {
	return &Manager{
		client:     client,
		store:      store,
		log:        log,
		subs:       map[int]func(*domain.AuthSession){},
		storageKey: StorageKey(client.BaseURL()),
	}
}

// StorageKey returns the provider-convention storage key for a backend URL.
func StorageKey(baseURL string) string {
	ref := "local"
	if u, err := url.Parse(baseURL); err == nil {
		host := u.Hostname()
		if i := strings.IndexByte(host, '.'); i > 0 {
			ref = host[:i]
		} else if host != "" {
			ref = host
		}
	}
	return "sb-" + ref + "-auth-token"
}

// Restore loads a previously persisted session. An expired session is
// refreshed once; if that fails the stale session is dropped and the user
// starts signed out.
func (m *Manager) Restore(ctx context.Context) {
	raw, ok := m.store.Get(m.storageKey)
	if !ok || raw == "" {
		return
	}
	var s domain.AuthSession
	if err := json.Unmarshal([]byte(raw), &s); err != nil || !s.Valid() {
		return
	}
	s.FillFromToken()
	if !s.Expired() {
		m.setSession(&s)
		return
	}
	fresh, err := m.client.RefreshSession(ctx, s.RefreshToken)
	if err != nil {
		m.log.Warn().Err(err).Msg("stored session expired and refresh failed; starting signed out")
		_ = m.store.RemoveMany([]string{m.storageKey})
		return
	}
	m.setSession(fresh)
}

// Current returns the session in use, or nil when signed out.
func (m *Manager) Current() *domain.AuthSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session
}

// SignIn authenticates with email/password and installs the new session.
func (m *Manager) SignIn(ctx context.Context, email, password string) (*domain.AuthSession, error) {
	s, err := m.client.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}
	m.setSession(s)
	m.log.Info().Str("user_id", s.UserID).Msg("signed in")
	return s, nil
}

// SignUp registers a new account. No session is installed; the provider asks
// the user to sign in (and possibly confirm their email) afterwards.
func (m *Manager) SignUp(ctx context.Context, email, password string) error {
	return m.client.SignUp(ctx, email, password)
}

// SignOut revokes the session remotely and, on success, clears it locally.
// A remote failure leaves the session in place so the caller can surface it.
func (m *Manager) SignOut(ctx context.Context) error {
	if err := m.client.SignOut(ctx); err != nil {
		return err
	}
	m.setSession(nil)
	m.log.Info().Msg("signed out")
	return nil
}

// Refresh exchanges the current refresh token for a fresh session.
func (m *Manager) Refresh(ctx context.Context) (*domain.AuthSession, error) {
	cur := m.Current()
	if !cur.Valid() {
		return nil, fmt.Errorf("auth.Refresh: no session to refresh")
	}
	s, err := m.client.RefreshSession(ctx, cur.RefreshToken)
	if err != nil {
		return nil, err
	}
	m.setSession(s)
	return s, nil
}

// SetSession overwrites the in-memory session with raw tokens. Empty tokens
// clear it. The persisted copy is updated best-effort; the returned error is
// only the persistence outcome.
func (m *Manager) SetSession(accessToken, refreshToken string) error {
	if accessToken == "" {
		return m.setSession(nil)
	}
	s := &domain.AuthSession{AccessToken: accessToken, RefreshToken: refreshToken}
	s.FillFromToken()
	return m.setSession(s)
}

// Subscribe registers a session-change callback and returns its unsubscribe
// handle. The callback receives the new session (nil on sign-out) and runs on
// the mutating goroutine, so it must not call back into the Manager.
func (m *Manager) Subscribe(fn func(*domain.AuthSession)) func() {
	m.mu.Lock()
	id := m.nextSubID
	m.nextSubID++
	m.subs[id] = fn
	m.mu.Unlock()
	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

// setSession installs s, syncs the client bearer, persists, and notifies.
func (m *Manager) setSession(s *domain.AuthSession) error {
	m.mu.Lock()
	m.session = s
	fns := make([]func(*domain.AuthSession), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	m.mu.Unlock()

	if s.Valid() {
		m.client.SetBearer(s.AccessToken)
	} else {
		m.client.SetBearer("")
	}

	var persistErr error
	if s.Valid() {
		raw, err := json.Marshal(s)
		if err == nil {
			persistErr = m.store.Set(m.storageKey, string(raw))
		} else {
			persistErr = err
		}
	} else {
		persistErr = m.store.RemoveMany([]string{m.storageKey})
	}
	if persistErr != nil {
		m.log.Warn().Err(persistErr).Msg("session persistence failed")
	}

	for _, fn := range fns {
		fn(s)
	}
	return persistErr
}

package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/grtech/pilates/internal/keystore"
	"github.com/grtech/pilates/pkg/backend"
	"github.com/grtech/pilates/pkg/domain"
)

func newTestManager(t *testing.T, handler http.HandlerFunc) (*Manager, *keystore.Store) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	store, err := keystore.Open(filepath.Join(t.TempDir(), "storage.json"))
	if err != nil {
		t.Fatal(err)
	}
	client := backend.New(srv.URL, "anon", zerolog.Nop())
	return NewManager(client, store, zerolog.Nop()), store
}

func TestStorageKey(t *testing.T) {
	cases := []struct{ url, want string }{
		{"https://abcd1234.example.co", "sb-abcd1234-auth-token"},
		{"http://localhost:54321", "sb-localhost-auth-token"},
		{"", "sb-local-auth-token"},
	}
	for _, c := range cases {
		if got := StorageKey(c.url); got != c.want {
			t.Errorf("StorageKey(%q) = %q, want %q", c.url, got, c.want)
		}
	}
}

func TestSignInPersistsAndNotifies(t *testing.T) {
	m, store := newTestManager(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
			"access_token":  "tok",
			"refresh_token": "ref",
			"user":          map[string]string{"id": "u1", "email": "ana@studio.mx"},
		})
	})

	var notified *domain.AuthSession
	m.Subscribe(func(s *domain.AuthSession) { notified = s })

	if _, err := m.SignIn(context.Background(), "ana@studio.mx", "secret"); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if !m.Current().Valid() || m.Current().UserID != "u1" {
		t.Fatalf("current = %+v", m.Current())
	}
	if notified == nil || notified.AccessToken != "tok" {
		t.Fatalf("subscriber got %+v", notified)
	}

	raw, ok := store.Get(m.storageKey)
	if !ok {
		t.Fatalf("no persisted session under %q", m.storageKey)
	}
	var persisted domain.AuthSession
	if err := json.Unmarshal([]byte(raw), &persisted); err != nil || persisted.RefreshToken != "ref" {
		t.Fatalf("persisted = %q err = %v", raw, err)
	}
}

func TestRestore(t *testing.T) {
	m, store := newTestManager(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no remote call expected for a live session")
	})
	raw, _ := json.Marshal(&domain.AuthSession{AccessToken: "tok", RefreshToken: "ref", UserID: "u1"}) //nolint:errcheck
	if err := store.Set(m.storageKey, string(raw)); err != nil {
		t.Fatal(err)
	}

	m.Restore(context.Background())
	if !m.Current().Valid() {
		t.Fatal("session not restored")
	}
}

func TestRestoreExpiredRefreshFails(t *testing.T) {
	m, store := newTestManager(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"refresh token revoked"}`)) //nolint:errcheck
	})
	stale := &domain.AuthSession{AccessToken: "tok", RefreshToken: "dead", ExpiresAt: time.Now().Add(-time.Hour)}
	raw, _ := json.Marshal(stale) //nolint:errcheck
	if err := store.Set(m.storageKey, string(raw)); err != nil {
		t.Fatal(err)
	}

	m.Restore(context.Background())
	if m.Current().Valid() {
		t.Fatal("stale session kept after failed refresh")
	}
	if _, ok := store.Get(m.storageKey); ok {
		t.Fatal("stale persisted session not dropped")
	}
}

func TestSignOutRemoteFailureKeepsSession(t *testing.T) {
	status := http.StatusOK
	m, _ := newTestManager(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/v1/logout" {
			w.WriteHeader(status)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
			"access_token": "tok", "refresh_token": "ref",
			"user": map[string]string{"id": "u1"},
		})
	})
	if _, err := m.SignIn(context.Background(), "a@b.mx", "secret"); err != nil {
		t.Fatal(err)
	}

	status = http.StatusInternalServerError
	if err := m.SignOut(context.Background()); err == nil {
		t.Fatal("expected sign-out error")
	}
	if !m.Current().Valid() {
		t.Fatal("session cleared despite remote failure")
	}

	status = http.StatusOK
	if err := m.SignOut(context.Background()); err != nil {
		t.Fatalf("SignOut: %v", err)
	}
	if m.Current().Valid() {
		t.Fatal("session kept after successful sign-out")
	}
}

func TestHardResetSweepsEvenWhenSignOutFails(t *testing.T) {
	m, store := newTestManager(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	seed := map[string]string{
		"sb-proj-auth-token":           "stale",
		"sb-proj-auth-token.0":         "stale chunk",
		"sb-other-auth-token-verifier": "stale",
		"theme":                        "dark",
	}
	for k, v := range seed {
		if err := store.Set(k, v); err != nil {
			t.Fatal(err)
		}
	}

	m.HardReset(context.Background())

	for k := range seed {
		_, ok := store.Get(k)
		if k == "theme" && !ok {
			t.Fatal("unrelated key swept")
		}
		if k != "theme" && ok {
			t.Fatalf("credential key %q survived the sweep", k)
		}
	}
	if m.Current().Valid() {
		t.Fatal("in-memory session survived the reset")
	}
}

func TestSetSessionClears(t *testing.T) {
	m, _ := newTestManager(t, func(w http.ResponseWriter, r *http.Request) {})
	if err := m.SetSession("sometoken", "ref"); err != nil {
		t.Fatalf("SetSession: %v", err)
	}
	if !m.Current().Valid() {
		t.Fatal("session not installed")
	}
	if err := m.SetSession("", ""); err != nil {
		t.Fatalf("SetSession clear: %v", err)
	}
	if m.Current().Valid() {
		t.Fatal("empty token did not clear the session")
	}
}

func TestUnsubscribe(t *testing.T) {
	m, _ := newTestManager(t, func(w http.ResponseWriter, r *http.Request) {})
	calls := 0
	cancel := m.Subscribe(func(*domain.AuthSession) { calls++ })
	if err := m.SetSession("tok", ""); err != nil {
		t.Fatal(err)
	}
	cancel()
	if err := m.SetSession("tok2", ""); err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

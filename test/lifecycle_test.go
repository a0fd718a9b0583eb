package test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"

	authclient "github.com/hrkit/authclient"
	"github.com/hrkit/authclient/guard"
	"github.com/hrkit/authclient/vault"
)

var signingKey = []byte("integration-test-key")

type fakeBackend struct {
	mu     sync.Mutex
	secret string
	down   bool
}

func (b *fakeBackend) identity() map[string]string {
	return map[string]string{
		"id":        "u-1001",
		"firstName": "Ana",
		"lastName":  "García",
		"email":     "ana@example.com",
		"role":      "hr_manager",
	}
}

func (b *fakeBackend) token(t *testing.T) string {
	t.Helper()
	claims := jwtlib.RegisteredClaims{
		Subject:   "u-1001",
		ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(signingKey)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return token
}

func (b *fakeBackend) handler(t *testing.T) http.Handler {
	t.Helper()
	mux := http.NewServeMux()

	reject := func(w http.ResponseWriter, status int, message string) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
	}
	authed := func(r *http.Request) bool {
		raw := r.Header.Get("Authorization")
		if len(raw) < 8 || raw[:7] != "Bearer " {
			return false
		}
		_, err := jwtlib.Parse(raw[7:], func(*jwtlib.Token) (any, error) {
			return signingKey, nil
		}, jwtlib.WithValidMethods([]string{"HS256"}))
		return err == nil
	}
	down := func() bool {
		b.mu.Lock()
		defer b.mu.Unlock()
		return b.down
	}

	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		if down() {
			reject(w, http.StatusServiceUnavailable, "maintenance")
			return
		}
		var body struct {
			Identifier string `json:"identifier"`
			Secret     string `json:"secret"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		b.mu.Lock()
		ok := body.Identifier == "ana@example.com" && body.Secret == b.secret
		b.mu.Unlock()
		if !ok {
			reject(w, http.StatusUnauthorized, "invalid email or password")
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"credential": b.token(t),
			"identity":   b.identity(),
		})
	})
	mux.HandleFunc("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		if !authed(r) {
			reject(w, http.StatusUnauthorized, "credential rejected")
			return
		}
		_ = json.NewEncoder(w).Encode(b.identity())
	})
	mux.HandleFunc("/auth/change-password", func(w http.ResponseWriter, r *http.Request) {
		if !authed(r) {
			reject(w, http.StatusUnauthorized, "credential rejected")
			return
		}
		var body struct {
			OldSecret string `json:"old_secret"`
			NewSecret string `json:"new_secret"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		b.mu.Lock()
		defer b.mu.Unlock()
		if body.OldSecret != b.secret {
			reject(w, http.StatusBadRequest, "current password is incorrect")
			return
		}
		b.secret = body.NewSecret
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return mux
}

func newLifecycleSession(t *testing.T, baseURL string, slot vault.Vault) *authclient.Session {
	t.Helper()
	cfg := authclient.DefaultConfig()
	cfg.API.BaseURL = baseURL
	cfg.Metrics.Enabled = true

	session, err := authclient.New().
		WithConfig(cfg).
		WithVault(slot).
		Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	t.Cleanup(session.Close)
	return session
}

func TestFullLifecycle(t *testing.T) {
	backend := &fakeBackend{secret: "secret1"}
	server := httptest.NewServer(backend.handler(t))
	t.Cleanup(server.Close)

	slot := vault.NewFile(filepath.Join(t.TempDir(), "credential"))
	ctx := context.Background()

	session := newLifecycleSession(t, server.URL, slot)

	// Cold start with nothing persisted.
	if err := session.Hydrate(ctx); err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	if snap := session.Snapshot(); snap.Phase != authclient.PhaseUnauthenticated {
		t.Fatalf("phase = %v", snap.Phase)
	}

	if err := session.Login(ctx, "ana@example.com", "secret1"); err != nil {
		t.Fatalf("login: %v", err)
	}
	snap := session.Snapshot()
	if snap.Phase != authclient.PhaseAuthenticated || snap.Identity.Role != authclient.RoleHRManager {
		t.Fatalf("snapshot = %+v", snap)
	}

	// The guard sees the live session.
	table := guard.DefaultTable()
	if d := table.Authorize(snap, "/users"); d.Action != guard.ActionAllow {
		t.Fatalf("hr manager on /users: %+v", d)
	}
	if d := table.Authorize(snap, "/settings"); d.Action != guard.ActionRedirect || d.Target != "/dashboard" {
		t.Fatalf("hr manager on /settings: %+v", d)
	}

	// A process restart with the same slot restores the session from disk.
	restarted := newLifecycleSession(t, server.URL, slot)
	if err := restarted.Hydrate(ctx); err != nil {
		t.Fatalf("hydrate after restart: %v", err)
	}
	snap = restarted.Snapshot()
	if snap.Phase != authclient.PhaseAuthenticated || snap.Identity.ID != "u-1001" {
		t.Fatalf("restored snapshot = %+v", snap)
	}

	if err := restarted.ChangePassword(ctx, "secret1", "Str0nger!"); err != nil {
		t.Fatalf("change password: %v", err)
	}
	if err := restarted.ChangePassword(ctx, "secret1", "EvenStr0nger!"); err == nil {
		t.Fatal("stale old password accepted")
	}
	if snap := restarted.Snapshot(); snap.Phase != authclient.PhaseAuthenticated {
		t.Fatalf("phase after rejected change = %v", snap.Phase)
	}

	if err := restarted.Logout(ctx); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := slot.Load(ctx); !errors.Is(err, vault.ErrNoCredential) {
		t.Fatalf("slot after logout: %v", err)
	}

	// The next start finds an empty slot again.
	cold := newLifecycleSession(t, server.URL, slot)
	if err := cold.Hydrate(ctx); err != nil {
		t.Fatalf("hydrate after logout: %v", err)
	}
	if snap := cold.Snapshot(); snap.Phase != authclient.PhaseUnauthenticated {
		t.Fatalf("phase = %v", snap.Phase)
	}
}

func TestLifecycleBackendOutage(t *testing.T) {
	backend := &fakeBackend{secret: "secret1", down: true}
	server := httptest.NewServer(backend.handler(t))
	t.Cleanup(server.Close)

	session := newLifecycleSession(t, server.URL, vault.NewMemory())
	err := session.Login(context.Background(), "ana@example.com", "secret1")
	if !errors.Is(err, authclient.ErrInvalidCredentials) && !errors.Is(err, authclient.ErrBackendUnavailable) {
		t.Fatalf("err = %v", err)
	}
	snap := session.Snapshot()
	if snap.Phase != authclient.PhaseFailed || snap.LastError == "" {
		t.Fatalf("snapshot = %+v", snap)
	}
}

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	cueerrors "github.com/tessro/cue/internal/errors"
	"golang.org/x/oauth2"
)

func newTestStorage(t *testing.T) *TokenStorage {
	t.Helper()
	storage, err := NewTokenStorage(filepath.Join(t.TempDir(), "token.json"))
	if err != nil {
		t.Fatalf("NewTokenStorage() error = %v", err)
	}
	return storage
}

func TestTokenSourceMissingToken(t *testing.T) {
	src := NewTokenSource(context.Background(), NewConfig("client"), newTestStorage(t))

	_, err := src.Token()
	if !errors.Is(err, cueerrors.ErrUnauthenticated) {
		t.Fatalf("Token() error = %v, want ErrUnauthenticated", err)
	}
}

func TestTokenSourceValidToken(t *testing.T) {
	storage := newTestStorage(t)
	if err := storage.Save(&oauth2.Token{
		AccessToken:  "still-good",
		RefreshToken: "refresh",
		Expiry:       time.Now().Add(time.Hour),
	}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	src := NewTokenSource(context.Background(), NewConfig("client"), storage)
	token, err := src.Token()
	if err != nil {
		t.Fatalf("Token() error = %v", err)
	}
	if token.AccessToken != "still-good" {
		t.Errorf("AccessToken = %q, want %q", token.AccessToken, "still-good")
	}
}

func TestTokenSourceRefreshPersists(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm() error = %v", err)
		}
		if got := r.Form.Get("grant_type"); got != "refresh_token" {
			t.Errorf("grant_type = %q, want refresh_token", got)
		}
		if got := r.Form.Get("client_id"); got != "client" {
			t.Errorf("client_id = %q, want client", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "fresh",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	}))
	defer server.Close()

	storage := newTestStorage(t)
	if err := storage.Save(&oauth2.Token{
		AccessToken:  "stale",
		RefreshToken: "refresh",
		Expiry:       time.Now().Add(-time.Hour),
	}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	cfg := NewConfig("client")
	cfg.Endpoint.TokenURL = server.URL

	src := NewTokenSource(context.Background(), cfg, storage)
	token, err := src.Token()
	if err != nil {
		t.Fatalf("Token() error = %v", err)
	}
	if token.AccessToken != "fresh" {
		t.Errorf("AccessToken = %q, want %q", token.AccessToken, "fresh")
	}

	saved, err := storage.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if saved.AccessToken != "fresh" {
		t.Errorf("saved AccessToken = %q, want %q", saved.AccessToken, "fresh")
	}
	if saved.RefreshToken != "refresh" {
		t.Errorf("saved RefreshToken = %q, want the original refresh token", saved.RefreshToken)
	}
}

func TestTokenSourceRefreshesAfterContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "after-shutdown",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	}))
	defer server.Close()

	storage := newTestStorage(t)
	if err := storage.Save(&oauth2.Token{
		AccessToken:  "expired",
		RefreshToken: "refresh",
		Expiry:       time.Now().Add(-time.Minute),
	}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	cfg := NewConfig("client")
	cfg.Endpoint.TokenURL = server.URL

	ctx, cancel := context.WithCancel(context.Background())
	src := NewTokenSource(ctx, cfg, storage)
	cancel()

	token, err := src.Token()
	if err != nil {
		t.Fatalf("Token() after cancel error = %v", err)
	}
	if token.AccessToken != "after-shutdown" {
		t.Errorf("AccessToken = %q, want %q", token.AccessToken, "after-shutdown")
	}
}

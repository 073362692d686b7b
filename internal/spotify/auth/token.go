package auth

import (
	"context"
	"fmt"
	"sync"

	cueerrors "github.com/tessro/cue/internal/errors"
	"golang.org/x/oauth2"
)

// TokenSource yields access tokens for API requests. It loads the stored
// token lazily, refreshes it through the OAuth endpoint when it expires and
// persists every refreshed token.
type TokenSource struct {
	config  *oauth2.Config
	storage *TokenStorage
	ctx     context.Context

	mu     sync.Mutex
	source oauth2.TokenSource
	last   string
}

// NewTokenSource creates a token source for the given client id. The context
// carries the HTTP client used for refresh requests (see oauth2.HTTPClient).
// Its cancellation is dropped: refreshes outlive the caller, and each API
// request is bounded by its own context.
func NewTokenSource(ctx context.Context, config *oauth2.Config, storage *TokenStorage) *TokenSource {
	return &TokenSource{
		config:  config,
		storage: storage,
		ctx:     context.WithoutCancel(ctx),
	}
}

// Token implements oauth2.TokenSource. Without a stored token every call
// fails with ErrUnauthenticated.
func (s *TokenSource) Token() (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.source == nil {
		stored, err := s.storage.Load()
		if err != nil {
			return nil, err
		}
		if stored == nil || (stored.AccessToken == "" && stored.RefreshToken == "") {
			return nil, cueerrors.ErrUnauthenticated
		}
		s.last = stored.AccessToken
		s.source = oauth2.ReuseTokenSource(stored, s.config.TokenSource(s.ctx, stored))
	}

	token, err := s.source.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: refresh failed: %w", cueerrors.ErrUnauthenticated, err)
	}

	if token.AccessToken != s.last {
		if token.RefreshToken == "" {
			stored, _ := s.storage.Load()
			if stored != nil {
				token.RefreshToken = stored.RefreshToken
			}
		}
		if err := s.storage.Save(token); err != nil {
			return nil, err
		}
		s.last = token.AccessToken
	}

	return token, nil
}

// Reset forgets the cached token so the next call reloads it from disk.
func (s *TokenSource) Reset() {
	s.mu.Lock()
	s.source = nil
	s.last = ""
	s.mu.Unlock()
}

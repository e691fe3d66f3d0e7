// Package auth caches the short-lived storage token and collapses concurrent
// refreshes into a single mint call.
package auth

import (
	"context"
	"sync"
	"time"

	"github.com/driveport/driveport/internal/constants"
	"github.com/driveport/driveport/internal/logging"
	"github.com/driveport/driveport/internal/models"
)

// Minter produces a fresh storage session token.
type Minter interface {
	MintToken(ctx context.Context) (*models.SessionToken, error)
}

// mint is one in-flight token request. Every waiter that arrives while it is
// outstanding shares its result.
type mint struct {
	done  chan struct{}
	token *models.SessionToken
	err   error
}

// TokenSource hands out storage tokens, reusing a cached one until it is
// within the expiry margin of going stale.
type TokenSource struct {
	minter Minter
	logger *logging.Logger

	mu      sync.Mutex
	cached  *models.SessionToken
	pending *mint

	// now is swappable for tests.
	now func() time.Time
}

// NewTokenSource creates a token source backed by the given minter.
func NewTokenSource(minter Minter, logger *logging.Logger) *TokenSource {
	return &TokenSource{
		minter: minter,
		logger: logger,
		now:    time.Now,
	}
}

// Token returns a storage token that is valid for at least the expiry margin.
// Concurrent callers during a refresh all wait on the same mint request.
func (s *TokenSource) Token(ctx context.Context) (string, error) {
	s.mu.Lock()

	if s.cached != nil && s.fresh(s.cached) {
		token := s.cached.Token
		s.mu.Unlock()
		return token, nil
	}

	if s.pending != nil {
		p := s.pending
		s.mu.Unlock()
		return s.wait(ctx, p)
	}

	p := &mint{done: make(chan struct{})}
	s.pending = p
	s.mu.Unlock()

	s.logger.Debug().Msg("Minting storage token")
	token, err := s.minter.MintToken(ctx)

	s.mu.Lock()
	s.pending = nil
	if err == nil {
		s.cached = token
	}
	s.mu.Unlock()

	p.token = token
	p.err = err
	close(p.done)

	if err != nil {
		return "", err
	}
	return token.Token, nil
}

// Invalidate drops the cached token so the next caller mints a fresh one.
// Called after the storage service rejects a token early.
func (s *TokenSource) Invalidate() {
	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()
}

func (s *TokenSource) fresh(token *models.SessionToken) bool {
	return s.now().Add(constants.TokenExpiryMargin).Before(token.ExpireAt)
}

func (s *TokenSource) wait(ctx context.Context, p *mint) (string, error) {
	select {
	case <-p.done:
		if p.err != nil {
			return "", p.err
		}
		return p.token.Token, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

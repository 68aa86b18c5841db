package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/rafamesquita/BlindStyle-TCC/internal/api"
)

// DefaultRefreshInterval matches the 5-minute token renewal cadence the API
// expects.
const DefaultRefreshInterval = 5 * time.Minute

// Session owns the authenticated-session lifecycle: login, logout, and the
// recurring background refresh that keeps the access token valid without
// user action. It is the only writer of the token store.
type Session struct {
	store           *Store
	client          *api.Client
	refreshInterval time.Duration

	mu         sync.Mutex
	cancelTick context.CancelFunc
}

// NewSession creates a session manager on top of the given token store and
// API client. client may be nil at construction and set afterwards with
// SetClient: the API client needs the session as its token source, so the
// two are wired in that order.
func NewSession(store *Store, client *api.Client) *Session {
	return &Session{
		store:           store,
		client:          client,
		refreshInterval: DefaultRefreshInterval,
	}
}

// SetClient wires the API client used for the login and refresh endpoints.
func (s *Session) SetClient(client *api.Client) {
	s.client = client
}

// SetRefreshInterval overrides the refresh cadence. Intended for tests.
func (s *Session) SetRefreshInterval(d time.Duration) {
	s.refreshInterval = d
}

// AccessToken returns the currently stored access token, or "" when no
// session exists. Implements api.TokenSource.
func (s *Session) AccessToken() string {
	access, _, err := s.store.Tokens()
	if err != nil {
		slog.Error("Failed to read stored tokens", "err", err)
		return ""
	}
	return access
}

// Login exchanges credentials for a token pair, persists it, and (re)starts
// the auto-refresh task. Any prior refresh task is cancelled first so at most
// one runs per session.
func (s *Session) Login(ctx context.Context, email, password string) error {
	tokens, err := s.client.Login(ctx, email, password)
	if err != nil {
		var apiErr *api.APIError
		if errors.As(err, &apiErr) && apiErr.Detail != "" {
			return fmt.Errorf("login failed: %s", apiErr.Detail)
		}
		return fmt.Errorf("login failed: %w", err)
	}

	if err := s.store.SetTokens(tokens.AccessToken, tokens.RefreshToken); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}

	if exp, ok := tokenExpiry(tokens.AccessToken); ok {
		slog.Info("Logged in", "token_expires", exp.Format(time.RFC3339))
	} else {
		slog.Info("Logged in")
	}

	s.StartAutoRefresh()
	return nil
}

// Logout clears all stored session data and cancels the refresh task. Safe
// to call when no session is active.
func (s *Session) Logout() error {
	s.stopAutoRefresh()
	if err := s.store.Clear(); err != nil {
		return err
	}
	slog.Info("Logged out")
	return nil
}

// Refresh renews the access token using the stored refresh token. A missing
// refresh token is a no-op; a failed renewal keeps the prior tokens so a
// still-valid access token is not thrown away.
func (s *Session) Refresh(ctx context.Context) error {
	_, refreshToken, err := s.store.Tokens()
	if err != nil {
		return err
	}
	if refreshToken == "" {
		return nil
	}

	access, err := s.client.RefreshToken(ctx, refreshToken)
	if err != nil {
		slog.Warn("Token refresh failed, keeping current tokens", "err", err)
		return nil
	}
	if access == "" {
		return nil
	}

	if err := s.store.SetAccessToken(access); err != nil {
		return fmt.Errorf("failed to persist refreshed token: %w", err)
	}
	slog.Debug("Access token refreshed")
	return nil
}

// StartAutoRefresh starts the recurring refresh task, cancelling any prior
// one. The task runs until Logout or a new Login replace it.
func (s *Session) StartAutoRefresh() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancelTick != nil {
		s.cancelTick()
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancelTick = cancel

	go func() {
		ticker := time.NewTicker(s.refreshInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := s.Refresh(ctx); err != nil {
					slog.Warn("Scheduled refresh failed", "err", err)
				}
			}
		}
	}()
}

// StopAutoRefresh cancels the refresh task without touching the stored
// tokens. Safe to call when no task is running.
func (s *Session) StopAutoRefresh() {
	s.stopAutoRefresh()
}

func (s *Session) stopAutoRefresh() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancelTick != nil {
		s.cancelTick()
		s.cancelTick = nil
	}
}

// tokenExpiry peeks at the expiry claim of a JWT access token without
// verifying its signature. The client has no signing key; this is for
// logging only.
func tokenExpiry(token string) (time.Time, bool) {
	claims := jwt.RegisteredClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

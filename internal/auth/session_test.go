package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rafamesquita/BlindStyle-TCC/internal/api"
	"github.com/rafamesquita/BlindStyle-TCC/internal/auth"
)

// authServer fakes the login and refresh endpoints and counts refresh calls.
type authServer struct {
	*httptest.Server
	refreshCalls atomic.Int64
}

func newAuthServer(t *testing.T) *authServer {
	t.Helper()
	s := &authServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/users/login":
			_ = json.NewEncoder(w).Encode(map[string]string{
				"access_token":  "access-1",
				"refresh_token": "refresh-1",
			})
		case "/api/v1/users/refresh_token":
			var payload map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			require.Equal(t, "refresh-1", payload["refresh_token"])
			s.refreshCalls.Add(1)
			_ = json.NewEncoder(w).Encode(map[string]string{"access_token": "access-2"})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(s.Close)
	return s
}

func newTestSession(t *testing.T, baseURL string) (*auth.Session, *auth.Store) {
	t.Helper()
	store := auth.NewStore(filepath.Join(t.TempDir(), "tokens.json"))
	session := auth.NewSession(store, nil)
	session.SetClient(api.NewClient(baseURL, session))
	return session, store
}

func TestLoginStoresTokensAndSchedulesRefresh(t *testing.T) {
	server := newAuthServer(t)
	session, store := newTestSession(t, server.URL)
	session.SetRefreshInterval(200 * time.Millisecond)
	defer func() { require.NoError(t, session.Logout()) }()

	require.NoError(t, session.Login(context.Background(), "maria@example.com", "secret"))

	access, refresh, err := store.Tokens()
	require.NoError(t, err)
	assert.Equal(t, "access-1", access)
	assert.Equal(t, "refresh-1", refresh)

	// One interval passes: exactly one refresh call, access token renewed,
	// refresh token untouched.
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, int64(1), server.refreshCalls.Load())

	access, refresh, err = store.Tokens()
	require.NoError(t, err)
	assert.Equal(t, "access-2", access)
	assert.Equal(t, "refresh-1", refresh)
}

func TestLogoutStopsRefreshTask(t *testing.T) {
	server := newAuthServer(t)
	session, store := newTestSession(t, server.URL)
	session.SetRefreshInterval(100 * time.Millisecond)

	require.NoError(t, session.Login(context.Background(), "maria@example.com", "secret"))
	require.NoError(t, session.Logout())

	calls := server.refreshCalls.Load()
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, calls, server.refreshCalls.Load(), "refresh task must not fire after logout")

	access, refresh, err := store.Tokens()
	require.NoError(t, err)
	assert.Empty(t, access)
	assert.Empty(t, refresh)
}

func TestLogoutWithoutSessionIsIdempotent(t *testing.T) {
	server := newAuthServer(t)
	session, _ := newTestSession(t, server.URL)

	require.NoError(t, session.Logout())
	require.NoError(t, session.Logout())
}

func TestRefreshWithoutStoredTokenIsNoop(t *testing.T) {
	server := newAuthServer(t)
	session, _ := newTestSession(t, server.URL)

	require.NoError(t, session.Refresh(context.Background()))
	assert.Equal(t, int64(0), server.refreshCalls.Load())
}

func TestRefreshFailureKeepsPriorTokens(t *testing.T) {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/v1/users/refresh_token" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"detail": "token expirado"})
			return
		}
		http.NotFound(w, r)
	}))
	defer failing.Close()

	session, store := newTestSession(t, failing.URL)
	require.NoError(t, store.SetTokens("access-1", "refresh-1"))

	// Tolerated failure: no error, tokens unchanged, no forced logout.
	require.NoError(t, session.Refresh(context.Background()))

	access, refresh, err := store.Tokens()
	require.NoError(t, err)
	assert.Equal(t, "access-1", access)
	assert.Equal(t, "refresh-1", refresh)
}

func TestLoginFailureSurfacesServerDetail(t *testing.T) {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Credenciais inválidas"})
	}))
	defer failing.Close()

	session, store := newTestSession(t, failing.URL)

	err := session.Login(context.Background(), "maria@example.com", "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Credenciais inválidas")

	access, _, err := store.Tokens()
	require.NoError(t, err)
	assert.Empty(t, access)
}

func TestNewLoginRestartsRefreshTask(t *testing.T) {
	server := newAuthServer(t)
	session, _ := newTestSession(t, server.URL)
	session.SetRefreshInterval(150 * time.Millisecond)
	defer func() { require.NoError(t, session.Logout()) }()

	require.NoError(t, session.Login(context.Background(), "maria@example.com", "secret"))
	require.NoError(t, session.Login(context.Background(), "maria@example.com", "secret"))

	// Two logins must not leave two tickers behind: after one interval the
	// single surviving task has fired once.
	time.Sleep(225 * time.Millisecond)
	assert.Equal(t, int64(1), server.refreshCalls.Load())
}

package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Token storage keys, kept stable so other tooling can read the file.
const (
	accessTokenKey  = "access_token"
	refreshTokenKey = "refresh_token"
)

// Store persists the current access/refresh token pair to a JSON file.
// It is pure storage: no network calls, no refresh logic.
type Store struct {
	path string
	mu   sync.RWMutex
}

// NewStore creates a token store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Tokens returns the stored access and refresh tokens. Missing file or
// missing keys yield empty strings, not an error.
func (s *Store) Tokens() (access, refresh string, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tokens, err := s.read()
	if err != nil {
		return "", "", err
	}
	return tokens[accessTokenKey], tokens[refreshTokenKey], nil
}

// SetTokens stores both tokens, replacing whatever was there before.
func (s *Store) SetTokens(access, refresh string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.write(map[string]string{
		accessTokenKey:  access,
		refreshTokenKey: refresh,
	})
}

// SetAccessToken overwrites only the access token, leaving the refresh token
// untouched.
func (s *Store) SetAccessToken(access string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tokens, err := s.read()
	if err != nil {
		return err
	}
	tokens[accessTokenKey] = access
	return s.write(tokens)
}

// Clear removes all stored session data. Clearing a store that holds nothing
// is not an error.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear token file: %w", err)
	}
	return nil
}

func (s *Store) read() (map[string]string, error) {
	tokens := make(map[string]string)

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return tokens, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}

	if err := json.Unmarshal(data, &tokens); err != nil {
		return nil, fmt.Errorf("failed to parse token file: %w", err)
	}
	return tokens, nil
}

func (s *Store) write(tokens map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	data, err := json.Marshal(tokens)
	if err != nil {
		return fmt.Errorf("failed to encode tokens: %w", err)
	}

	// Tokens are credentials, keep the file private to the user.
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"restaurant-pos/internal/models"
)

// Store holds the process-wide credentials: the bearer token and the cached
// user record. Login and the gateway's 401 handler are the only writers.
type Store interface {
	Token() string
	User() (models.User, bool)
	Set(token string, user models.User) error
	Clear() error
}

// IsAuthenticated is a pure presence check. An expired token still reads as
// authenticated until the backend answers 401.
func IsAuthenticated(s Store) bool {
	return s.Token() != ""
}

// state mirrors the storage keys the browser client kept in localStorage.
type state struct {
	Token string       `json:"pos_token,omitempty"`
	User  *models.User `json:"pos_user,omitempty"`
}

type FileStore struct {
	path string

	mu sync.Mutex
	st state
}

func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("session: resolve config dir: %w", err)
	}
	return filepath.Join(dir, "restaurant-pos", "session.json"), nil
}

func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	s := &FileStore{path: path}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("session: read %s: %w", path, err)
	}

	if err := json.Unmarshal(data, &s.st); err != nil {
		// A corrupt state file means logging in again, not a dead client.
		s.st = state{}
	}
	return s, nil
}

func (s *FileStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.Token
}

func (s *FileStore) User() (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.st.User == nil {
		return models.User{}, false
	}
	return *s.st.User, true
}

func (s *FileStore) Set(token string, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st = state{Token: token, User: &user}
	return s.flush()
}

func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st = state{}
	return s.flush()
}

func (s *FileStore) flush() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("session: mkdir: %w", err)
	}
	data, err := json.MarshalIndent(s.st, "", "  ")
	if err != nil {
		return fmt.Errorf("session: marshal: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("session: write %s: %w", s.path, err)
	}
	return nil
}

// MemStore keeps the session in memory only, for tests and throwaway runs.
type MemStore struct {
	mu sync.Mutex
	st state
}

func (s *MemStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.Token
}

func (s *MemStore) User() (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.st.User == nil {
		return models.User{}, false
	}
	return *s.st.User, true
}

func (s *MemStore) Set(token string, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st = state{Token: token, User: &user}
	return nil
}

func (s *MemStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st = state{}
	return nil
}

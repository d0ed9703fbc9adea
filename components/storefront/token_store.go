package storefront

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// TokenStore persists the access token between sessions. The token is the
// only durable client-side state.
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// tokenKey is the single storage key the token lives under.
const tokenKey = "token"

// FileTokenStore keeps the token in a small JSON document on disk.
type FileTokenStore struct {
	path string
}

// NewFileTokenStore builds a store writing to the given path.
func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{path: path}
}

// Load reads the persisted token. A missing file means no token, not an
// error.
func (s *FileTokenStore) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("storefront: read token store: %w", err)
	}
	var payload map[string]string
	if err := json.Unmarshal(data, &payload); err != nil {
		return "", fmt.Errorf("storefront: parse token store: %w", err)
	}
	return payload[tokenKey], nil
}

// Save writes the token, creating parent directories as needed.
func (s *FileTokenStore) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("storefront: prepare token dir: %w", err)
	}
	data, err := json.Marshal(map[string]string{tokenKey: token})
	if err != nil {
		return fmt.Errorf("storefront: encode token: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("storefront: write token store: %w", err)
	}
	return nil
}

// Clear removes the persisted token.
func (s *FileTokenStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("storefront: clear token store: %w", err)
	}
	return nil
}

// MemoryTokenStore is an in-process store used by tests and the demo.
type MemoryTokenStore struct {
	mu    sync.Mutex
	token string
}

// NewMemoryTokenStore builds an empty in-memory store.
func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{}
}

func (s *MemoryTokenStore) Load() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

func (s *MemoryTokenStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemoryTokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}

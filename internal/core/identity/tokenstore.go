package identity

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// TokenStore persists the raw credential between runs.
type TokenStore interface {
	// Load returns the stored token, or "" when none is stored.
	Load() (string, error)

	// Save stores the token.
	Save(token string) error

	// Clear removes the stored token.
	Clear() error
}

// FileTokenStore keeps the token in a single file, the local-storage
// analog of the browser storefront.
type FileTokenStore struct {
	path string
}

// NewFileTokenStore creates a store writing to path.
func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{path: path}
}

// Load reads the stored token.
func (s *FileTokenStore) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read token file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Save writes the token with owner-only permissions.
func (s *FileTokenStore) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create token dir: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(token), 0o600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

// Clear deletes the token file.
func (s *FileTokenStore) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove token file: %w", err)
	}
	return nil
}

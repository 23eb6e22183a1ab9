package client

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// CredentialStore keeps the access token on disk between runs. An absent
// token file means signed out; a stale token is cleared on the first 401.
type CredentialStore struct {
	path string
}

// NewCredentialStore creates a store rooted at dir. An empty dir places the
// token under the user config directory.
func NewCredentialStore(dir string) (*CredentialStore, error) {
	if dir == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return nil, errors.Wrap(err, "resolve config dir")
		}
		dir = filepath.Join(configDir, "askdesk")
	}
	return &CredentialStore{path: filepath.Join(dir, "token")}, nil
}

// Load returns the saved token, or "" when no credential exists.
func (s *CredentialStore) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrap(err, "read token")
	}
	return strings.TrimSpace(string(data)), nil
}

// Save writes the token, creating the directory when needed.
func (s *CredentialStore) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return errors.Wrap(err, "create config dir")
	}
	return os.WriteFile(s.path, []byte(token), 0o600)
}

// Clear removes the saved token. Clearing an absent token is not an error.
func (s *CredentialStore) Clear() error {
	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/keyring"
	"github.com/julianstephens/habitual/internal/storage/postgres"
	"github.com/julianstephens/habitual/internal/storage/sqlite"
)

// KeyringTarget selects the PostgreSQL connection string stored in the OS keyring
const KeyringTarget = "keyring"

var (
	_ Provider = (*JSONStore)(nil)
	_ Provider = (*sqlite.Store)(nil)
	_ Provider = (*postgres.Store)(nil)
)

// ResolveTarget expands the --config value into a concrete path or connection string.
// HABITUAL_DB_CONNECTION takes precedence, then the keyring when target is "keyring".
// Connection strings given on the command line must not embed a password.
func ResolveTarget(target string) (string, error) {
	if connStr := strings.TrimSpace(os.Getenv(constants.EnvDBConnection)); connStr != "" {
		return connStr, nil
	}

	if target == KeyringTarget {
		connStr, err := keyring.GetConnectionString()
		if err != nil {
			if errors.Is(err, keyring.ErrNotFound) {
				return "", fmt.Errorf("no connection string found in keyring, use 'habitual keyring set' to store one")
			}
			return "", err
		}
		return connStr, nil
	}

	if postgres.IsConnString(target) {
		if _, err := postgres.ValidateConnString(target); err != nil {
			return "", err
		}
		return target, nil
	}

	return ExpandPath(target)
}

// New returns the Provider for a resolved target: PostgreSQL for connection
// strings, a JSON file for *.json paths and SQLite otherwise.
func New(target string) Provider {
	switch {
	case postgres.IsConnString(target):
		return postgres.New(target)
	case strings.EqualFold(filepath.Ext(target), ".json"):
		return NewJSONStore(target)
	default:
		return sqlite.NewStore(target)
	}
}

// Open resolves target and returns its Provider without loading it.
func Open(target string) (Provider, error) {
	resolved, err := ResolveTarget(target)
	if err != nil {
		return nil, err
	}
	return New(resolved), nil
}

// ExpandPath replaces a leading ~ with the user's home directory.
func ExpandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home directory: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}
	return path, nil
}

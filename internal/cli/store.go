package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianstephens/habitkit/internal/constants"
	"github.com/julianstephens/habitkit/internal/keyring"
	"github.com/julianstephens/habitkit/internal/logger"
	"github.com/julianstephens/habitkit/internal/storage"
	"github.com/julianstephens/habitkit/internal/storage/postgres"
	"github.com/julianstephens/habitkit/internal/storage/sqlite"
)

// lookupEnv and keyringLookup are swapped in tests.
var (
	lookupEnv     = os.LookupEnv
	keyringLookup = keyring.GetConnectionString
)

// ResolveTarget picks the store location. An explicit --config wins; otherwise
// a connection string from the environment or the OS keyring, then the default path.
func ResolveTarget(config string) string {
	if config != "" {
		return expandHome(config)
	}
	if v, ok := lookupEnv(constants.EnvDBConnection); ok && strings.TrimSpace(v) != "" {
		logger.Debug("Using connection string from environment")
		return v
	}
	connStr, err := keyringLookup()
	switch {
	case err == nil && connStr != "":
		logger.Debug("Using connection string from OS keyring")
		return connStr
	case err != nil && !errors.Is(err, keyring.ErrNotFound):
		logger.Debug("OS keyring lookup failed", "error", err)
	}
	return expandHome(constants.DefaultConfigPath)
}

// IsPostgresTarget reports whether target is a URL or key=value DSN rather than a path.
func IsPostgresTarget(target string) bool {
	if postgres.IsConnString(target) {
		return true
	}
	return strings.Contains(target, "host=") || strings.Contains(target, "dbname=")
}

// OpenStore builds the backend for target without opening it.
func OpenStore(target string) (storage.Provider, error) {
	switch {
	case target == ":memory:":
		return storage.NewMemoryStore(), nil
	case IsPostgresTarget(target):
		if err := postgres.ValidateConnString(target); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, fmt.Errorf("%w; store the password in %s, ~/.pgpass or the OS keyring ('%s keyring set')",
					err, constants.EnvDBConnection, constants.AppName)
			}
			return nil, err
		}
		return postgres.New(target), nil
	case strings.EqualFold(filepath.Ext(target), ".json"):
		return storage.NewJSONStore(target), nil
	default:
		return sqlite.NewStore(target), nil
	}
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		logger.Warn("Cannot resolve home directory", "error", err)
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// ConfigDir is where logs, backups and the lock live for target.
func ConfigDir(target string) string {
	if target == ":memory:" || IsPostgresTarget(target) {
		return filepath.Dir(expandHome(constants.DefaultConfigPath))
	}
	return filepath.Dir(target)
}

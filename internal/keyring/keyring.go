package keyring

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/habitkit/internal/constants"
)

var (
	// ErrNotFound is returned when no connection string is stored
	ErrNotFound = errors.New("credentials not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring cannot be reached
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// Entry addresses one secret in the OS keyring.
type Entry struct {
	Service string
	Account string
}

// Default is the entry holding the PostgreSQL connection string.
func Default() Entry {
	return Entry{Service: constants.AppName, Account: constants.DefaultKeyringUser}
}

func (e Entry) Get() (string, error) {
	secret, err := keyring.Get(e.Service, e.Account)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return secret, nil
}

func (e Entry) Set(secret string) error {
	if secret == "" {
		return errors.New("connection string cannot be empty")
	}
	if err := keyring.Set(e.Service, e.Account, secret); err != nil {
		return fmt.Errorf("failed to store credentials in keyring: %w", err)
	}
	return nil
}

func (e Entry) Delete() error {
	err := keyring.Delete(e.Service, e.Account)
	if errors.Is(err, keyring.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete credentials from keyring: %w", err)
	}
	return nil
}

// Available probes the keyring with a read; a missing item still counts as reachable.
func (e Entry) Available() bool {
	_, err := keyring.Get(e.Service, "availability-probe")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}

// GetConnectionString reads the stored PostgreSQL connection string.
func GetConnectionString() (string, error) {
	return Default().Get()
}

func SetConnectionString(connStr string) error {
	return Default().Set(connStr)
}

func DeleteConnectionString() error {
	return Default().Delete()
}

func IsAvailable() bool {
	return Default().Available()
}

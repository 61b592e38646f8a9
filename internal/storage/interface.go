package storage

import (
	"errors"
	"fmt"
)

var (
	// ErrKeyNotFound is returned by Get when nothing is stored under a key
	ErrKeyNotFound = errors.New("key not found")
	// ErrNotLoaded is returned when a store is used before Init or Load
	ErrNotLoaded = errors.New("storage not loaded")
	// ErrNotInitialized is returned by Load when the backing store does not exist yet
	ErrNotInitialized = errors.New("storage not initialized, run 'habitkit init' first")
)

// Provider is a key-value store of JSON blobs.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Blobs
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
	Delete(key string) error

	// Utils
	GetConfigPath() string
}

// Entry is one key and its JSON blob.
type Entry struct {
	Key   string
	Value []byte
}

// BatchWriter is implemented by stores that can write several keys so that
// either all of them land or none do.
type BatchWriter interface {
	PutBatch(entries []Entry) error
}

// PutAll writes entries through PutBatch when p supports it and falls back to
// one Put per entry otherwise.
func PutAll(p Provider, entries []Entry) error {
	if bw, ok := p.(BatchWriter); ok {
		return bw.PutBatch(entries)
	}
	for _, e := range entries {
		if err := p.Put(e.Key, e.Value); err != nil {
			return fmt.Errorf("failed to write %s: %w", e.Key, err)
		}
	}
	return nil
}

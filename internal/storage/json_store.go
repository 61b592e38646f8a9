package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

type Document struct {
	Version int                        `json:"version"`
	Entries map[string]json.RawMessage `json:"entries"`
}

type JSONStore struct {
	path string
	doc  *Document
}

func NewJSONStore(configPath string) *JSONStore {
	return &JSONStore{
		path: configPath,
	}
}

func (s *JSONStore) Init() error {
	// Create config directory if it doesn't exist
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("storage already initialized at %s", s.path)
	}

	s.doc = &Document{
		Version: 1,
		Entries: make(map[string]json.RawMessage),
	}

	return s.save()
}

func (s *JSONStore) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotInitialized
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	s.doc = &Document{}
	if err := json.Unmarshal(data, s.doc); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}

	if s.doc.Entries == nil {
		s.doc.Entries = make(map[string]json.RawMessage)
	}

	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	// Write a sibling file and rename it over the document
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}

	return nil
}

func (s *JSONStore) Get(key string) ([]byte, error) {
	if s.doc == nil {
		return nil, ErrNotLoaded
	}

	raw, ok := s.doc.Entries[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}

	return append([]byte(nil), raw...), nil
}

// Put stores value as-is inside the document, so it must be valid JSON.
func (s *JSONStore) Put(key string, value []byte) error {
	if s.doc == nil {
		return ErrNotLoaded
	}

	if !json.Valid(value) {
		return fmt.Errorf("value for %s is not valid JSON", key)
	}

	s.doc.Entries[key] = json.RawMessage(append([]byte(nil), value...))
	return s.save()
}

// PutBatch sets every entry and saves the document once. On a failed save the
// in-memory document is put back the way it was.
func (s *JSONStore) PutBatch(entries []Entry) error {
	if s.doc == nil {
		return ErrNotLoaded
	}

	for _, e := range entries {
		if !json.Valid(e.Value) {
			return fmt.Errorf("value for %s is not valid JSON", e.Key)
		}
	}

	prev := make(map[string]json.RawMessage, len(entries))
	for _, e := range entries {
		if _, seen := prev[e.Key]; !seen {
			prev[e.Key] = s.doc.Entries[e.Key]
		}
		s.doc.Entries[e.Key] = json.RawMessage(append([]byte(nil), e.Value...))
	}

	if err := s.save(); err != nil {
		for k, v := range prev {
			if v == nil {
				delete(s.doc.Entries, k)
			} else {
				s.doc.Entries[k] = v
			}
		}
		return err
	}
	return nil
}

func (s *JSONStore) Delete(key string) error {
	if s.doc == nil {
		return ErrNotLoaded
	}

	if _, ok := s.doc.Entries[key]; !ok {
		return nil
	}

	delete(s.doc.Entries, key)
	return s.save()
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}

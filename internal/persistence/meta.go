package persistence

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"toolsmith/internal/paths"
)

// Record is the metadata for one tool, keyed by name. The metadata
// document, not the artifact store, decides whether a tool is visible to
// the registry.
type Record struct {
	Name            string         `json:"name"`
	Description     string         `json:"description"`
	ParameterSchema map[string]any `json:"parameterSchema,omitempty"`
	Version         int            `json:"version"`
	Revision        string         `json:"revision"`
	Enabled         bool           `json:"enabled"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
	Uses            int            `json:"uses"`
	Successes       int            `json:"successes"`
}

// MetaStore is a durable name → Record mapping backed by a single JSON
// document. Every update is a whole-document read-modify-write serialized
// by one mutex; last writer wins.
type MetaStore struct {
	path string
	mu   sync.Mutex
}

// NewMetaStore returns a store backed by the document at path. The
// document is created on first write.
func NewMetaStore(path string) *MetaStore {
	return &MetaStore{path: path}
}

// OpenDefaultMetaStore returns the store at the conventional location
// inside the toolsmith directory.
func OpenDefaultMetaStore() (*MetaStore, error) {
	path, err := paths.GetMetaPath()
	if err != nil {
		return nil, err
	}
	return NewMetaStore(path), nil
}

func (s *MetaStore) read() (map[string]Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]Record{}, nil
		}
		return nil, fmt.Errorf("failed to read metadata document: %w", err)
	}

	records := map[string]Record{}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse metadata document: %w", err)
	}
	return records, nil
}

func (s *MetaStore) write(records map[string]Record) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal metadata document: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write metadata document: %w", err)
	}
	return nil
}

// Upsert creates or replaces the record for rec.Name and returns the
// stored form. Creation timestamps and usage counters survive an update;
// the version is bumped and a fresh revision id is assigned on every call.
func (s *MetaStore) Upsert(rec Record) (Record, error) {
	if err := validateToolName(rec.Name); err != nil {
		return Record{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.read()
	if err != nil {
		return Record{}, err
	}

	now := time.Now().UTC()
	if prev, ok := records[rec.Name]; ok {
		rec.CreatedAt = prev.CreatedAt
		rec.Uses = prev.Uses
		rec.Successes = prev.Successes
		rec.Version = prev.Version + 1
	} else {
		rec.CreatedAt = now
		rec.Version = 1
	}
	rec.UpdatedAt = now
	rec.Revision = uuid.NewString()

	records[rec.Name] = rec
	if err := s.write(records); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// Remove deletes the record for name. Removing a missing record is an
// error so that partial retirement is never mistaken for success.
func (s *MetaStore) Remove(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.read()
	if err != nil {
		return err
	}
	if _, ok := records[name]; !ok {
		return fmt.Errorf("no metadata record for tool '%s'", name)
	}
	delete(records, name)
	return s.write(records)
}

// Get returns the record for name, with ok=false when none exists.
func (s *MetaStore) Get(name string) (Record, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.read()
	if err != nil {
		return Record{}, false, err
	}
	rec, ok := records[name]
	return rec, ok, nil
}

// List returns all records sorted by name.
func (s *MetaStore) List() ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.read()
	if err != nil {
		return nil, err
	}
	out := make([]Record, 0, len(records))
	for _, rec := range records {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// SetEnabled flips a tool's visibility without touching its artifact.
func (s *MetaStore) SetEnabled(name string, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.read()
	if err != nil {
		return err
	}
	rec, ok := records[name]
	if !ok {
		return fmt.Errorf("no metadata record for tool '%s'", name)
	}
	rec.Enabled = enabled
	rec.UpdatedAt = time.Now().UTC()
	records[name] = rec
	return s.write(records)
}

// MarkUse records the outcome of one invocation in the usage counters.
func (s *MetaStore) MarkUse(name string, ok bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.read()
	if err != nil {
		return err
	}
	rec, found := records[name]
	if !found {
		return nil // tool retired between lookup and bookkeeping
	}
	rec.Uses++
	if ok {
		rec.Successes++
	}
	records[name] = rec
	return s.write(records)
}

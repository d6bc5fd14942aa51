// Package registry holds the in-memory set of currently callable dynamic
// tools, rebuilt from the artifact store and metadata document by LoadAll.
package registry

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"toolsmith/internal/persistence"
	"toolsmith/internal/policy"
	"toolsmith/internal/starlark"
)

// ErrUnknownTool is returned by Invoke for a name with no registry entry.
var ErrUnknownTool = errors.New("unknown tool")

// InvokeError wraps a fault raised by a tool body itself, as opposed to a
// registry-level failure.
type InvokeError struct {
	Tool  string
	Cause error
}

func (e *InvokeError) Error() string {
	return fmt.Sprintf("tool '%s' failed: %v", e.Tool, e.Cause)
}

func (e *InvokeError) Unwrap() error { return e.Cause }

// Entry is one callable tool. Entries live only in memory and are
// immutable once installed, so concurrent invocations need no locking
// beyond the registry's entry map.
type Entry struct {
	Name            string
	Description     string
	ParameterSchema map[string]any
	Revision        string
	IsDynamic       bool
	LoadedAt        time.Time

	tool *starlark.Tool
}

// LoadFailure records one artifact that could not be turned into an entry.
type LoadFailure struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// LoadReport summarizes one LoadAll pass. Per-artifact failures are
// collected here and never abort the pass.
type LoadReport struct {
	Loaded   []string            `json:"loaded,omitempty"`
	Disabled []string            `json:"disabled,omitempty"`
	Failures []LoadFailure       `json:"failures,omitempty"`
	Orphans  persistence.Orphans `json:"orphans,omitempty"`
}

// Registry is the process-wide set of loaded dynamic tools. It is
// constructed explicitly and passed by reference to whatever needs
// invocation access; it is not an ambient singleton.
type Registry struct {
	meta *persistence.MetaStore

	mu      sync.RWMutex
	entries map[string]*Entry
}

// New returns an empty registry over the given metadata store. Call
// LoadAll to populate it.
func New(meta *persistence.MetaStore) *Registry {
	return &Registry{meta: meta, entries: map[string]*Entry{}}
}

// LoadAll rebuilds the registry from every persisted artifact that has an
// enabled metadata record and a valid dynamic-tool tag. It is a full
// rebuild rather than an incremental merge, and may be called again at any
// time to pick up newly accepted tools. Artifacts that fail to compile,
// carry no tag, or lack metadata are skipped and reported, never fatal.
func (r *Registry) LoadAll() (*LoadReport, error) {
	report := &LoadReport{}

	names, err := persistence.ListArtifacts()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate tool artifacts: %w", err)
	}
	recordList, err := r.meta.List()
	if err != nil {
		return nil, fmt.Errorf("failed to read tool metadata: %w", err)
	}
	records := make(map[string]persistence.Record, len(recordList))
	for _, rec := range recordList {
		records[rec.Name] = rec
	}

	artifacts := make(map[string]bool, len(names))
	entries := make(map[string]*Entry, len(names))
	now := time.Now().UTC()

	for _, name := range names {
		artifacts[name] = true

		rec, ok := records[name]
		if !ok {
			// Orphan artifact: no metadata record, never promoted
			report.Orphans.ArtifactOnly = append(report.Orphans.ArtifactOnly, name)
			continue
		}
		if !rec.Enabled {
			report.Disabled = append(report.Disabled, name)
			continue
		}

		source, err := persistence.LoadArtifact(name)
		if err != nil {
			report.Failures = append(report.Failures, LoadFailure{Name: name, Reason: err.Error()})
			continue
		}

		// Defense in depth: only validation attaches the tag, so an
		// artifact without it reached the store some other way
		tagged, ok := policy.TaggedName(source)
		if !ok {
			log.Printf("Warning: artifact '%s' is missing the dynamic-tool tag, skipping", name)
			report.Failures = append(report.Failures, LoadFailure{Name: name, Reason: "missing dynamic-tool tag"})
			continue
		}
		if tagged != name {
			log.Printf("Warning: artifact '%s' is tagged for '%s', skipping", name, tagged)
			report.Failures = append(report.Failures, LoadFailure{Name: name, Reason: "dynamic-tool tag names a different tool"})
			continue
		}

		tool, err := starlark.Compile(name, source)
		if err != nil {
			report.Failures = append(report.Failures, LoadFailure{Name: name, Reason: err.Error()})
			continue
		}

		entries[name] = &Entry{
			Name:            name,
			Description:     rec.Description,
			ParameterSchema: rec.ParameterSchema,
			Revision:        rec.Revision,
			IsDynamic:       true,
			LoadedAt:        now,
			tool:            tool,
		}
		report.Loaded = append(report.Loaded, name)
	}

	for _, rec := range recordList {
		if !artifacts[rec.Name] {
			report.Orphans.MetadataOnly = append(report.Orphans.MetadataOnly, rec.Name)
		}
	}
	sort.Strings(report.Orphans.MetadataOnly)
	sort.Strings(report.Orphans.ArtifactOnly)

	r.mu.Lock()
	r.entries = entries
	r.mu.Unlock()

	return report, nil
}

// Lookup returns the entry for name, if one is loaded.
func (r *Registry) Lookup(name string) (*Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.entries[name]
	return entry, ok
}

// Names returns the names of all loaded entries, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Invoke calls the named tool with the supplied arguments. A missing entry
// yields ErrUnknownTool; a fault inside the tool body yields *InvokeError
// and never disturbs other entries or concurrent invocations.
func (r *Registry) Invoke(name string, args map[string]any) (any, error) {
	entry, ok := r.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: '%s'", ErrUnknownTool, name)
	}

	result, err := entry.tool.Call(args)
	if err != nil {
		return nil, &InvokeError{Tool: name, Cause: err}
	}
	return result, nil
}

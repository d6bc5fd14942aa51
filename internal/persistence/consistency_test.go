package persistence

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestScanConsistent(t *testing.T) {
	t.Setenv("TOOLSMITH_DIR", t.TempDir())
	store := NewMetaStore(filepath.Join(t.TempDir(), "tools_meta.json"))

	if err := SaveArtifact("f", "def f():\n    return 1\n"); err != nil {
		t.Fatalf("SaveArtifact() error = %v", err)
	}
	if _, err := store.Upsert(Record{Name: "f", Enabled: true}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	orphans, err := Scan(store)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if !orphans.Empty() {
		t.Errorf("Scan() = %+v, want no orphans", orphans)
	}
}

func TestScanReportsOrphans(t *testing.T) {
	t.Setenv("TOOLSMITH_DIR", t.TempDir())
	store := NewMetaStore(filepath.Join(t.TempDir(), "tools_meta.json"))

	// Consistent pair
	if err := SaveArtifact("paired", "def paired():\n    return 1\n"); err != nil {
		t.Fatalf("SaveArtifact() error = %v", err)
	}
	if _, err := store.Upsert(Record{Name: "paired", Enabled: true}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	// Metadata record whose artifact was deleted out-of-band
	if _, err := store.Upsert(Record{Name: "meta_only", Enabled: true}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	// Artifact placed in the store without a metadata record
	if err := SaveArtifact("artifact_only", "def artifact_only():\n    return 1\n"); err != nil {
		t.Fatalf("SaveArtifact() error = %v", err)
	}

	orphans, err := Scan(store)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	want := Orphans{
		MetadataOnly: []string{"meta_only"},
		ArtifactOnly: []string{"artifact_only"},
	}
	if diff := cmp.Diff(want, orphans); diff != "" {
		t.Errorf("Scan() mismatch (-want +got):\n%s", diff)
	}
}

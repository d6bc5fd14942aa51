package persistence

import "sort"

// Orphans lists names present in exactly one of the artifact store and the
// metadata document. An orphan is reported, never silently repaired or
// promoted into a registry entry.
type Orphans struct {
	// MetadataOnly names have a metadata record but no artifact.
	MetadataOnly []string `json:"metadataOnly,omitempty"`
	// ArtifactOnly names have an artifact but no metadata record.
	ArtifactOnly []string `json:"artifactOnly,omitempty"`
}

// Empty reports whether the scan found no orphans.
func (o Orphans) Empty() bool {
	return len(o.MetadataOnly) == 0 && len(o.ArtifactOnly) == 0
}

// Scan cross-checks the artifact store against the metadata document and
// reports every name present on only one side.
func Scan(meta *MetaStore) (Orphans, error) {
	var orphans Orphans

	artifactNames, err := ListArtifacts()
	if err != nil {
		return orphans, err
	}
	records, err := meta.List()
	if err != nil {
		return orphans, err
	}

	artifacts := make(map[string]bool, len(artifactNames))
	for _, name := range artifactNames {
		artifacts[name] = true
	}
	recorded := make(map[string]bool, len(records))
	for _, rec := range records {
		recorded[rec.Name] = true
		if !artifacts[rec.Name] {
			orphans.MetadataOnly = append(orphans.MetadataOnly, rec.Name)
		}
	}
	for _, name := range artifactNames {
		if !recorded[name] {
			orphans.ArtifactOnly = append(orphans.ArtifactOnly, name)
		}
	}

	sort.Strings(orphans.MetadataOnly)
	sort.Strings(orphans.ArtifactOnly)
	return orphans, nil
}

package persistence

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"toolsmith/internal/paths"
)

const (
	artifactPrefix = "tool_"
	artifactExt    = ".star"
)

// reservedNames are the built-in tool names exposed by the server itself.
// A dynamic tool may never shadow one of them.
var reservedNames = map[string]bool{
	"propose_tool": true,
	"preview_tool": true,
	"list_tools":   true,
	"show_tool":    true,
	"retire_tool":  true,
	"enable_tool":  true,
	"disable_tool": true,
	"reload_tools": true,
	"check_tools":  true,
}

// Reserved reports whether name collides with a built-in tool name.
func Reserved(name string) bool {
	return reservedNames[name]
}

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// validateToolName ensures the name is a valid identifier, short enough
// for filesystem use, and not a reserved built-in name.
func validateToolName(name string) error {
	if name == "" {
		return fmt.Errorf("tool name cannot be empty")
	}
	if len(name) > 100 {
		return fmt.Errorf("tool name too long (max 100 characters)")
	}
	if !identifierPattern.MatchString(name) {
		return fmt.Errorf("tool name %q is not a valid identifier", name)
	}
	if Reserved(name) {
		return fmt.Errorf("tool name %q collides with a built-in tool", name)
	}
	return nil
}

// ArtifactPath returns the path of the artifact for name, without checking
// that it exists.
func ArtifactPath(name string) (string, error) {
	if err := validateToolName(name); err != nil {
		return "", err
	}
	toolsDir, err := paths.GetToolsDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(toolsDir, artifactPrefix+name+artifactExt), nil
}

// SaveArtifact writes the canonical source for a tool to the artifact
// store. Saving an existing name overwrites the artifact in full; the
// source is never executed here.
func SaveArtifact(name, source string) error {
	filename, err := ArtifactPath(name)
	if err != nil {
		return err
	}

	if err := os.WriteFile(filename, []byte(source), 0644); err != nil {
		return fmt.Errorf("failed to write tool artifact: %w", err)
	}
	return nil
}

// LoadArtifact reads the persisted source for a tool.
func LoadArtifact(name string) (string, error) {
	filename, err := ArtifactPath(name)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return "", fmt.Errorf("failed to read tool artifact: %w", err)
	}
	return string(data), nil
}

// ListArtifacts returns the names of all persisted tool artifacts, sorted.
func ListArtifacts() ([]string, error) {
	toolsDir, err := paths.GetToolsDir()
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(toolsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read tools directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		base := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(base, artifactPrefix) || !strings.HasSuffix(base, artifactExt) {
			continue
		}
		name := strings.TrimSuffix(strings.TrimPrefix(base, artifactPrefix), artifactExt)
		if validateToolName(name) != nil {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// DeleteArtifact removes a tool artifact from the store.
func DeleteArtifact(name string) error {
	filename, err := ArtifactPath(name)
	if err != nil {
		return err
	}

	if err := os.Remove(filename); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("tool '%s' does not exist", name)
		}
		return fmt.Errorf("failed to delete tool artifact: %w", err)
	}
	return nil
}

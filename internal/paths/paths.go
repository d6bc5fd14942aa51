package paths

import (
	"fmt"
	"os"
	"path/filepath"
)

// GetToolsmithDir returns the directory where toolsmith files are stored.
// It checks the TOOLSMITH_DIR environment variable first, then falls back
// to ~/.toolsmith
func GetToolsmithDir() (string, error) {
	var dir string

	// Check for environment variable override first
	if envDir := os.Getenv("TOOLSMITH_DIR"); envDir != "" {
		dir = envDir
	} else {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		dir = filepath.Join(homeDir, ".toolsmith")
	}

	// Create directory if it doesn't exist
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create toolsmith directory: %w", err)
	}

	return dir, nil
}

// GetToolsDir returns the directory where validated tool artifacts are stored
func GetToolsDir() (string, error) {
	baseDir, err := GetToolsmithDir()
	if err != nil {
		return "", err
	}

	toolsDir := filepath.Join(baseDir, "tools")

	// Create directory if it doesn't exist
	if err := os.MkdirAll(toolsDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create tools directory: %w", err)
	}

	return toolsDir, nil
}

// GetMetaPath returns the full path to the tools_meta.json metadata document
func GetMetaPath() (string, error) {
	baseDir, err := GetToolsmithDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(baseDir, "tools_meta.json"), nil
}

// GetConfigPath returns the full path to the config.json configuration file
func GetConfigPath() (string, error) {
	baseDir, err := GetToolsmithDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(baseDir, "config.json"), nil
}

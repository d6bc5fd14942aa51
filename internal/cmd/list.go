package cmd

import (
	"fmt"
	"os"

	"toolsmith/internal/persistence"
)

// ListTools displays all tools exposed by toolsmith
func ListTools() error {
	meta, err := persistence.OpenDefaultMetaStore()
	if err != nil {
		return fmt.Errorf("failed to open metadata store: %w", err)
	}

	// 1. Dynamic tools, from the metadata document
	fmt.Println("Dynamic Tools:")
	records, err := meta.List()
	if err != nil {
		return fmt.Errorf("failed to list dynamic tools: %w", err)
	}
	if len(records) == 0 {
		fmt.Println("  (none)")
	} else {
		for _, rec := range records {
			state := ""
			if !rec.Enabled {
				state = " [disabled]"
			}
			fmt.Printf("  • %s (v%d)%s - %s\n", rec.Name, rec.Version, state, rec.Description)
		}
	}
	fmt.Println()

	// 2. Built-in tools
	fmt.Println("Built-in Tools:")
	builtinTools := []struct {
		name        string
		description string
	}{
		{"propose_tool", "Validate a generated tool against the extension policy and persist it on acceptance"},
		{"preview_tool", "Validate a generated tool and execute it once without saving it"},
		{"list_tools", "List all dynamic tool definitions and their metadata"},
		{"show_tool", "Show the persisted source and metadata of a dynamic tool"},
		{"retire_tool", "Delete a dynamic tool's artifact and metadata"},
		{"enable_tool", "Mark a dynamic tool as enabled so the next reload loads it"},
		{"disable_tool", "Mark a dynamic tool as disabled without deleting it"},
		{"reload_tools", "Rebuild the dynamic tool registry from the artifact store"},
		{"check_tools", "Cross-check the artifact store against the metadata document and report orphans"},
	}
	for _, tool := range builtinTools {
		fmt.Printf("  • %s - %s\n", tool.name, tool.description)
	}
	fmt.Println()

	// 3. Consistency scan
	orphans, err := persistence.Scan(meta)
	if err != nil {
		return fmt.Errorf("consistency scan failed: %w", err)
	}
	if !orphans.Empty() {
		fmt.Println("Warnings:")
		for _, name := range orphans.MetadataOnly {
			fmt.Printf("  • %s: metadata record without artifact\n", name)
		}
		for _, name := range orphans.ArtifactOnly {
			fmt.Printf("  • %s: artifact without metadata record\n", name)
		}
	}

	return nil
}

// Run is the entry point for the list command
func Run(args []string) int {
	if len(args) > 0 && args[0] == "list" {
		if err := ListTools(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}
	return -1 // Not a list command
}

package main

import (
	"context"
	"log"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"toolsmith/internal/cmd"
	"toolsmith/internal/config"
	"toolsmith/internal/persistence"
	"toolsmith/internal/registry"
	"toolsmith/internal/tools"
)

func main() {
	// Command-line inspection mode
	if code := cmd.Run(os.Args[1:]); code >= 0 {
		os.Exit(code)
	}

	cfg, err := config.LoadDefault()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	meta, err := persistence.OpenDefaultMetaStore()
	if err != nil {
		log.Fatalf("Failed to open metadata store: %v", err)
	}

	// Load all accepted tools once at startup; reload_tools re-runs this
	reg := registry.New(meta)
	report, err := reg.LoadAll()
	if err != nil {
		log.Printf("Warning: failed to load saved tools: %v", err)
	} else {
		log.Printf("Loaded %d dynamic tool(s)", len(report.Loaded))
		for _, failure := range report.Failures {
			log.Printf("Warning: failed to load tool '%s': %s", failure.Name, failure.Reason)
		}
		for _, name := range report.Orphans.MetadataOnly {
			log.Printf("Warning: orphan metadata record '%s' (no artifact)", name)
		}
		for _, name := range report.Orphans.ArtifactOnly {
			log.Printf("Warning: orphan artifact '%s' (no metadata record)", name)
		}
	}

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "toolsmith",
		Version: "0.1.0",
	}, nil)

	host := tools.NewHost(cfg.Policy(), meta, reg)
	host.RegisterAll(server)

	log.Printf("Starting toolsmith MCP server...")
	if err := server.Run(context.Background(), &mcp.StdioTransport{}); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

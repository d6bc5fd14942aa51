package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// RegisterReloadTools registers the reload_tools administrative trigger
// with the MCP server. Reloading is the only way the registry picks up
// newly accepted tools; it is never implicit.
func (h *Host) RegisterReloadTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "reload_tools",
		Description: "Rebuild the dynamic tool registry from the artifact store",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args struct{}) (*mcp.CallToolResult, any, error) {
		return h.handleReloadTools(server)
	})
}

func (h *Host) handleReloadTools(server *mcp.Server) (*mcp.CallToolResult, any, error) {
	report, err := h.registry.LoadAll()
	if err != nil {
		return ErrorResponse("Reload failed: %v", err), nil, nil
	}

	// Newly loaded entries become callable immediately; removed entries
	// stay registered with the server until restart
	h.RegisterDynamicTools(server)

	var lines []string
	lines = append(lines, fmt.Sprintf("Loaded %d tool(s)", len(report.Loaded)))
	if len(report.Disabled) > 0 {
		lines = append(lines, fmt.Sprintf("Skipped %d disabled tool(s): %s",
			len(report.Disabled), strings.Join(report.Disabled, ", ")))
	}
	for _, failure := range report.Failures {
		lines = append(lines, fmt.Sprintf("Failed to load '%s': %s", failure.Name, failure.Reason))
	}
	for _, name := range report.Orphans.MetadataOnly {
		lines = append(lines, fmt.Sprintf("Orphan metadata record: '%s' has no artifact", name))
	}
	for _, name := range report.Orphans.ArtifactOnly {
		lines = append(lines, fmt.Sprintf("Orphan artifact: '%s' has no metadata record", name))
	}

	return SuccessResponse(strings.Join(lines, "\n")), report, nil
}

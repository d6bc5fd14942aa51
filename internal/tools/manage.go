package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"toolsmith/internal/persistence"
	"toolsmith/internal/types"
)

// ToolSummary represents a summary of a dynamic tool for list_tools
type ToolSummary struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Version     int    `json:"version"`
	Enabled     bool   `json:"enabled"`
	Uses        int    `json:"uses"`
	Successes   int    `json:"successes"`
}

// ToolListResponse wraps the tool list in an object structure expected by MCP
type ToolListResponse struct {
	Tools []ToolSummary `json:"tools"`
}

// RegisterListTools registers the list_tools tool with the MCP server
func (h *Host) RegisterListTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_tools",
		Description: "List all dynamic tool definitions and their metadata",
	}, h.handleListTools)
}

// RegisterShowTool registers the show_tool tool with the MCP server
func (h *Host) RegisterShowTool(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "show_tool",
		Description: "Show the persisted source and metadata of a dynamic tool",
	}, h.handleShowTool)
}

// RegisterRetireTool registers the retire_tool tool with the MCP server
func (h *Host) RegisterRetireTool(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "retire_tool",
		Description: "Delete a dynamic tool's artifact and metadata",
	}, h.handleRetireTool)
}

// RegisterEnableTool and RegisterDisableTool register the visibility
// toggles with the MCP server
func (h *Host) RegisterEnableTool(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "enable_tool",
		Description: "Mark a dynamic tool as enabled so the next reload loads it",
	}, h.handleEnableTool)
}

func (h *Host) RegisterDisableTool(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "disable_tool",
		Description: "Mark a dynamic tool as disabled without deleting it",
	}, h.handleDisableTool)
}

// RegisterCheckTools registers the check_tools consistency scan with the
// MCP server
func (h *Host) RegisterCheckTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "check_tools",
		Description: "Cross-check the artifact store against the metadata document and report orphans",
	}, h.handleCheckTools)
}

func (h *Host) handleListTools(ctx context.Context, req *mcp.CallToolRequest, args struct{}) (*mcp.CallToolResult, any, error) {
	records, err := h.meta.List()
	if err != nil {
		return ErrorResponse("Failed to list tools: %v", err), nil, nil
	}

	var summaries []ToolSummary
	for _, rec := range records {
		summaries = append(summaries, ToolSummary{
			Name:        rec.Name,
			Description: rec.Description,
			Version:     rec.Version,
			Enabled:     rec.Enabled,
			Uses:        rec.Uses,
			Successes:   rec.Successes,
		})
	}
	response := ToolListResponse{Tools: summaries}

	if len(summaries) == 0 {
		return SuccessResponse("No dynamic tools found"), response, nil
	}

	var lines []string
	for _, tool := range summaries {
		state := "enabled"
		if !tool.Enabled {
			state = "disabled"
		}
		lines = append(lines, fmt.Sprintf("• %s (v%d, %s): %s [uses=%d ok=%d]",
			tool.Name, tool.Version, state, tool.Description, tool.Uses, tool.Successes))
	}
	listText := fmt.Sprintf("Found %d dynamic tool(s):\n\n%s", len(summaries), strings.Join(lines, "\n"))

	return SuccessResponse(listText), response, nil
}

func (h *Host) handleShowTool(ctx context.Context, req *mcp.CallToolRequest, args types.ShowToolArgs) (*mcp.CallToolResult, any, error) {
	if args.Name == "" {
		return ErrorResponse("Error: tool name is required"), nil, nil
	}

	rec, ok, err := h.meta.Get(args.Name)
	if err != nil {
		return ErrorResponse("Failed to read metadata for '%s': %v", args.Name, err), nil, nil
	}
	if !ok {
		return ErrorResponse("No metadata record for tool '%s'", args.Name), nil, nil
	}

	source, err := persistence.LoadArtifact(args.Name)
	if err != nil {
		return ErrorResponse("Failed to load artifact for '%s': %v", args.Name, err), nil, nil
	}

	return SuccessResponse(source), map[string]any{"record": rec, "source": source}, nil
}

func (h *Host) handleRetireTool(ctx context.Context, req *mcp.CallToolRequest, args types.RetireToolArgs) (*mcp.CallToolResult, any, error) {
	if args.Name == "" {
		return ErrorResponse("Error: tool name is required"), nil, nil
	}

	// Artifact and metadata are retired together; report partial failures
	// so the caller can run check_tools and finish the job
	var problems []string
	if err := persistence.DeleteArtifact(args.Name); err != nil {
		problems = append(problems, fmt.Sprintf("artifact: %v", err))
	}
	if err := h.meta.Remove(args.Name); err != nil {
		problems = append(problems, fmt.Sprintf("metadata: %v", err))
	}
	if len(problems) > 0 {
		return ErrorResponse("Failed to fully retire tool '%s': %s", args.Name, strings.Join(problems, "; ")), nil, nil
	}

	return SuccessResponse("Tool '%s' retired. A loaded entry remains callable until the next reload_tools or restart.",
		args.Name), map[string]string{"retired": args.Name}, nil
}

func (h *Host) handleEnableTool(ctx context.Context, req *mcp.CallToolRequest, args types.EnableToolArgs) (*mcp.CallToolResult, any, error) {
	return h.setEnabled(args.Name, true)
}

func (h *Host) handleDisableTool(ctx context.Context, req *mcp.CallToolRequest, args types.EnableToolArgs) (*mcp.CallToolResult, any, error) {
	return h.setEnabled(args.Name, false)
}

func (h *Host) setEnabled(name string, enabled bool) (*mcp.CallToolResult, any, error) {
	if name == "" {
		return ErrorResponse("Error: tool name is required"), nil, nil
	}
	if err := h.meta.SetEnabled(name, enabled); err != nil {
		return ErrorResponse("Failed to update tool '%s': %v", name, err), nil, nil
	}
	state := "enabled"
	if !enabled {
		state = "disabled"
	}
	return SuccessResponse("Tool '%s' is now %s. Run reload_tools to apply.", name, state),
		map[string]any{"name": name, "enabled": enabled}, nil
}

func (h *Host) handleCheckTools(ctx context.Context, req *mcp.CallToolRequest, args struct{}) (*mcp.CallToolResult, any, error) {
	orphans, err := persistence.Scan(h.meta)
	if err != nil {
		return ErrorResponse("Consistency scan failed: %v", err), nil, nil
	}

	if orphans.Empty() {
		return SuccessResponse("Artifact store and metadata document are consistent"), orphans, nil
	}

	var lines []string
	for _, name := range orphans.MetadataOnly {
		lines = append(lines, fmt.Sprintf("• %s: metadata record without artifact", name))
	}
	for _, name := range orphans.ArtifactOnly {
		lines = append(lines, fmt.Sprintf("• %s: artifact without metadata record", name))
	}
	return SuccessResponse("Found %d orphan(s):\n\n%s", len(lines), strings.Join(lines, "\n")), orphans, nil
}

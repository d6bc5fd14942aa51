package tools

import (
	"context"
	"errors"
	"log"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"toolsmith/internal/adapter"
	"toolsmith/internal/registry"
	"toolsmith/internal/schema"
	"toolsmith/internal/types"
	"toolsmith/internal/validation"
)

// RegisterDynamicTools registers every loaded registry entry as an MCP
// tool, advertising its stored parameter schema. Entries whose metadata
// revision was already registered on an earlier pass are left alone;
// re-proposed tools are registered again so the advertised schema tracks
// the stored one. Safe to call after every reload.
func (h *Host) RegisterDynamicTools(server *mcp.Server) {
	for _, name := range h.registry.Names() {
		entry, ok := h.registry.Lookup(name)
		if !ok {
			continue
		}
		if prev, seen := h.registered[name]; seen && prev == entry.Revision {
			continue
		}

		inputSchema, err := schema.FromMap(entry.ParameterSchema)
		if err != nil {
			log.Printf("Warning: skipping tool '%s': %v", name, err)
			continue
		}

		toolName := name
		mcp.AddTool(server, &mcp.Tool{
			Name:        entry.Name,
			Description: entry.Description,
			InputSchema: inputSchema,
		}, func(ctx context.Context, req *mcp.CallToolRequest, args types.ToolParams) (*mcp.CallToolResult, any, error) {
			return h.handleDynamicTool(toolName, args)
		})
		h.registered[name] = entry.Revision
		log.Printf("Registered dynamic tool: %s", name)
	}
}

// handleDynamicTool executes a loaded tool through the invocation adapter
func (h *Host) handleDynamicTool(name string, args types.ToolParams) (*mcp.CallToolResult, any, error) {
	result, err := h.adapter.Invoke(name, args)
	if err != nil {
		var shapeErr *adapter.ShapeError
		switch {
		case errors.As(err, &shapeErr):
			return ErrorResponse(validation.FormatValidationError(shapeErr.Cause)), nil, nil
		case errors.Is(err, registry.ErrUnknownTool):
			return ErrorResponse("Tool '%s' is not loaded; run reload_tools", name), nil, nil
		default:
			return ErrorResponse("Tool error: %v", err), nil, nil
		}
	}

	return SuccessResponse("Result: %v", result), map[string]any{"result": result}, nil
}

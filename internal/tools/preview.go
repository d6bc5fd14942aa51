package tools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"toolsmith/internal/starlark"
	"toolsmith/internal/types"
)

// RegisterPreviewTool registers the preview_tool tool with the MCP server.
// Previewing runs a proposal through the same policy gate as propose_tool
// and then executes it exactly once, without persisting anything.
func (h *Host) RegisterPreviewTool(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "preview_tool",
		Description: "Validate a generated tool and execute it once without saving it",
	}, h.handlePreviewTool)
}

func (h *Host) handlePreviewTool(ctx context.Context, req *mcp.CallToolRequest, args types.PreviewToolArgs) (*mcp.CallToolResult, any, error) {
	if args.Name == "" {
		return ErrorResponse("Error: tool name is required"), nil, nil
	}
	if args.Source == "" {
		return ErrorResponse("Error: tool source is required"), nil, nil
	}

	verdict := h.policy.Validate(args.Source, args.Name)
	if !verdict.Accepted {
		return ErrorResponse("Proposal rejected (%s): %s", verdict.Reason, verdict.Detail), verdict, nil
	}

	tool, err := starlark.Compile(args.Name, verdict.CanonicalSource)
	if err != nil {
		return ErrorResponse("Preview failed: %v", err), nil, nil
	}

	result, err := tool.Call(args.Args)
	if err != nil {
		return ErrorResponse("Tool error: %v", err), nil, nil
	}

	return SuccessResponse("Result: %v", result), map[string]any{"result": result}, nil
}

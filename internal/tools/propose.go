package tools

import (
	"context"
	"log"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"toolsmith/internal/persistence"
	"toolsmith/internal/types"
)

// RegisterProposeTool registers the propose_tool tool with the MCP server
func (h *Host) RegisterProposeTool(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "propose_tool",
		Description: "Validate a generated tool against the extension policy and persist it on acceptance",
	}, h.handleProposeTool)
}

func (h *Host) handleProposeTool(ctx context.Context, req *mcp.CallToolRequest, args types.ProposeToolArgs) (*mcp.CallToolResult, any, error) {
	if args.Name == "" {
		return ErrorResponse("Error: tool name is required"), nil, nil
	}
	if args.Description == "" {
		return ErrorResponse("Error: tool description is required"), nil, nil
	}
	if args.Source == "" {
		return ErrorResponse("Error: tool source is required"), nil, nil
	}

	// Structural validation, strictly before any persistence
	verdict := h.policy.Validate(args.Source, args.Name)
	if !verdict.Accepted {
		return ErrorResponse("Proposal rejected (%s): %s", verdict.Reason, verdict.Detail), verdict, nil
	}

	// Artifact first, then metadata; roll the artifact back if the
	// metadata write fails so the tool is either fully visible or absent
	if err := persistence.SaveArtifact(args.Name, verdict.CanonicalSource); err != nil {
		return ErrorResponse("Failed to save tool: %v", err), nil, nil
	}
	rec, err := h.meta.Upsert(persistence.Record{
		Name:            args.Name,
		Description:     args.Description,
		ParameterSchema: args.InputSchema,
		Enabled:         true,
	})
	if err != nil {
		if delErr := persistence.DeleteArtifact(args.Name); delErr != nil {
			log.Printf("Warning: failed to roll back artifact for '%s': %v", args.Name, delErr)
		}
		return ErrorResponse("Failed to record tool metadata: %v", err), nil, nil
	}

	return SuccessResponse("Tool '%s' accepted and saved (version %d). Run reload_tools to make it callable.",
		rec.Name, rec.Version), rec, nil
}

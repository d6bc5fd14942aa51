// Package tools exposes the extension subsystem over MCP: proposal
// ingress, tool management, administrative reload, and the dynamically
// loaded tools themselves.
package tools

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"toolsmith/internal/adapter"
	"toolsmith/internal/persistence"
	"toolsmith/internal/policy"
	"toolsmith/internal/registry"
)

// Host wires the subsystem components to the MCP tool surface.
type Host struct {
	policy   *policy.Policy
	meta     *persistence.MetaStore
	registry *registry.Registry
	adapter  *adapter.Adapter

	// metadata revision last registered on the server, per dynamic tool
	registered map[string]string
}

// NewHost builds the host around an already-constructed policy, metadata
// store, and registry.
func NewHost(pol *policy.Policy, meta *persistence.MetaStore, reg *registry.Registry) *Host {
	return &Host{
		policy:     pol,
		meta:       meta,
		registry:   reg,
		adapter:    adapter.New(reg, meta),
		registered: map[string]string{},
	}
}

// RegisterAll registers the built-in tools and every currently loaded
// dynamic tool with the MCP server.
func (h *Host) RegisterAll(server *mcp.Server) {
	h.RegisterProposeTool(server)
	h.RegisterPreviewTool(server)
	h.RegisterListTools(server)
	h.RegisterShowTool(server)
	h.RegisterRetireTool(server)
	h.RegisterEnableTool(server)
	h.RegisterDisableTool(server)
	h.RegisterReloadTools(server)
	h.RegisterCheckTools(server)
	h.RegisterDynamicTools(server)
}

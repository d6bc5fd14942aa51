package types

// ProposeToolArgs defines the arguments for the propose_tool MCP tool
type ProposeToolArgs struct {
	Name        string         `json:"name" jsonschema:"Tool identifier; must equal the name of the function the source defines"`
	Description string         `json:"description" jsonschema:"Human-readable description of what the tool does"`
	InputSchema map[string]any `json:"inputSchema" jsonschema:"JSON Schema for the tool's parameters"`
	Source      string         `json:"source" jsonschema:"Starlark source defining exactly one function"`
}

// PreviewToolArgs defines the arguments for the preview_tool MCP tool
type PreviewToolArgs struct {
	Name   string         `json:"name" jsonschema:"Tool identifier; must equal the name of the function the source defines"`
	Source string         `json:"source" jsonschema:"Starlark source defining exactly one function"`
	Args   map[string]any `json:"args,omitempty" jsonschema:"Arguments for the single trial invocation"`
}

// ShowToolArgs defines the arguments for the show_tool MCP tool
type ShowToolArgs struct {
	Name string `json:"name" jsonschema:"Name of the tool to show"`
}

// RetireToolArgs defines the arguments for the retire_tool MCP tool
type RetireToolArgs struct {
	Name string `json:"name" jsonschema:"Name of the tool to retire"`
}

// EnableToolArgs defines the arguments for the enable_tool and
// disable_tool MCP tools
type EnableToolArgs struct {
	Name string `json:"name" jsonschema:"Name of the tool"`
}

// ToolParams is the open argument map for dynamically registered tools
type ToolParams map[string]any

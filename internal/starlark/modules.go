package starlark

import (
	"fmt"
	"sort"

	starlarkjson "go.starlark.net/lib/json"
	starlarkmath "go.starlark.net/lib/math"
	starlarktime "go.starlark.net/lib/time"
	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
)

// modules maps the module names tools may load() to their implementations.
// The policy allow-list must stay a subset of this map, otherwise an
// accepted tool would fail at load time.
var modules = map[string]*starlarkstruct.Module{
	"math": starlarkmath.Module,
	"json": starlarkjson.Module,
	"time": starlarktime.Module,
	"struct": {
		Name: "struct",
		Members: starlark.StringDict{
			"struct": starlark.NewBuiltin("struct", starlarkstruct.Make),
		},
	},
}

// ModuleNames returns the names of all loadable modules, sorted.
func ModuleNames() []string {
	names := make([]string, 0, len(modules))
	for name := range modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HasModule reports whether the interpreter can serve the named module.
func HasModule(name string) bool {
	_, ok := modules[name]
	return ok
}

// Load implements the load() statement for tool artifacts. Each module's
// members are exposed individually, and the module itself is bound under
// its own name so both load("math", "sqrt") and load("math", "math") work.
func Load(_ *starlark.Thread, module string) (starlark.StringDict, error) {
	mod, ok := modules[module]
	if !ok {
		return nil, fmt.Errorf("module %q is not available", module)
	}

	dict := make(starlark.StringDict, len(mod.Members)+1)
	for name, value := range mod.Members {
		dict[name] = value
	}
	dict[module] = mod
	return dict, nil
}

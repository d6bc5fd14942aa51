package starlark

import (
	"errors"
	"fmt"
	"sort"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// FileOptions configures the Starlark dialect used for tool artifacts.
// Shared with the policy validator so that what validates is exactly what
// compiles.
var FileOptions = &syntax.FileOptions{
	Set:               true, // Enable set literals and comprehensions
	While:             true, // Enable while loops
	TopLevelControl:   true, // Enable for loops and if statements at top level
	GlobalReassign:    true, // Allow reassignment of global variables
	LoadBindsGlobally: true, // Load statements bind globally
}

// Tool is a compiled tool artifact: the top-level function a validated
// source unit defines, ready for repeated invocation.
type Tool struct {
	name string
	fn   starlark.Callable
}

// Compile parses and executes a tool artifact's module, resolving load()
// statements against the built-in module set, and returns the top-level
// function named after the tool. The module globals are frozen, so the
// returned Tool is safe for concurrent Call use.
func Compile(name, source string) (*Tool, error) {
	thread := &starlark.Thread{Name: "compile:" + name, Load: Load}

	globals, err := starlark.ExecFileOptions(FileOptions, thread, name+".star", source, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to compile tool %q: %w", name, err)
	}
	globals.Freeze()

	value, ok := globals[name]
	if !ok {
		return nil, fmt.Errorf("tool %q does not define a function named %q", name, name)
	}
	fn, ok := value.(starlark.Callable)
	if !ok {
		return nil, fmt.Errorf("tool %q: global %q is not callable (got %s)", name, name, value.Type())
	}

	return &Tool{name: name, fn: fn}, nil
}

// Name returns the tool's name.
func (t *Tool) Name() string { return t.name }

// Call invokes the tool function with keyword arguments drawn from params
// and converts the result back to a plain Go value. A fault raised by the
// tool body is returned as an error carrying the Starlark backtrace.
func (t *Tool) Call(params map[string]any) (any, error) {
	kwargs := make([]starlark.Tuple, 0, len(params))
	for key, value := range params {
		sv, err := GoToStarlark(value)
		if err != nil {
			return nil, fmt.Errorf("argument %q: %w", key, err)
		}
		kwargs = append(kwargs, starlark.Tuple{starlark.String(key), sv})
	}
	// Deterministic argument order keeps error messages stable
	sort.Slice(kwargs, func(i, j int) bool {
		return kwargs[i][0].(starlark.String) < kwargs[j][0].(starlark.String)
	})

	thread := &starlark.Thread{Name: "call:" + t.name, Load: Load}
	out, err := starlark.Call(thread, t.fn, nil, kwargs)
	if err != nil {
		var evalErr *starlark.EvalError
		if errors.As(err, &evalErr) {
			return nil, errors.New(evalErr.Backtrace())
		}
		return nil, err
	}

	return StarlarkToGo(out)
}

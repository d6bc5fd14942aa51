// Package adapter provides the uniform call surface the agent runtime uses
// to invoke dynamic tools: argument shapes are checked against the tool's
// declared parameter schema before anything reaches the tool body.
package adapter

import (
	"fmt"
	"log"

	"toolsmith/internal/persistence"
	"toolsmith/internal/registry"
	"toolsmith/internal/validation"
)

// ShapeError reports an argument set that does not match the tool's
// declared parameter schema. The tool body was never entered.
type ShapeError struct {
	Tool  string
	Cause error
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("arguments for tool '%s' do not match its schema: %v", e.Tool, e.Cause)
}

func (e *ShapeError) Unwrap() error { return e.Cause }

// Adapter fronts a registry with parameter shape validation and usage
// bookkeeping.
type Adapter struct {
	registry *registry.Registry
	meta     *persistence.MetaStore
}

// New returns an adapter over the given registry. meta may be nil, in
// which case usage counters are not maintained.
func New(reg *registry.Registry, meta *persistence.MetaStore) *Adapter {
	return &Adapter{registry: reg, meta: meta}
}

// Invoke validates args against the named tool's parameter schema and
// delegates to the registry. Failures surface as ErrUnknownTool,
// *ShapeError, or *registry.InvokeError; the outcome is recorded in the
// tool's usage counters either way.
func (a *Adapter) Invoke(name string, args map[string]any) (any, error) {
	entry, ok := a.registry.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: '%s'", registry.ErrUnknownTool, name)
	}

	if args == nil {
		args = map[string]any{}
	}
	if err := validation.ValidateParams(entry.ParameterSchema, args); err != nil {
		return nil, &ShapeError{Tool: name, Cause: err}
	}

	result, err := a.registry.Invoke(name, args)
	a.markUse(name, err == nil)
	return result, err
}

func (a *Adapter) markUse(name string, ok bool) {
	if a.meta == nil {
		return
	}
	if err := a.meta.MarkUse(name, ok); err != nil {
		log.Printf("Warning: failed to record usage for tool '%s': %v", name, err)
	}
}

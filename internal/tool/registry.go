// Package tool contains the email tool catalog: descriptors, argument
// validation and the per-tool implementations dispatched by the rpc handler.
package tool

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
)

// Handler executes one tool call. Arguments arrive already validated against
// the tool's input schema. Operational failures (provider errors, file write
// errors) must be reported inside the returned result value, not as an error;
// a returned error becomes a dispatch-level RPC error.
type Handler func(ctx context.Context, args json.RawMessage) (any, error)

// Descriptor describes one callable tool for tools/list.
type Descriptor struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	InputSchema *jsonschema.Schema `json:"inputSchema"`
}

// UnknownToolError reports a tools/call naming an unregistered tool.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("unknown tool: %s", e.Name)
}

// ValidationError reports arguments rejected by a tool's input schema.
type ValidationError struct {
	Tool  string
	Cause error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid arguments for tool %s: %v", e.Tool, e.Cause)
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

type registered struct {
	desc     Descriptor
	resolved *jsonschema.Resolved
	handler  Handler
}

// Registry is the static tool catalog. Built once at startup, read-only after.
type Registry struct {
	order []string
	tools map[string]*registered
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]*registered),
	}
}

// Register adds a tool, resolving its input schema for validation.
func (r *Registry) Register(desc Descriptor, h Handler) error {
	if desc.Name == "" {
		return fmt.Errorf("tool name must not be empty")
	}
	if _, exists := r.tools[desc.Name]; exists {
		return fmt.Errorf("tool %s already registered", desc.Name)
	}
	if desc.InputSchema == nil {
		return fmt.Errorf("tool %s has no input schema", desc.Name)
	}

	resolved, err := desc.InputSchema.Resolve(nil)
	if err != nil {
		return fmt.Errorf("schema.Resolve failed for %s: %w", desc.Name, err)
	}

	r.order = append(r.order, desc.Name)
	r.tools[desc.Name] = &registered{desc: desc, resolved: resolved, handler: h}

	return nil
}

// Descriptors returns every registered tool in registration order.
func (r *Registry) Descriptors() []Descriptor {
	out := make([]Descriptor, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name].desc)
	}

	return out
}

// Dispatch validates the arguments and invokes the named tool. It returns
// *UnknownToolError or *ValidationError before any tool logic runs.
func (r *Registry) Dispatch(ctx context.Context, name string, args json.RawMessage) (any, error) {
	t, ok := r.tools[name]
	if !ok {
		return nil, &UnknownToolError{Name: name}
	}

	instance := any(map[string]any{})
	if len(args) > 0 {
		if err := json.Unmarshal(args, &instance); err != nil {
			return nil, &ValidationError{Tool: name, Cause: err}
		}
		if instance == nil {
			instance = map[string]any{}
		}
	}

	if err := t.resolved.Validate(instance); err != nil {
		return nil, &ValidationError{Tool: name, Cause: err}
	}

	return t.handler(ctx, args)
}

package tools

import (
	"context"
	"encoding/json"
	"fmt"
)

type (
	// Func adapts a typed Go function into a Tool. The input JSON is decoded
	// into In before the function runs; string results pass through, other
	// result types are rendered as pretty JSON.
	Func[In, Out any] struct {
		name        string
		description string
		schema      map[string]any
		strict      bool
		limit       int
		fn          func(context.Context, In) (Out, error)
	}

	// FuncOption customizes a Func tool.
	FuncOption func(*funcOptions)

	funcOptions struct {
		schema map[string]any
		strict bool
		limit  int
	}
)

// WithSchema overrides the default input schema.
func WithSchema(schema map[string]any) FuncOption {
	return func(o *funcOptions) { o.schema = schema }
}

// WithStrict enables input validation against the schema before each call.
func WithStrict() FuncOption {
	return func(o *funcOptions) { o.strict = true }
}

// WithUsageLimit caps the number of invocations per run.
func WithUsageLimit(n int) FuncOption {
	return func(o *funcOptions) { o.limit = n }
}

// NewFunc wraps fn as a Tool.
func NewFunc[In, Out any](name, description string, fn func(context.Context, In) (Out, error), opts ...FuncOption) *Func[In, Out] {
	o := funcOptions{schema: DefaultSchema()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Func[In, Out]{
		name:        name,
		description: description,
		schema:      o.schema,
		strict:      o.strict,
		limit:       o.limit,
		fn:          fn,
	}
}

// Name returns the tool name.
func (f *Func[In, Out]) Name() string { return f.name }

// Description returns the tool description.
func (f *Func[In, Out]) Description() string { return f.description }

// Schema returns the input schema.
func (f *Func[In, Out]) Schema() map[string]any { return f.schema }

// Strict reports whether inputs are validated before execution.
func (f *Func[In, Out]) Strict() bool { return f.strict }

// UsageLimit returns the per-run invocation cap, zero for unlimited.
func (f *Func[In, Out]) UsageLimit() int { return f.limit }

// Call decodes input, runs the function and renders the result.
func (f *Func[In, Out]) Call(ctx context.Context, input any) (string, error) {
	if f.strict {
		if err := ValidateInput(f.schema, input); err != nil {
			return "", WrapError(fmt.Sprintf("tool %s", f.name), err)
		}
	}
	b, err := json.Marshal(input)
	if err != nil {
		return "", Errorf("encode input for tool %s: %v", f.name, err)
	}
	var in In
	if err := json.Unmarshal(b, &in); err != nil {
		return "", Errorf("decode input for tool %s: %v", f.name, err)
	}
	out, err := f.fn(ctx, in)
	if err != nil {
		return "", err
	}
	if s, ok := any(out).(string); ok {
		return s, nil
	}
	rendered, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", Errorf("encode result of tool %s: %v", f.name, err)
	}
	return string(rendered), nil
}

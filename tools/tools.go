// Package tools defines the tool capability contract, input validation and
// the toolbox abstractions agents draw tools from.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"goa.design/braid/model"
)

// Tool is a capability an agent can invoke. Implementations must be safe for
// concurrent use.
type Tool interface {
	// Name returns the tool name. Lookups normalize it; prompts show it as
	// declared.
	Name() string
	// Description explains what the tool does and when to use it.
	Description() string
	// Schema returns the JSON schema of the tool input object.
	Schema() map[string]any
	// Strict requests schema validation of inputs before execution.
	Strict() bool
	// UsageLimit caps invocations per run. Zero means unlimited.
	UsageLimit() int
	// Call executes the tool with decoded JSON input and returns the
	// observation text.
	Call(ctx context.Context, input any) (string, error)
}

// Summarizer is an optional Tool extension for tools whose observations are
// too large to carry around verbatim. The executor records the summary
// alongside the full result on each step.
type Summarizer interface {
	// Summarize condenses an observation returned by Call.
	Summarize(result string) string
}

// NormalizeName lowercases a tool name and replaces spaces with underscores.
// Every lookup boundary applies it so model-produced variants still resolve.
func NormalizeName(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "_")
}

// DefaultSchema is the input schema for tools that take a single free-form
// string.
func DefaultSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"input": map[string]any{
				"type":        "string",
				"description": "The input for the tool",
			},
		},
		"required":             []any{"input"},
		"additionalProperties": false,
	}
}

// EmptySchema is the input schema for tools that take no arguments.
func EmptySchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"properties":           map[string]any{},
		"additionalProperties": false,
	}
}

// PlainDescription renders a tool for inclusion in text prompts.
func PlainDescription(t Tool) string {
	schema, err := json.MarshalIndent(t.Schema(), "", "  ")
	if err != nil {
		schema = []byte("{}")
	}
	return fmt.Sprintf("> %s: %s\nThe input for this tool MUST be in the following format:\n%s",
		t.Name(), t.Description(), schema)
}

// Definitions converts tools to the wire definitions passed to providers
// with native tool calling. Names are normalized.
func Definitions(ts []Tool) []model.ToolDefinition {
	defs := make([]model.ToolDefinition, len(ts))
	for i, t := range ts {
		defs[i] = model.ToolDefinition{
			Name:        NormalizeName(t.Name()),
			Description: t.Description(),
			Schema:      t.Schema(),
			Strict:      t.Strict(),
		}
	}
	return defs
}

// ValidateInput checks input against the tool schema. Used before executing
// strict tools.
func ValidateInput(schema map[string]any, input any) error {
	c := jsonschema.NewCompiler()
	if err := c.AddResource("tool.json", toDoc(schema)); err != nil {
		return fmt.Errorf("add schema resource: %w", err)
	}
	compiled, err := c.Compile("tool.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	if err := compiled.Validate(toDoc(input)); err != nil {
		return fmt.Errorf("invalid tool input: %w", err)
	}
	return nil
}

// toDoc round-trips a value through JSON so the validator sees plain decoded
// values regardless of how the value was built.
func toDoc(v any) any {
	b, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var doc any
	if err := json.Unmarshal(b, &doc); err != nil {
		return v
	}
	return doc
}

// Package agent implements the planning side of a run: building the prompt
// from templates, history and scratchpad, calling the model and turning its
// output into a planning event. Two protocols are provided, the text-based
// Conversational agent and the provider-native ToolCalling agent.
package agent

import (
	"context"
	"fmt"
	"sort"

	"goa.design/braid/model"
	"goa.design/braid/tools"
)

// Agent turns accumulated run context into one planning decision.
type Agent interface {
	// Plan builds the prompt from the steps so far and the run input, calls
	// the model and parses its decision.
	Plan(ctx context.Context, steps []model.AgentStep, input *Input) (*model.AgentResult, error)
	// Tool resolves a tool by name, consulting the static tools first and
	// then the toolboxes in registration order.
	Tool(ctx context.Context, name string) (tools.Tool, error)
	// Prompt renders the messages Plan would send, for inspection and
	// logging.
	Prompt(input *Input) ([]model.Message, error)
}

// resolveTool is the shared lookup: static map first, then toolboxes in
// order. The name is normalized once here.
func resolveTool(ctx context.Context, static map[string]tools.Tool, boxes []tools.Toolbox, name string) (tools.Tool, error) {
	normalized := tools.NormalizeName(name)
	if t, ok := static[normalized]; ok {
		return t, nil
	}
	for _, box := range boxes {
		if t, err := tools.Lookup(ctx, box, normalized); err == nil {
			return t, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", tools.ErrNotFound, normalized)
}

// staticTools indexes the declared tools and the discovery tool of every
// toolbox by normalized name.
func staticTools(declared []tools.Tool, boxes []tools.Toolbox) map[string]tools.Tool {
	m := make(map[string]tools.Tool, len(declared)+len(boxes))
	for _, t := range declared {
		m[tools.NormalizeName(t.Name())] = t
	}
	for _, box := range boxes {
		lt := tools.NewListTools(box)
		m[tools.NormalizeName(lt.Name())] = lt
	}
	return m
}

// sortedTools returns the static tools in deterministic prompt order.
func sortedTools(m map[string]tools.Tool) []tools.Tool {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	ts := make([]tools.Tool, len(names))
	for i, name := range names {
		ts[i] = m[name]
	}
	return ts
}

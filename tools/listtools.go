package tools

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// ListTools is a synthetic tool that describes every tool in a toolbox. It
// gives the model a discovery path into toolboxes whose members are not part
// of the prompt.
type ListTools struct {
	box Toolbox
}

// NewListTools builds the discovery tool for a toolbox.
func NewListTools(box Toolbox) *ListTools {
	return &ListTools{box: box}
}

// Name returns the declared tool name; lookups normalize it.
func (l *ListTools) Name() string {
	return fmt.Sprintf("List tools in %s", l.box.Name())
}

// Description explains the discovery tool.
func (l *ListTools) Description() string {
	return fmt.Sprintf("List all tools in the toolbox %s", l.box.Name())
}

// Schema returns an empty object schema; the tool takes no arguments.
func (l *ListTools) Schema() map[string]any { return EmptySchema() }

// Strict reports that inputs are not validated.
func (l *ListTools) Strict() bool { return false }

// UsageLimit reports no cap.
func (l *ListTools) UsageLimit() int { return 0 }

// Call renders the plain description of every member tool, sorted by name
// for stable output.
func (l *ListTools) Call(ctx context.Context, _ any) (string, error) {
	ts, err := l.box.Tools(ctx)
	if err != nil {
		return "", err
	}
	names := make([]string, 0, len(ts))
	for name := range ts {
		names = append(names, name)
	}
	sort.Strings(names)
	descs := make([]string, len(names))
	for i, name := range names {
		descs[i] = PlainDescription(ts[name])
	}
	return strings.Join(descs, "\n---\n"), nil
}

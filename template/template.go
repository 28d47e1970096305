// Package template builds chat prompts from literal message templates with
// {{var}} text substitution and named message placeholders that expand to
// whole message lists at format time.
package template

import (
	"fmt"
	"regexp"
	"strings"

	"goa.design/braid/model"
)

type (
	// Entry is one element of a prompt: a message template or a placeholder.
	Entry interface {
		isEntry()
	}

	// MessageTemplate is a literal message whose text may contain {{var}}
	// references.
	MessageTemplate struct {
		// Role is the message author.
		Role model.Role
		// Text is the message body with optional {{var}} references.
		Text string
	}

	// Placeholder expands to the message list bound to its name at format
	// time. An unbound placeholder expands to nothing.
	Placeholder string

	// Prompt is an ordered list of entries.
	Prompt struct {
		entries []Entry
	}
)

func (MessageTemplate) isEntry() {}
func (Placeholder) isEntry()     {}

var varRE = regexp.MustCompile(`\{\{\s*(\w+)\s*\}\}`)

// New builds a prompt from entries, in order.
func New(entries ...Entry) *Prompt {
	return &Prompt{entries: entries}
}

// System is shorthand for a system message template.
func System(text string) MessageTemplate {
	return MessageTemplate{Role: model.RoleSystem, Text: text}
}

// Human is shorthand for a user message template.
func Human(text string) MessageTemplate {
	return MessageTemplate{Role: model.RoleHuman, Text: text}
}

// AI is shorthand for an assistant message template.
func AI(text string) MessageTemplate {
	return MessageTemplate{Role: model.RoleAI, Text: text}
}

// Format renders the prompt: {{var}} references are substituted from vars
// and placeholders are expanded from the bound message lists. A reference to
// a variable missing from vars is an error.
func (p *Prompt) Format(vars map[string]string, placeholders map[string][]model.Message) ([]model.Message, error) {
	var msgs []model.Message
	for _, entry := range p.entries {
		switch e := entry.(type) {
		case MessageTemplate:
			text, err := substitute(e.Text, vars)
			if err != nil {
				return nil, err
			}
			msgs = append(msgs, model.Message{Role: e.Role, Content: text})
		case Placeholder:
			msgs = append(msgs, placeholders[string(e)]...)
		default:
			return nil, fmt.Errorf("unknown prompt entry %T", entry)
		}
	}
	return msgs, nil
}

// substitute replaces every {{var}} reference in text. Single braces pass
// through untouched so JSON examples survive.
func substitute(text string, vars map[string]string) (string, error) {
	var missing []string
	out := varRE.ReplaceAllStringFunc(text, func(ref string) string {
		name := varRE.FindStringSubmatch(ref)[1]
		val, ok := vars[name]
		if !ok {
			missing = append(missing, name)
			return ref
		}
		return val
	})
	if len(missing) > 0 {
		return "", fmt.Errorf("missing prompt variables: %s", strings.Join(missing, ", "))
	}
	return out, nil
}

package instructor

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"

	"goa.design/braid/model"
	"goa.design/braid/parse"
	"goa.design/braid/tools"
)

// qwen3Suffix follows the Qwen3 chat template: tool signatures inside a
// <tools> block and calls returned inside <tool_call> tags.
const qwen3Suffix = `

# Tools

You may call one or more functions to assist with the user query.

You are provided with function signatures within <tools></tools> XML tags:
<tools>
{{tools}}
</tools>

For each function call, return a json object with function name and arguments within <tool_call></tool_call> XML tags:
<tool_call>
{"name": <function-name>, "arguments": <args-json-object>}
</tool_call>`

const (
	qwen3NameKey = "name"
	qwen3ArgsKey = "arguments"
)

var (
	qwen3KeySets    = [][]string{{qwen3NameKey, qwen3ArgsKey}}
	qwen3AltKeySets = [][]string{{actionKey, actionInputKey}}
)

// Qwen3 is the instructor for Qwen3-style models that wrap tool calls in
// <tool_call> tags and use name/arguments keys. The action/action_input
// variants many fine-tunes fall back to are accepted too.
type Qwen3 struct{}

// Suffix renders the tool signatures as pretty-printed JSON definitions.
func (Qwen3) Suffix(ts []tools.Tool) string {
	defs := tools.Definitions(ts)
	rendered := make([]string, len(defs))
	for i, def := range defs {
		b, err := json.MarshalIndent(def, "", "  ")
		if err != nil {
			b = []byte(def.Name)
		}
		rendered[i] = string(b)
	}
	return strings.ReplaceAll(qwen3Suffix, "{{tools}}", strings.Join(rendered, "\n\n"))
}

// Parse recovers a planning event from model output: thought sections, the
// <tool_call> tag and code fences are stripped before JSON repair. There is
// no regex fallback; prose that never attempted a call becomes the final
// answer.
func (Qwen3) Parse(output string) (model.AgentEvent, error) {
	text := parse.StripThinking(output)
	text = parse.ExtractTag(text, "tool_call")
	text = parse.ExtractCodeBlock(text)

	v, jsonErr := parse.ParsePartialJSON(text, false)

	var structured bool
	if jsonErr == nil {
		structured = parse.IsStructuredAttempt(v, qwen3KeySets) || parse.IsStructuredAttempt(v, qwen3AltKeySets)
	} else {
		structured = parse.IsStructuredAttemptText(text, qwen3KeySets) || parse.IsStructuredAttemptText(text, qwen3AltKeySets)
	}

	var evErr error
	if jsonErr == nil {
		ev, err := qwen3Event(v)
		if err == nil {
			return ev, nil
		}
		evErr = err
	} else {
		evErr = jsonErr
	}

	if !structured {
		return model.NewFinishEvent(text), nil
	}
	return model.AgentEvent{}, &ParseError{Text: text, Err: evErr}
}

// qwen3Event maps a decoded object to an event, accepting the alias keys in
// any combination.
func qwen3Event(v any) (model.AgentEvent, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return model.AgentEvent{}, errors.New("output is not a JSON object")
	}
	name, ok := m[qwen3NameKey].(string)
	if !ok {
		name, ok = m[actionKey].(string)
	}
	if ok {
		args := m[qwen3ArgsKey]
		if args == nil {
			args = m[actionInputKey]
		}
		id, _ := m["id"].(string)
		if id == "" {
			id = uuid.NewString()
		}
		return model.NewActionEvent(model.NewToolCall(id, name, args)), nil
	}
	if answer, present := m[finalAnswerKey]; present {
		flat, err := parse.FlattenFinalAnswer(answer)
		if err != nil {
			return model.AgentEvent{}, err
		}
		return model.NewFinishEvent(flat), nil
	}
	return model.AgentEvent{}, errors.New("object has no recognized event keys")
}

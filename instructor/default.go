package instructor

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"goa.design/braid/model"
	"goa.design/braid/parse"
	"goa.design/braid/tools"
)

// defaultSuffix is appended to the system prompt of text-protocol agents. It
// teaches the model to answer with either a tool action or a final answer,
// always as JSON.
const defaultSuffix = `

<INSTRUCTIONS>
- You have two options:
    1. Use a tool
    2. Give your final answer
- You may repeat tool use cycle as many times as needed before giving your final answer
- When not using a tool, directly give your final answer
- ALL RESPONSES MUST BE IN JSON FORMAT

Option 1 : Use a tool (If you have tools and you need to use them)
The following is the description of the tools available to you:
{{tools}}
- IF YOU DON'T HAVE TOOLS, PASS THIS OPTION

<TOOL_USAGE_OUTPUT_FORMAT>
{
    "action": (string), The action to take; MUST BE one of [{{tool_names}}]
    "action_input": (object), The input to the action, JSON object. The structure object depends on the action you are taking, and is specified in the tool description below.
}
</TOOL_USAGE_OUTPUT_FORMAT>


Option 2 : Give your best final answer
- Only return a final answer once all required tools have been used
- **NEVER RETURN TOOL USE PLAN AS A FINAL ANSWER**

<FINAL_ANSWER_OUTPUT_FORMAT>
{
    "final_answer": Your final answer as requested by the user. The final answer should follow the format specified in the user request
}
</FINAL_ANSWER_OUTPUT_FORMAT>

</INSTRUCTIONS>`

const (
	actionKey      = "action"
	actionInputKey = "action_input"
	finalAnswerKey = "final_answer"
)

var defaultKeySets = [][]string{{actionKey, actionInputKey}, {finalAnswerKey}}

var (
	finalAnswerRE = regexp.MustCompile(`(?m)"final_answer"\s*:\s*"(.*)"\s*\n`)
	actionRE      = regexp.MustCompile(`(?m)"action"\s*:\s*"(.*)"\s*\n`)
	actionInputRE = regexp.MustCompile(`(?m)"action_input"\s*:\s*"(.*)"\s*\n`)
)

// Default is the instructor for the action/action_input/final_answer JSON
// protocol.
type Default struct{}

// Suffix renders the protocol instructions with the tool roster filled in.
func (Default) Suffix(ts []tools.Tool) string {
	names := make([]string, len(ts))
	descs := make([]string, len(ts))
	for i, t := range ts {
		names[i] = tools.NormalizeName(t.Name())
		descs[i] = tools.PlainDescription(t)
	}
	s := strings.ReplaceAll(defaultSuffix, "{{tool_names}}", strings.Join(names, ", "))
	return strings.ReplaceAll(s, "{{tools}}", strings.Join(descs, "\n"))
}

// Parse recovers a planning event from model output. Thought sections and
// code fences are stripped, the JSON is repaired when needed, and a regex
// fallback catches near-miss output. Text that never attempted the protocol
// becomes a final answer.
func (Default) Parse(output string) (model.AgentEvent, error) {
	text := parse.StripThinking(output)
	text = parse.ExtractCodeBlock(text)

	v, jsonErr := parse.ParsePartialJSON(text, false)

	var structured bool
	if jsonErr == nil {
		structured = parse.IsStructuredAttempt(v, defaultKeySets)
	} else {
		structured = parse.IsStructuredAttemptText(text, defaultKeySets)
	}

	var evErr error
	if jsonErr == nil {
		ev, err := eventFromValue(v, actionKey, actionInputKey)
		if err == nil {
			return ev, nil
		}
		evErr = err
	} else {
		evErr = jsonErr
	}

	if ev, ok := parseWithRegex(text); ok {
		return ev, nil
	}
	if !structured {
		return model.NewFinishEvent(text), nil
	}
	return model.AgentEvent{}, &ParseError{Text: text, Err: evErr}
}

// eventFromValue maps a decoded JSON object to a planning event. An action
// with the given name key wins over a final answer; a missing id is filled
// with a fresh UUID.
func eventFromValue(v any, nameKey, argsKey string) (model.AgentEvent, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return model.AgentEvent{}, errors.New("output is not a JSON object")
	}
	if name, ok := m[nameKey].(string); ok {
		id, _ := m["id"].(string)
		if id == "" {
			id = uuid.NewString()
		}
		return model.NewActionEvent(model.NewToolCall(id, name, m[argsKey])), nil
	}
	if answer, ok := m[finalAnswerKey]; ok {
		flat, err := parse.FlattenFinalAnswer(answer)
		if err != nil {
			return model.AgentEvent{}, err
		}
		return model.NewFinishEvent(flat), nil
	}
	return model.AgentEvent{}, errors.New("object has no recognized event keys")
}

// parseWithRegex recovers an event from output whose JSON is beyond repair
// but whose key lines are still intact.
func parseWithRegex(text string) (model.AgentEvent, bool) {
	if m := finalAnswerRE.FindStringSubmatch(text); m != nil {
		return model.NewFinishEvent(parse.Unescape(m[1])), true
	}
	am := actionRE.FindStringSubmatch(text)
	im := actionInputRE.FindStringSubmatch(text)
	if am != nil && im != nil {
		var args any
		if err := json.Unmarshal([]byte(im[1]), &args); err != nil {
			return model.AgentEvent{}, false
		}
		call := model.NewToolCall(uuid.NewString(), parse.Unescape(am[1]), args)
		return model.NewActionEvent(call), true
	}
	return model.AgentEvent{}, false
}

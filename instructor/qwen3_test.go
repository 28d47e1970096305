package instructor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"goa.design/braid/tools"
)

func TestQwen3ParseToolCallTag(t *testing.T) {
	output := "<think>\nThe user wants weather.\n</think>\n<tool_call>\n{\"name\": \"Get Weather\", \"arguments\": {\"city\": \"Paris\"}}\n</tool_call>"

	ev, err := Qwen3{}.Parse(output)
	require.NoError(t, err)
	require.Len(t, ev.ToolCalls, 1)
	require.Equal(t, "Get Weather", ev.ToolCalls[0].Name)
	require.Equal(t, map[string]any{"city": "Paris"}, ev.ToolCalls[0].Arguments)
	require.NotEmpty(t, ev.ToolCalls[0].ID)
}

func TestQwen3ParseAlternateKeys(t *testing.T) {
	output := `{"action": "lookup", "action_input": {"q": "go"}}`

	ev, err := Qwen3{}.Parse(output)
	require.NoError(t, err)
	require.Len(t, ev.ToolCalls, 1)
	require.Equal(t, "lookup", ev.ToolCalls[0].Name)
	require.Equal(t, map[string]any{"q": "go"}, ev.ToolCalls[0].Arguments)
}

func TestQwen3ParseMixedAliasKeys(t *testing.T) {
	output := `{"name": "lookup", "action_input": {"q": "go"}}`

	ev, err := Qwen3{}.Parse(output)
	require.NoError(t, err)
	require.Equal(t, map[string]any{"q": "go"}, ev.ToolCalls[0].Arguments)
}

func TestQwen3ParseUnclosedTag(t *testing.T) {
	output := "<tool_call>\n{\"name\": \"lookup\", \"arguments\": {}}"

	ev, err := Qwen3{}.Parse(output)
	require.NoError(t, err)
	require.Len(t, ev.ToolCalls, 1)
	require.Equal(t, "lookup", ev.ToolCalls[0].Name)
}

func TestQwen3ParseFinalAnswer(t *testing.T) {
	output := `{"final_answer": "done"}`

	ev, err := Qwen3{}.Parse(output)
	require.NoError(t, err)
	require.True(t, ev.IsFinish())
	require.Equal(t, "done", *ev.FinalAnswer)
}

func TestQwen3ParseProseIsFinish(t *testing.T) {
	output := "Paris is the capital of France."

	ev, err := Qwen3{}.Parse(output)
	require.NoError(t, err)
	require.True(t, ev.IsFinish())
	require.Equal(t, output, *ev.FinalAnswer)
}

func TestQwen3ParseMalformedEventFails(t *testing.T) {
	output := `{"name": 5, "arguments": {}}`

	_, err := Qwen3{}.Parse(output)
	require.Error(t, err)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
}

func TestQwen3Suffix(t *testing.T) {
	weather := tools.NewFunc("Get Weather", "current weather for a city",
		func(_ context.Context, _ map[string]any) (string, error) { return "", nil })

	suffix := Qwen3{}.Suffix([]tools.Tool{weather})
	require.Contains(t, suffix, "<tools>")
	require.Contains(t, suffix, `"name": "get_weather"`)
	require.Contains(t, suffix, "<tool_call>")
}

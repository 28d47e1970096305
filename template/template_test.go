package template

import (
	"testing"

	"github.com/stretchr/testify/require"

	"goa.design/braid/model"
)

func TestFormatSubstitutesVars(t *testing.T) {
	p := New(
		System("You help with {{topic}}."),
		Human("{{input}}"),
	)

	msgs, err := p.Format(map[string]string{"topic": "weather", "input": "rain?"}, nil)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	require.Equal(t, "You help with weather.", msgs[0].Content)
	require.Equal(t, model.RoleSystem, msgs[0].Role)
	require.Equal(t, "rain?", msgs[1].Content)
}

func TestFormatMissingVar(t *testing.T) {
	p := New(Human("{{input}}"))

	_, err := p.Format(nil, nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "input")
}

func TestFormatExpandsPlaceholders(t *testing.T) {
	p := New(
		System("rules"),
		Placeholder("chat_history"),
		Human("question"),
		Placeholder("agent_scratchpad"),
	)

	history := []model.Message{model.NewHumanMessage("earlier"), model.NewAIMessage("reply")}
	pad := []model.Message{model.NewAIMessage("tool call")}

	msgs, err := p.Format(nil, map[string][]model.Message{
		"chat_history":     history,
		"agent_scratchpad": pad,
	})
	require.NoError(t, err)
	require.Len(t, msgs, 5)
	require.Equal(t, "earlier", msgs[1].Content)
	require.Equal(t, "reply", msgs[2].Content)
	require.Equal(t, "tool call", msgs[4].Content)
}

func TestFormatUnboundPlaceholderExpandsToNothing(t *testing.T) {
	p := New(System("rules"), Placeholder("ultimatum"))

	msgs, err := p.Format(nil, nil)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
}

func TestFormatKeepsSingleBraces(t *testing.T) {
	p := New(System(`Respond with {"final_answer": "..."} only.`))

	msgs, err := p.Format(nil, nil)
	require.NoError(t, err)
	require.Equal(t, `Respond with {"final_answer": "..."} only.`, msgs[0].Content)
}

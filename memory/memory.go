// Package memory persists conversational history across executor runs.
package memory

import (
	"context"

	"goa.design/braid/model"
)

// Memory stores the chat history shared between runs. Implementations must
// be safe for concurrent use. Update is the single mutating entry point used
// by the executor: it atomically appends a completed run so that partial runs
// never leak into the history.
type Memory interface {
	// Messages returns the stored history, oldest first.
	Messages(ctx context.Context) ([]model.Message, error)
	// Add appends a single message.
	Add(ctx context.Context, msg model.Message) error
	// Clear removes the whole history.
	Clear(ctx context.Context) error
	// Render returns the history as a human-readable transcript.
	Render(ctx context.Context) (string, error)
	// Update atomically appends a completed run: the human input, one
	// tool-call/tool-result message pair per step, and the final answer.
	Update(ctx context.Context, input string, steps []model.AgentStep, finalAnswer string) error
}

// RunMessages renders a completed run as the message sequence appended to
// the history. Tool results are correlated with their calls by id.
func RunMessages(input string, steps []model.AgentStep, finalAnswer string) []model.Message {
	msgs := make([]model.Message, 0, 2+2*len(steps))
	msgs = append(msgs, model.NewHumanMessage(input))
	for _, step := range steps {
		msgs = append(msgs,
			model.NewToolCallMessage(step.ToolCall),
			model.NewToolMessage(step.ToolCall.ID, step.Result),
		)
	}
	return append(msgs, model.NewAIMessage(finalAnswer))
}

package executor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"goa.design/braid/agent"
	"goa.design/braid/memory"
	"goa.design/braid/model"
	"goa.design/braid/tools"
)

// scriptedClient replays canned responses and records the requests it saw.
type scriptedClient struct {
	responses []*model.Response
	requests  []model.Request
}

func (c *scriptedClient) Generate(_ context.Context, req model.Request) (*model.Response, error) {
	c.requests = append(c.requests, req)
	if len(c.responses) == 0 {
		return nil, errors.New("script exhausted")
	}
	resp := c.responses[0]
	c.responses = c.responses[1:]
	return resp, nil
}

func action(tool, input string) *model.Response {
	return &model.Response{
		Text:  `{"action": "` + tool + `", "action_input": {"input": "` + input + `"}}`,
		Usage: usage(7, 3),
	}
}

func finish(answer string) *model.Response {
	return &model.Response{Text: `{"final_answer": "` + answer + `"}`, Usage: usage(7, 3)}
}

func usage(prompt, completion uint32) *model.TokenUsage {
	u := model.NewTokenUsage(prompt, completion)
	return &u
}

// countingTool counts its invocations.
type countingTool struct {
	name  string
	limit int
	calls int
	fail  error
}

func (t *countingTool) Name() string           { return t.name }
func (t *countingTool) Description() string    { return "counts calls" }
func (t *countingTool) Schema() map[string]any { return tools.DefaultSchema() }
func (t *countingTool) Strict() bool           { return false }
func (t *countingTool) UsageLimit() int        { return t.limit }
func (t *countingTool) Call(context.Context, any) (string, error) {
	t.calls++
	if t.fail != nil {
		return "", t.fail
	}
	return "observation", nil
}

func newAgent(t *testing.T, client model.Client, ts ...tools.Tool) agent.Agent {
	t.Helper()
	a, err := agent.NewConversational().WithTools(ts...).Build(client)
	require.NoError(t, err)
	return a
}

func TestRunImmediateFinish(t *testing.T) {
	client := &scriptedClient{responses: []*model.Response{finish("done")}}
	exec := New(newAgent(t, client))

	out, err := exec.Run(context.Background(), agent.NewInput("q"))
	require.NoError(t, err)
	require.Equal(t, "done", out.FinalAnswer)
	require.Empty(t, out.Steps)
	require.Equal(t, usage(7, 3), out.Usage)
}

func TestRunToolThenFinish(t *testing.T) {
	tool := &countingTool{name: "echo"}
	client := &scriptedClient{responses: []*model.Response{
		action("echo", "hi"),
		finish("done"),
	}}
	exec := New(newAgent(t, client, tool))

	out, err := exec.Run(context.Background(), agent.NewInput("q"))
	require.NoError(t, err)
	require.Equal(t, "done", out.FinalAnswer)
	require.Equal(t, 1, tool.calls)
	require.Len(t, out.Steps, 1)
	require.Equal(t, "echo", out.Steps[0].ToolCall.Name)
	require.Equal(t, "observation", out.Steps[0].Result)

	// Usage accumulates across both planning calls.
	require.Equal(t, usage(14, 6), out.Usage)
}

func TestRunAbortsAfterConsecutiveFails(t *testing.T) {
	client := &scriptedClient{responses: []*model.Response{
		action("missing", "x"),
		action("missing", "x"),
		action("missing", "x"),
	}}
	exec := New(newAgent(t, client))

	_, err := exec.Run(context.Background(), agent.NewInput("q"))
	require.ErrorIs(t, err, ErrTooManyFails)
	require.Contains(t, err.Error(), "3 in a row")
	require.Len(t, client.requests, 3)
}

func TestRunSuccessResetsFailureStreak(t *testing.T) {
	tool := &countingTool{name: "echo"}
	client := &scriptedClient{responses: []*model.Response{
		action("missing", "x"),
		action("missing", "x"),
		action("echo", "hi"),
		action("missing", "x"),
		action("missing", "x"),
		action("echo", "hi"),
		finish("done"),
	}}
	exec := New(newAgent(t, client, tool))

	out, err := exec.Run(context.Background(), agent.NewInput("q"))
	require.NoError(t, err)
	require.Equal(t, "done", out.FinalAnswer)
	require.Equal(t, 2, tool.calls)
}

func TestRunIterationCapForcesUltimatum(t *testing.T) {
	tool := &countingTool{name: "echo"}
	client := &scriptedClient{responses: []*model.Response{
		action("echo", "first"),
		action("echo", "second"),
		finish("forced answer"),
	}}
	exec := New(newAgent(t, client, tool), WithMaxIterations(1))

	out, err := exec.Run(context.Background(), agent.NewInput("q"))
	require.NoError(t, err)
	require.Equal(t, "forced answer", out.FinalAnswer)

	// The second action was not executed.
	require.Equal(t, 1, tool.calls)
	require.Len(t, out.Steps, 1)

	// The third planning call saw the ultimatum.
	msgs := client.requests[2].Messages
	last := msgs[len(msgs)-1]
	require.Equal(t, model.RoleHuman, last.Role)
	require.Equal(t, agent.ForceFinalAnswer, last.Content)
}

func TestRunWithoutIterationCapNeverForces(t *testing.T) {
	tool := &countingTool{name: "echo"}
	responses := make([]*model.Response, 0, 16)
	for range 15 {
		responses = append(responses, action("echo", "again"))
	}
	responses = append(responses, finish("done"))
	client := &scriptedClient{responses: responses}
	exec := New(newAgent(t, client, tool), WithoutMaxIterations())

	out, err := exec.Run(context.Background(), agent.NewInput("q"))
	require.NoError(t, err)
	require.Equal(t, 15, tool.calls)
	require.Len(t, out.Steps, 15)
}

func TestRunUsageLimitExceeded(t *testing.T) {
	tool := &countingTool{name: "echo", limit: 1}
	client := &scriptedClient{responses: []*model.Response{
		action("echo", "one"),
		action("echo", "two"),
		finish("done"),
	}}
	exec := New(newAgent(t, client, tool))

	out, err := exec.Run(context.Background(), agent.NewInput("q"))
	require.NoError(t, err)
	require.Equal(t, 1, tool.calls)
	require.Len(t, out.Steps, 1)
	require.Equal(t, "done", out.FinalAnswer)
}

func TestRunWritesMemoryOnlyOnSuccess(t *testing.T) {
	mem := memory.NewBuffer()
	tool := &countingTool{name: "echo"}
	client := &scriptedClient{responses: []*model.Response{
		action("echo", "hi"),
		finish("done"),
	}}
	exec := New(newAgent(t, client, tool), WithMemory(mem))

	_, err := exec.Run(context.Background(), agent.NewInput("the question"))
	require.NoError(t, err)

	msgs, err := mem.Messages(context.Background())
	require.NoError(t, err)
	require.Len(t, msgs, 4)
	require.Equal(t, "the question", msgs[0].Content)
	require.Equal(t, model.RoleAI, msgs[1].Role)
	require.Equal(t, model.RoleTool, msgs[2].Role)
	require.Equal(t, msgs[1].ToolCalls[0].ID, msgs[2].ID)
	require.Equal(t, "done", msgs[3].Content)
}

func TestRunAbortedLeavesMemoryUntouched(t *testing.T) {
	mem := memory.NewBuffer()
	client := &scriptedClient{responses: []*model.Response{
		action("missing", "x"),
		action("missing", "x"),
		action("missing", "x"),
	}}
	exec := New(newAgent(t, client), WithMemory(mem))

	_, err := exec.Run(context.Background(), agent.NewInput("q"))
	require.ErrorIs(t, err, ErrTooManyFails)

	msgs, err := mem.Messages(context.Background())
	require.NoError(t, err)
	require.Empty(t, msgs)
}

func TestRunLoadsHistoryFromMemory(t *testing.T) {
	mem := memory.NewBuffer(model.NewHumanMessage("earlier"), model.NewAIMessage("past answer"))
	client := &scriptedClient{responses: []*model.Response{finish("done")}}
	exec := New(newAgent(t, client), WithMemory(mem))

	_, err := exec.Run(context.Background(), agent.NewInput("q"))
	require.NoError(t, err)

	var found bool
	for _, msg := range client.requests[0].Messages {
		if msg.Content == "earlier" {
			found = true
		}
	}
	require.True(t, found)
}

func TestRunValidatorRejectionForcesReplan(t *testing.T) {
	client := &scriptedClient{responses: []*model.Response{
		finish("too short"),
		finish("a much more thorough final answer"),
	}}
	validator := FinalAnswerValidatorFunc(func(answer string, _ []model.AgentStep) bool {
		return len(answer) > 20
	})
	exec := New(newAgent(t, client), WithValidator(validator))

	out, err := exec.Run(context.Background(), agent.NewInput("q"))
	require.NoError(t, err)
	require.Equal(t, "a much more thorough final answer", out.FinalAnswer)
	require.Len(t, client.requests, 2)
}

func TestRunValidatorRejectionCountsTowardAbort(t *testing.T) {
	client := &scriptedClient{responses: []*model.Response{
		finish("bad"), finish("bad"), finish("bad"),
	}}
	validator := FinalAnswerValidatorFunc(func(string, []model.AgentStep) bool { return false })
	exec := New(newAgent(t, client), WithValidator(validator))

	_, err := exec.Run(context.Background(), agent.NewInput("q"))
	require.ErrorIs(t, err, ErrTooManyFails)
}

func TestRunToolErrorIsTransientByDefault(t *testing.T) {
	tool := &countingTool{name: "echo", fail: errors.New("boom")}
	client := &scriptedClient{responses: []*model.Response{
		action("echo", "hi"),
		finish("recovered"),
	}}
	exec := New(newAgent(t, client, tool))

	out, err := exec.Run(context.Background(), agent.NewInput("q"))
	require.NoError(t, err)
	require.Equal(t, "recovered", out.FinalAnswer)
	require.Empty(t, out.Steps)
}

func TestRunBreakOnToolError(t *testing.T) {
	tool := &countingTool{name: "echo", fail: errors.New("boom")}
	client := &scriptedClient{responses: []*model.Response{
		action("echo", "hi"),
	}}
	exec := New(newAgent(t, client, tool), WithBreakOnToolError())

	_, err := exec.Run(context.Background(), agent.NewInput("q"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "echo")
	require.Contains(t, err.Error(), "boom")
}

func TestRunPlanErrorIsTransient(t *testing.T) {
	// The first response is a botched structured attempt, which is a parse
	// error rather than a final answer.
	client := &scriptedClient{responses: []*model.Response{
		{Text: `{"action": 123, "action_input": {}}`, Usage: usage(7, 3)},
		finish("recovered"),
	}}
	exec := New(newAgent(t, client))

	out, err := exec.Run(context.Background(), agent.NewInput("q"))
	require.NoError(t, err)
	require.Equal(t, "recovered", out.FinalAnswer)

	// Usage of the failed planning call is not counted; only successful
	// plans report usage.
	require.Equal(t, usage(7, 3), out.Usage)
}

func TestRunContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := &scriptedClient{responses: []*model.Response{finish("done")}}
	exec := New(newAgent(t, client))

	_, err := exec.Run(ctx, agent.NewInput("q"))
	require.ErrorIs(t, err, context.Canceled)
}

func TestRunOnStepCallback(t *testing.T) {
	tool := &countingTool{name: "echo"}
	client := &scriptedClient{responses: []*model.Response{
		action("echo", "hi"),
		finish("done"),
	}}

	var seen []string
	exec := New(newAgent(t, client, tool), WithOnStep(func(_ context.Context, step model.AgentStep) {
		seen = append(seen, step.ToolCall.Name)
	}))

	_, err := exec.Run(context.Background(), agent.NewInput("q"))
	require.NoError(t, err)
	require.Equal(t, []string{"echo"}, seen)
}

// summarizingTool condenses its observation.
type summarizingTool struct {
	countingTool
}

func (t *summarizingTool) Summarize(result string) string {
	return result[:4] + "..."
}

func TestRunRecordsToolSummary(t *testing.T) {
	tool := &summarizingTool{countingTool{name: "echo"}}
	client := &scriptedClient{responses: []*model.Response{
		action("echo", "hi"),
		finish("done"),
	}}
	exec := New(newAgent(t, client, tool))

	out, err := exec.Run(context.Background(), agent.NewInput("q"))
	require.NoError(t, err)
	require.Len(t, out.Steps, 1)
	require.Equal(t, "observation", out.Steps[0].Result)
	require.Equal(t, "obse...", out.Steps[0].Summary)
}

func TestRunBatchAbortsOnFirstFailure(t *testing.T) {
	good := &countingTool{name: "good"}
	client := &scriptedClient{responses: []*model.Response{
		// One batch: unknown tool first, then a valid one.
		{ToolCalls: []model.ToolCall{
			model.NewToolCall("1", "missing", nil),
			model.NewToolCall("2", "good", nil),
		}},
		finish("done"),
	}}
	exec := New(newAgent(t, client, good))

	out, err := exec.Run(context.Background(), agent.NewInput("q"))
	require.NoError(t, err)
	require.Equal(t, "done", out.FinalAnswer)

	// The failure on the first call aborted the batch.
	require.Equal(t, 0, good.calls)
}

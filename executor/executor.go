// Package executor drives the plan, act, observe loop of a run: it feeds the
// agent, executes the requested tools, enforces iteration and failure limits,
// accounts token usage and persists the completed run to memory.
package executor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"goa.design/braid/agent"
	"goa.design/braid/diary"
	"goa.design/braid/memory"
	"goa.design/braid/model"
	"goa.design/braid/telemetry"
	"goa.design/braid/tools"
)

const (
	// DefaultMaxIterations caps tool steps per run unless overridden.
	DefaultMaxIterations = 10
	// DefaultMaxConsecutiveFails aborts a run after this many failures in a
	// row unless overridden.
	DefaultMaxConsecutiveFails = 3
)

// ErrTooManyFails aborts a run whose consecutive-failure streak reached the
// configured threshold.
var ErrTooManyFails = errors.New("too many consecutive fails")

type (
	// Executor runs an agent to completion.
	Executor struct {
		agent            agent.Agent
		mem              memory.Memory
		maxIter          *int
		maxFail          *int
		breakOnToolError bool
		validator        FinalAnswerValidator
		log              telemetry.Logger
		metrics          telemetry.Metrics
		tracer           telemetry.Tracer
		onStep           func(context.Context, model.AgentStep)
	}

	// Option customizes an Executor.
	Option func(*Executor)

	// runState is the per-run mutable state. It is created at Run entry and
	// dropped when Run returns.
	runState struct {
		steps     *diary.Simple
		useCounts map[string]int
		fails     int
		usage     *model.TokenUsage
	}
)

// WithMemory attaches a conversation memory. History is loaded at run entry
// and the completed run is written back on success.
func WithMemory(m memory.Memory) Option {
	return func(e *Executor) { e.mem = m }
}

// WithMaxIterations overrides the iteration cap.
func WithMaxIterations(n int) Option {
	return func(e *Executor) { e.maxIter = &n }
}

// WithoutMaxIterations disables the iteration cap; the ultimatum never
// triggers.
func WithoutMaxIterations() Option {
	return func(e *Executor) { e.maxIter = nil }
}

// WithMaxConsecutiveFails overrides the abort threshold.
func WithMaxConsecutiveFails(n int) Option {
	return func(e *Executor) { e.maxFail = &n }
}

// WithoutMaxConsecutiveFails disables the abort threshold.
func WithoutMaxConsecutiveFails() Option {
	return func(e *Executor) { e.maxFail = nil }
}

// WithBreakOnToolError makes tool execution errors abort the whole run
// instead of feeding back into planning.
func WithBreakOnToolError() Option {
	return func(e *Executor) { e.breakOnToolError = true }
}

// WithValidator gates final answers. Rejected answers count as failures and
// force another planning cycle.
func WithValidator(v FinalAnswerValidator) Option {
	return func(e *Executor) { e.validator = v }
}

// WithLogger installs a logger.
func WithLogger(log telemetry.Logger) Option {
	return func(e *Executor) { e.log = log }
}

// WithMetrics installs a metrics recorder.
func WithMetrics(m telemetry.Metrics) Option {
	return func(e *Executor) { e.metrics = m }
}

// WithTracer installs a tracer.
func WithTracer(t telemetry.Tracer) Option {
	return func(e *Executor) { e.tracer = t }
}

// WithOnStep registers a callback invoked after every successful tool step.
func WithOnStep(fn func(context.Context, model.AgentStep)) Option {
	return func(e *Executor) { e.onStep = fn }
}

// New builds an executor over the given agent with default limits.
func New(a agent.Agent, opts ...Option) *Executor {
	maxIter := DefaultMaxIterations
	maxFail := DefaultMaxConsecutiveFails
	e := &Executor{
		agent:   a,
		maxIter: &maxIter,
		maxFail: &maxFail,
		log:     telemetry.NoopLogger{},
		metrics: telemetry.NoopMetrics{},
		tracer:  telemetry.NoopTracer{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes the agent until it produces an accepted final answer or the
// failure threshold aborts it. Callers see only the two terminal outcomes;
// intermediate retries stay internal.
func (e *Executor) Run(ctx context.Context, input *agent.Input) (*model.AgentOutput, error) {
	started := time.Now()
	state := &runState{steps: diary.NewSimple(), useCounts: make(map[string]int)}

	if e.mem != nil {
		history, err := e.mem.Messages(ctx)
		if err != nil {
			return nil, fmt.Errorf("load memory: %w", err)
		}
		input.ChatHistory = history
	}
	e.logInitialPrompt(ctx, input)

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if e.maxFail != nil && state.fails >= *e.maxFail {
			e.metrics.IncCounter("executor.aborts", 1)
			return nil, fmt.Errorf("%w (%d in a row)", ErrTooManyFails, state.fails)
		}

		res, err := e.plan(ctx, state, input)
		if err != nil {
			state.fails++
			e.log.Warn(ctx, "planning failed", "err", err, "consecutive_fails", state.fails)
			e.metrics.IncCounter("executor.plan_failures", 1)
			continue
		}
		state.usage = model.MergeUsage(state.usage, res.Usage)

		if res.Event.IsFinish() {
			out, err := e.finalize(ctx, state, input, *res.Event.FinalAnswer)
			if err != nil {
				return nil, err
			}
			if out == nil {
				continue
			}
			e.metrics.RecordTimer("executor.run_duration", time.Since(started))
			return out, nil
		}

		if e.maxIter != nil && state.steps.Len() >= *e.maxIter {
			e.log.Warn(ctx, "iteration cap reached, demanding final answer", "steps", state.steps.Len())
			input.EnableUltimatum()
			continue
		}

		if err := e.act(ctx, state, res.Event.ToolCalls); err != nil {
			return nil, err
		}
	}
}

// plan runs one agent planning call inside a span.
func (e *Executor) plan(ctx context.Context, state *runState, input *agent.Input) (*model.AgentResult, error) {
	ctx, span := e.tracer.Start(ctx, "executor.plan")
	defer span.End()
	res, err := e.agent.Plan(ctx, state.steps.Steps(), input)
	if err != nil {
		span.RecordError(err)
	}
	return res, err
}

// act executes one batch of tool calls sequentially, aborting the batch on
// the first failure. Successful steps reset the failure streak. The returned
// error is non-nil only when a tool error is configured to be fatal.
func (e *Executor) act(ctx context.Context, state *runState, calls []model.ToolCall) error {
	for _, call := range calls {
		name := tools.NormalizeName(call.Name)

		tool, err := e.agent.Tool(ctx, name)
		if err != nil {
			state.fails++
			e.log.Warn(ctx, "tool not found", "tool", name, "consecutive_fails", state.fails)
			e.metrics.IncCounter("executor.tool_failures", 1, "reason", "not_found")
			return nil
		}

		if limit := tool.UsageLimit(); limit > 0 {
			state.useCounts[name]++
			if state.useCounts[name] > limit {
				state.fails++
				e.log.Warn(ctx, "tool usage limit exceeded", "tool", name, "limit", limit)
				e.metrics.IncCounter("executor.tool_failures", 1, "reason", "limit_exceeded")
				return nil
			}
		}

		result, err := e.execute(ctx, tool, call)
		if err != nil {
			if e.breakOnToolError {
				return fmt.Errorf("tool %s: %w", name, err)
			}
			state.fails++
			e.log.Warn(ctx, "tool call failed", "tool", name, "err", err)
			e.metrics.IncCounter("executor.tool_failures", 1, "reason", "execution")
			return nil
		}

		step := model.NewAgentStep(call, result)
		if s, ok := tool.(tools.Summarizer); ok {
			step.Summary = s.Summarize(result)
		}
		state.steps.Append(step)
		state.fails = 0
		if e.onStep != nil {
			e.onStep(ctx, step)
		}
	}
	return nil
}

// execute runs one tool call inside a span, validating strict inputs first.
func (e *Executor) execute(ctx context.Context, tool tools.Tool, call model.ToolCall) (string, error) {
	ctx, span := e.tracer.Start(ctx, "executor.tool")
	defer span.End()
	if tool.Strict() {
		if err := tools.ValidateInput(tool.Schema(), call.Arguments); err != nil {
			span.RecordError(err)
			return "", err
		}
	}
	result, err := tool.Call(ctx, call.Arguments)
	if err != nil {
		span.RecordError(err)
	}
	return result, err
}

// finalize validates the answer and writes the run to memory. A rejected
// answer counts as a failure and returns a nil output so the loop plans
// again; a memory write failure is fatal. The memory update is the last
// fallible step so an aborted run never mutates shared history.
func (e *Executor) finalize(ctx context.Context, state *runState, input *agent.Input, answer string) (*model.AgentOutput, error) {
	if e.validator != nil && !e.validator.ValidateFinalAnswer(answer, state.steps.Steps()) {
		state.fails++
		e.log.Warn(ctx, "final answer rejected by validator", "consecutive_fails", state.fails)
		e.metrics.IncCounter("executor.validator_rejections", 1)
		return nil, nil
	}
	if e.mem != nil {
		if err := e.mem.Update(ctx, input.Text(), state.steps.Steps(), answer); err != nil {
			return nil, fmt.Errorf("update memory: %w", err)
		}
	}
	return &model.AgentOutput{
		FinalAnswer: answer,
		Steps:       state.steps.Steps(),
		Usage:       state.usage,
	}, nil
}

// logInitialPrompt debug-logs the formatted prompt once, before the loop
// starts, with an empty scratchpad.
func (e *Executor) logInitialPrompt(ctx context.Context, input *agent.Input) {
	msgs, err := e.agent.Prompt(input)
	if err != nil {
		return
	}
	e.log.Debug(ctx, "initial prompt", "messages", model.Render(msgs))
}

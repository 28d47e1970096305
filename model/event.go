package model

type (
	// AgentEvent is one planning decision: either a batch of tool calls to
	// execute or a final answer that terminates the run. Exactly one of the
	// two is set.
	AgentEvent struct {
		// ToolCalls lists the requested invocations, in order.
		ToolCalls []ToolCall
		// FinalAnswer holds the terminal answer. Nil while tools are
		// requested.
		FinalAnswer *string
	}

	// AgentResult pairs a planning decision with the token usage of the model
	// call that produced it.
	AgentResult struct {
		// Event is the decision.
		Event AgentEvent
		// Usage is the token accounting for the call, when reported.
		Usage *TokenUsage
	}

	// AgentStep records one executed tool call and the observation it
	// produced.
	AgentStep struct {
		// ToolCall is the invocation that was executed.
		ToolCall ToolCall `json:"tool_call"`
		// Result is the textual observation returned by the tool.
		Result string `json:"result"`
		// Summary optionally condenses the result, for tools whose full
		// output is too large for downstream consumers.
		Summary string `json:"summary,omitempty"`
	}

	// AgentOutput is the result of a completed run.
	AgentOutput struct {
		// FinalAnswer is the validated terminal answer.
		FinalAnswer string
		// Steps lists the tool invocations performed during the run.
		Steps []AgentStep
		// Usage is the merged token accounting across all planning calls.
		Usage *TokenUsage
	}
)

// NewActionEvent returns an event requesting the given tool calls.
func NewActionEvent(calls ...ToolCall) AgentEvent {
	return AgentEvent{ToolCalls: calls}
}

// NewFinishEvent returns an event carrying the final answer.
func NewFinishEvent(answer string) AgentEvent {
	return AgentEvent{FinalAnswer: &answer}
}

// IsFinish reports whether the event terminates the run.
func (e AgentEvent) IsFinish() bool {
	return e.FinalAnswer != nil
}

// NewAgentStep builds a step from a call and its observation.
func NewAgentStep(call ToolCall, result string) AgentStep {
	return AgentStep{ToolCall: call, Result: result}
}

package model

import (
	"context"
	"fmt"
)

type (
	// ToolDefinition describes a tool to providers that support native tool
	// calling.
	ToolDefinition struct {
		// Name is the normalized tool name.
		Name string `json:"name"`
		// Description explains when to use the tool.
		Description string `json:"description"`
		// Schema is the JSON schema of the tool input object.
		Schema map[string]any `json:"parameters"`
		// Strict requests provider-side schema enforcement.
		Strict bool `json:"strict,omitempty"`
	}

	// Request is one generation request: the conversation so far plus the
	// tools the model may call natively. Tools is empty for text-protocol
	// agents.
	Request struct {
		// Messages is the full prompt, in order.
		Messages []Message
		// Tools lists the callable tool definitions, if any.
		Tools []ToolDefinition
	}

	// Response is the outcome of one model generation.
	Response struct {
		// Text is the generated content.
		Text string
		// ToolCalls lists native tool invocations requested by the model.
		ToolCalls []ToolCall
		// Refusal is the provider refusal reason, when the model declined.
		Refusal string
		// Usage is the token accounting for the call, when reported.
		Usage *TokenUsage
	}

	// Client is the minimal contract a model provider must satisfy.
	Client interface {
		// Generate runs one completion over the request messages.
		Generate(ctx context.Context, req Request) (*Response, error)
	}

	// RefusalError is returned when the model refuses to answer.
	RefusalError struct {
		// Reason is the provider-supplied refusal text.
		Reason string
	}
)

// Error implements error.
func (e *RefusalError) Error() string {
	return fmt.Sprintf("model refused to answer: %s", e.Reason)
}

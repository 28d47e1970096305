// Package model defines the shared data types exchanged between agents,
// instructors, memories and the executor: chat messages, tool calls, planner
// events and token accounting.
package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

type (
	// Role identifies the author of a chat message.
	Role string

	// Message is a single entry in a chat transcript. A message either
	// carries text content or, for assistant messages that request tool
	// invocations, a list of tool calls. Tool result messages reference the
	// originating call through ID.
	Message struct {
		// Role is the author of the message.
		Role Role `json:"role"`
		// Content is the textual payload. Empty for pure tool-call messages.
		Content string `json:"content"`
		// ID correlates a tool result with the call that produced it.
		ID string `json:"id,omitempty"`
		// ToolCalls lists the invocations requested by an assistant message.
		ToolCalls []ToolCall `json:"tool_calls,omitempty"`
	}
)

const (
	// RoleSystem marks system instructions.
	RoleSystem Role = "system"
	// RoleHuman marks end-user input.
	RoleHuman Role = "user"
	// RoleAI marks assistant output.
	RoleAI Role = "assistant"
	// RoleTool marks tool execution results.
	RoleTool Role = "tool"
)

// NewSystemMessage returns a system message with the given content.
func NewSystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// NewHumanMessage returns a user message with the given content.
func NewHumanMessage(content string) Message {
	return Message{Role: RoleHuman, Content: content}
}

// NewAIMessage returns an assistant message with the given content.
func NewAIMessage(content string) Message {
	return Message{Role: RoleAI, Content: content}
}

// NewToolCallMessage returns an assistant message requesting the given tool
// invocations.
func NewToolCallMessage(calls ...ToolCall) Message {
	return Message{Role: RoleAI, ToolCalls: calls}
}

// NewToolMessage returns a tool result message correlated with the call
// identified by id.
func NewToolMessage(id, content string) Message {
	return Message{Role: RoleTool, Content: content, ID: id}
}

// String renders the message for prompt text and transcripts.
func (m Message) String() string {
	if len(m.ToolCalls) > 0 {
		parts := make([]string, len(m.ToolCalls))
		for i, c := range m.ToolCalls {
			parts[i] = c.String()
		}
		return fmt.Sprintf("%s: %s", m.Role, strings.Join(parts, "\n"))
	}
	return fmt.Sprintf("%s: %s", m.Role, m.Content)
}

// Render joins messages into a human-readable transcript, one message per
// line.
func Render(msgs []Message) string {
	lines := make([]string, len(msgs))
	for i, m := range msgs {
		lines[i] = m.String()
	}
	return strings.Join(lines, "\n")
}

// ToolCall is a planner request to invoke a named tool with JSON arguments.
type ToolCall struct {
	// ID uniquely identifies the call within a run.
	ID string `json:"id"`
	// Name is the tool name as produced by the model. Lookups normalize it.
	Name string `json:"name"`
	// Arguments is the decoded JSON input for the tool.
	Arguments any `json:"arguments"`
}

// NewToolCall builds a tool call.
func NewToolCall(id, name string, args any) ToolCall {
	return ToolCall{ID: id, Name: name, Arguments: args}
}

// String renders the call as the action JSON object used in text-protocol
// scratchpads.
func (c ToolCall) String() string {
	b, err := json.MarshalIndent(map[string]any{
		"action":       c.Name,
		"action_input": c.Arguments,
	}, "", "  ")
	if err != nil {
		return fmt.Sprintf("action: %s", c.Name)
	}
	return string(b)
}

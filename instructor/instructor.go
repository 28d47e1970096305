// Package instructor turns raw model text into planning events. An
// instructor owns both sides of the text protocol: the prompt suffix that
// teaches the model the output format, and the parser that recovers a
// decision from whatever the model actually produced.
package instructor

import (
	"fmt"

	"goa.design/braid/model"
	"goa.design/braid/tools"
)

type (
	// Instructor defines a text protocol between an agent and a model.
	Instructor interface {
		// Suffix renders the protocol instructions appended to the system
		// prompt, describing the given tools.
		Suffix(ts []tools.Tool) string
		// Parse recovers a planning event from model output. Text that is
		// neither an event nor a failed attempt at one is treated as a final
		// answer.
		Parse(output string) (model.AgentEvent, error)
	}

	// ParseError reports model output that looked like a structured decision
	// but could not be decoded. It carries the offending text so callers can
	// log or surface it.
	ParseError struct {
		// Text is the cleaned-up output that failed to decode.
		Text string
		// Err is the underlying decode failure.
		Err error
	}
)

// Error implements error.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse agent output: %v: %q", e.Err, e.Text)
}

// Unwrap exposes the decode failure.
func (e *ParseError) Unwrap() error {
	return e.Err
}

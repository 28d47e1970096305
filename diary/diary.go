// Package diary records the tool steps taken during a single run. Unlike
// memory, a diary is run-local scratch state and is discarded when the run
// ends.
package diary

import (
	"strings"

	"goa.design/braid/model"
)

type (
	// Diary is the ordered record of executed steps within one run.
	Diary interface {
		// Append records a step.
		Append(step model.AgentStep)
		// Steps returns the recorded steps, oldest first.
		Steps() []model.AgentStep
		// Len returns the number of recorded steps.
		Len() int
	}

	// Simple is the slice-backed diary the executor uses. It is not safe
	// for concurrent use; a run owns its diary.
	Simple struct {
		steps []model.AgentStep
	}
)

// NewSimple returns a diary seeded with the given steps.
func NewSimple(steps ...model.AgentStep) *Simple {
	return &Simple{steps: append([]model.AgentStep(nil), steps...)}
}

// Append records a step.
func (d *Simple) Append(step model.AgentStep) {
	d.steps = append(d.steps, step)
}

// Steps returns the recorded steps, oldest first.
func (d *Simple) Steps() []model.AgentStep {
	return d.steps
}

// Len returns the number of recorded steps.
func (d *Simple) Len() int {
	return len(d.steps)
}

// Render returns the steps as call/observation text, one block per step.
func (d *Simple) Render() string {
	blocks := make([]string, len(d.steps))
	for i, step := range d.steps {
		blocks[i] = step.ToolCall.String() + "\n" + step.Result
	}
	return strings.Join(blocks, "\n\n")
}

package executor

import "goa.design/braid/model"

type (
	// FinalAnswerValidator gates final answers before a run completes.
	// Rejecting an answer forces another planning cycle, which lets callers
	// demand more tool use or a different answer shape.
	FinalAnswerValidator interface {
		// ValidateFinalAnswer reports whether the answer is acceptable given
		// the steps taken.
		ValidateFinalAnswer(answer string, steps []model.AgentStep) bool
	}

	// FinalAnswerValidatorFunc adapts a function to FinalAnswerValidator.
	FinalAnswerValidatorFunc func(answer string, steps []model.AgentStep) bool
)

// ValidateFinalAnswer calls the function.
func (f FinalAnswerValidatorFunc) ValidateFinalAnswer(answer string, steps []model.AgentStep) bool {
	return f(answer, steps)
}

package agent

import "goa.design/braid/model"

// Input carries the variable state of one run: the text replacements for the
// prompt templates and the message lists bound to the prompt placeholders.
// The executor mutates it as the run progresses.
type Input struct {
	// Vars holds the {{var}} replacements, including "input".
	Vars map[string]string
	// ChatHistory is the memory content bound to the chat_history
	// placeholder.
	ChatHistory []model.Message
	// Scratchpad is the rendered step transcript bound to the
	// agent_scratchpad placeholder. Agents rebuild it on every plan.
	Scratchpad []model.Message
	// Ultimatum is bound to the ultimatum placeholder. Empty until the run
	// hits its iteration limit.
	Ultimatum []model.Message
}

// NewInput builds the input for a run over the given user text.
func NewInput(text string) *Input {
	return &Input{Vars: map[string]string{"input": text}}
}

// Text returns the user text of the run.
func (in *Input) Text() string {
	return in.Vars["input"]
}

// SetVar binds an additional prompt variable.
func (in *Input) SetVar(name, value string) {
	if in.Vars == nil {
		in.Vars = make(map[string]string)
	}
	in.Vars[name] = value
}

// EnableUltimatum arms the ultimatum: an empty assistant turn followed by
// the demand for a final answer. Subsequent plans see it; tool use is over.
func (in *Input) EnableUltimatum() {
	in.Ultimatum = []model.Message{
		model.NewAIMessage(""),
		model.NewHumanMessage(ForceFinalAnswer),
	}
}

// UltimatumEnabled reports whether the ultimatum has been armed.
func (in *Input) UltimatumEnabled() bool {
	return len(in.Ultimatum) > 0
}

// placeholders binds the message lists to their placeholder names.
func (in *Input) placeholders() map[string][]model.Message {
	return map[string][]model.Message{
		"chat_history":     in.ChatHistory,
		"agent_scratchpad": in.Scratchpad,
		"ultimatum":        in.Ultimatum,
	}
}

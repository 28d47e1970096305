package agent

import (
	"context"

	"goa.design/braid/instructor"
	"goa.design/braid/model"
	"goa.design/braid/telemetry"
	"goa.design/braid/template"
	"goa.design/braid/tools"
)

type (
	// Conversational is the text-protocol agent: the instructor suffix
	// teaches the model to emit JSON decisions and parses them back out of
	// free-form text. It works with any model that can follow instructions,
	// whether or not the provider supports native tool calling.
	Conversational struct {
		client model.Client
		prompt *template.Prompt
		inst   instructor.Instructor
		tools  map[string]tools.Tool
		boxes  []tools.Toolbox
		log    telemetry.Logger
	}

	// ConversationalBuilder assembles a Conversational agent.
	ConversationalBuilder struct {
		tools         []tools.Tool
		boxes         []tools.Toolbox
		systemPrompt  string
		initialPrompt string
		inst          instructor.Instructor
		log           telemetry.Logger
	}
)

// NewConversational starts a builder with default prompts and instructor.
func NewConversational() *ConversationalBuilder {
	return &ConversationalBuilder{
		systemPrompt:  DefaultSystemPrompt,
		initialPrompt: DefaultInitialPrompt,
		inst:          instructor.Default{},
		log:           telemetry.NoopLogger{},
	}
}

// WithTools declares the static tools available to the agent.
func (b *ConversationalBuilder) WithTools(ts ...tools.Tool) *ConversationalBuilder {
	b.tools = append(b.tools, ts...)
	return b
}

// WithToolboxes attaches toolboxes. Each toolbox contributes a discovery
// tool to the prompt; its members resolve lazily at execution time.
func (b *ConversationalBuilder) WithToolboxes(boxes ...tools.Toolbox) *ConversationalBuilder {
	for _, box := range boxes {
		b.boxes = append(b.boxes, tools.NewCached(box))
	}
	return b
}

// WithSystemPrompt overrides the system message.
func (b *ConversationalBuilder) WithSystemPrompt(s string) *ConversationalBuilder {
	b.systemPrompt = s
	return b
}

// WithInitialPrompt overrides the user message template.
func (b *ConversationalBuilder) WithInitialPrompt(s string) *ConversationalBuilder {
	b.initialPrompt = s
	return b
}

// WithInstructor overrides the text protocol.
func (b *ConversationalBuilder) WithInstructor(inst instructor.Instructor) *ConversationalBuilder {
	b.inst = inst
	return b
}

// WithLogger installs a logger.
func (b *ConversationalBuilder) WithLogger(log telemetry.Logger) *ConversationalBuilder {
	b.log = log
	return b
}

// Build assembles the agent over the given model client.
func (b *ConversationalBuilder) Build(client model.Client) (*Conversational, error) {
	static := staticTools(b.tools, b.boxes)
	suffix := b.inst.Suffix(sortedTools(static))

	prompt := template.New(
		template.System(b.systemPrompt+suffix),
		template.Placeholder("chat_history"),
		template.Human(b.initialPrompt),
		template.Placeholder("agent_scratchpad"),
		template.Placeholder("ultimatum"),
	)
	return &Conversational{
		client: client,
		prompt: prompt,
		inst:   b.inst,
		tools:  static,
		boxes:  b.boxes,
		log:    b.log,
	}, nil
}

// Plan renders the prompt with the current scratchpad, calls the model and
// parses the decision out of its text.
func (c *Conversational) Plan(ctx context.Context, steps []model.AgentStep, input *Input) (*model.AgentResult, error) {
	input.Scratchpad = Scratchpad(steps)
	msgs, err := c.prompt.Format(input.Vars, input.placeholders())
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Generate(ctx, model.Request{Messages: msgs})
	if err != nil {
		return nil, err
	}
	if resp.Refusal != "" {
		return nil, &model.RefusalError{Reason: resp.Refusal}
	}
	// Providers that call tools natively bypass the text protocol.
	if len(resp.ToolCalls) > 0 {
		return &model.AgentResult{Event: model.NewActionEvent(resp.ToolCalls...), Usage: resp.Usage}, nil
	}
	ev, err := c.inst.Parse(resp.Text)
	if err != nil {
		return nil, err
	}
	return &model.AgentResult{Event: ev, Usage: resp.Usage}, nil
}

// Tool resolves a tool by name.
func (c *Conversational) Tool(ctx context.Context, name string) (tools.Tool, error) {
	return resolveTool(ctx, c.tools, c.boxes, name)
}

// Prompt renders the messages Plan would send with the current input state.
func (c *Conversational) Prompt(input *Input) ([]model.Message, error) {
	return c.prompt.Format(input.Vars, input.placeholders())
}

// Scratchpad renders executed steps for the text protocol: the call as an
// assistant turn and its observation as a user turn.
func Scratchpad(steps []model.AgentStep) []model.Message {
	msgs := make([]model.Message, 0, 2*len(steps))
	for _, step := range steps {
		msgs = append(msgs,
			model.NewAIMessage(step.ToolCall.String()),
			model.NewHumanMessage(step.Result),
		)
	}
	return msgs
}

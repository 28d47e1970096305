package agent

import (
	"context"
	"fmt"

	"goa.design/braid/instructor"
	"goa.design/braid/model"
	"goa.design/braid/telemetry"
	"goa.design/braid/template"
	"goa.design/braid/tools"
)

type (
	// ToolCalling is the provider-native agent: tool definitions travel with
	// the request and actions come back as structured calls, skipping text
	// parsing entirely. Only final answers go through the instructor.
	ToolCalling struct {
		client model.Client
		prompt *template.Prompt
		inst   instructor.Instructor
		defs   []model.ToolDefinition
		tools  map[string]tools.Tool
		boxes  []tools.Toolbox
		log    telemetry.Logger
	}

	// ToolCallingBuilder assembles a ToolCalling agent.
	ToolCallingBuilder struct {
		tools         []tools.Tool
		boxes         []tools.Toolbox
		systemPrompt  string
		initialPrompt string
		inst          instructor.Instructor
		log           telemetry.Logger
	}
)

// NewToolCalling starts a builder with default prompts.
func NewToolCalling() *ToolCallingBuilder {
	return &ToolCallingBuilder{
		systemPrompt:  DefaultSystemPrompt,
		initialPrompt: DefaultInitialPrompt,
		inst:          instructor.Default{},
		log:           telemetry.NoopLogger{},
	}
}

// WithTools declares the static tools available to the agent.
func (b *ToolCallingBuilder) WithTools(ts ...tools.Tool) *ToolCallingBuilder {
	b.tools = append(b.tools, ts...)
	return b
}

// WithToolboxes attaches toolboxes. Their members are fetched at build time
// so the provider sees every callable definition.
func (b *ToolCallingBuilder) WithToolboxes(boxes ...tools.Toolbox) *ToolCallingBuilder {
	for _, box := range boxes {
		b.boxes = append(b.boxes, tools.NewCached(box))
	}
	return b
}

// WithSystemPrompt overrides the system message.
func (b *ToolCallingBuilder) WithSystemPrompt(s string) *ToolCallingBuilder {
	b.systemPrompt = s
	return b
}

// WithInitialPrompt overrides the user message template.
func (b *ToolCallingBuilder) WithInitialPrompt(s string) *ToolCallingBuilder {
	b.initialPrompt = s
	return b
}

// WithInstructor overrides the parser applied to final answer text.
func (b *ToolCallingBuilder) WithInstructor(inst instructor.Instructor) *ToolCallingBuilder {
	b.inst = inst
	return b
}

// WithLogger installs a logger.
func (b *ToolCallingBuilder) WithLogger(log telemetry.Logger) *ToolCallingBuilder {
	b.log = log
	return b
}

// Build assembles the agent, fetching toolbox members so their definitions
// can be passed to the provider.
func (b *ToolCallingBuilder) Build(ctx context.Context, client model.Client) (*ToolCalling, error) {
	static := staticTools(b.tools, b.boxes)

	callable := sortedTools(static)
	for _, box := range b.boxes {
		members, err := box.Tools(ctx)
		if err != nil {
			return nil, fmt.Errorf("collect tools of toolbox %s: %w", box.Name(), err)
		}
		callable = append(callable, sortedTools(members)...)
	}

	prompt := template.New(
		template.System(b.systemPrompt),
		template.Placeholder("chat_history"),
		template.Human(b.initialPrompt),
		template.Placeholder("agent_scratchpad"),
		template.Placeholder("ultimatum"),
	)
	return &ToolCalling{
		client: client,
		prompt: prompt,
		inst:   b.inst,
		defs:   tools.Definitions(callable),
		tools:  static,
		boxes:  b.boxes,
		log:    b.log,
	}, nil
}

// Plan renders the prompt, calls the model with the tool definitions and
// maps the response to a decision.
func (t *ToolCalling) Plan(ctx context.Context, steps []model.AgentStep, input *Input) (*model.AgentResult, error) {
	input.Scratchpad = NativeScratchpad(steps)
	msgs, err := t.prompt.Format(input.Vars, input.placeholders())
	if err != nil {
		return nil, err
	}
	resp, err := t.client.Generate(ctx, model.Request{Messages: msgs, Tools: t.defs})
	if err != nil {
		return nil, err
	}
	if resp.Refusal != "" {
		return nil, &model.RefusalError{Reason: resp.Refusal}
	}
	if len(resp.ToolCalls) > 0 {
		return &model.AgentResult{Event: model.NewActionEvent(resp.ToolCalls...), Usage: resp.Usage}, nil
	}
	ev, err := t.inst.Parse(resp.Text)
	if err != nil {
		return nil, err
	}
	return &model.AgentResult{Event: ev, Usage: resp.Usage}, nil
}

// Tool resolves a tool by name.
func (t *ToolCalling) Tool(ctx context.Context, name string) (tools.Tool, error) {
	return resolveTool(ctx, t.tools, t.boxes, name)
}

// Prompt renders the messages Plan would send with the current input state.
func (t *ToolCalling) Prompt(input *Input) ([]model.Message, error) {
	return t.prompt.Format(input.Vars, input.placeholders())
}

// NativeScratchpad renders executed steps as structured tool-call and
// tool-result messages correlated by id.
func NativeScratchpad(steps []model.AgentStep) []model.Message {
	msgs := make([]model.Message, 0, 2*len(steps))
	for _, step := range steps {
		msgs = append(msgs,
			model.NewToolCallMessage(step.ToolCall),
			model.NewToolMessage(step.ToolCall.ID, step.Result),
		)
	}
	return msgs
}

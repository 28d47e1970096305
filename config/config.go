// Package config loads agent and executor settings from YAML so deployments
// can tune prompts and limits without recompiling.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"goa.design/braid/agent"
	"goa.design/braid/executor"
)

type (
	// Config is the YAML-loadable run configuration. Zero values defer to the
	// library defaults; pointer fields distinguish "unset" from an explicit
	// zero.
	Config struct {
		// Model names the LLM the caller should wire the client to. The
		// library does not dial providers itself, so this field is
		// informational for the embedding application.
		Model string `yaml:"model"`
		// SystemPrompt overrides the default system prompt when non-empty.
		SystemPrompt string `yaml:"system_prompt"`
		// InitialPrompt overrides the default initial prompt when non-empty.
		InitialPrompt string `yaml:"initial_prompt"`
		// MaxIterations caps tool steps per run. Unset keeps the default; an
		// explicit negative value disables the cap.
		MaxIterations *int `yaml:"max_iterations"`
		// MaxConsecutiveFails sets the abort threshold. Unset keeps the
		// default; an explicit negative value disables the threshold.
		MaxConsecutiveFails *int `yaml:"max_consecutive_fails"`
		// BreakOnToolError makes tool execution errors abort the run.
		BreakOnToolError bool `yaml:"break_on_tool_error"`
	}
)

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML configuration document.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.MaxIterations != nil && *c.MaxIterations == 0 {
		return fmt.Errorf("max_iterations must not be zero: use a negative value to disable the cap")
	}
	if c.MaxConsecutiveFails != nil && *c.MaxConsecutiveFails == 0 {
		return fmt.Errorf("max_consecutive_fails must not be zero: use a negative value to disable the threshold")
	}
	return nil
}

// ExecutorOptions translates the configuration into executor options.
func (c *Config) ExecutorOptions() []executor.Option {
	var opts []executor.Option
	if c.MaxIterations != nil {
		if *c.MaxIterations < 0 {
			opts = append(opts, executor.WithoutMaxIterations())
		} else {
			opts = append(opts, executor.WithMaxIterations(*c.MaxIterations))
		}
	}
	if c.MaxConsecutiveFails != nil {
		if *c.MaxConsecutiveFails < 0 {
			opts = append(opts, executor.WithoutMaxConsecutiveFails())
		} else {
			opts = append(opts, executor.WithMaxConsecutiveFails(*c.MaxConsecutiveFails))
		}
	}
	if c.BreakOnToolError {
		opts = append(opts, executor.WithBreakOnToolError())
	}
	return opts
}

// Apply sets the configured prompts on a conversational agent builder.
func (c *Config) Apply(b *agent.ConversationalBuilder) *agent.ConversationalBuilder {
	if c.SystemPrompt != "" {
		b = b.WithSystemPrompt(c.SystemPrompt)
	}
	if c.InitialPrompt != "" {
		b = b.WithInitialPrompt(c.InitialPrompt)
	}
	return b
}

// ApplyToolCalling sets the configured prompts on a tool-calling agent
// builder.
func (c *Config) ApplyToolCalling(b *agent.ToolCallingBuilder) *agent.ToolCallingBuilder {
	if c.SystemPrompt != "" {
		b = b.WithSystemPrompt(c.SystemPrompt)
	}
	if c.InitialPrompt != "" {
		b = b.WithInitialPrompt(c.InitialPrompt)
	}
	return b
}

package model

// TokenUsage accumulates token counts across model calls. TotalTokens is
// always the sum of PromptTokens and CompletionTokens.
type TokenUsage struct {
	// PromptTokens counts tokens sent to the model.
	PromptTokens uint32 `json:"prompt_tokens"`
	// CompletionTokens counts tokens produced by the model.
	CompletionTokens uint32 `json:"completion_tokens"`
	// TotalTokens is PromptTokens + CompletionTokens.
	TotalTokens uint32 `json:"total_tokens"`
}

// NewTokenUsage returns a usage record for the given prompt and completion
// counts.
func NewTokenUsage(prompt, completion uint32) TokenUsage {
	return TokenUsage{
		PromptTokens:     prompt,
		CompletionTokens: completion,
		TotalTokens:      prompt + completion,
	}
}

// Add returns the component-wise sum of u and other.
func (u TokenUsage) Add(other TokenUsage) TokenUsage {
	return NewTokenUsage(u.PromptTokens+other.PromptTokens, u.CompletionTokens+other.CompletionTokens)
}

// MergeUsage combines optional usage records. Nil values are identity
// elements; the result is nil only when every part is nil.
func MergeUsage(parts ...*TokenUsage) *TokenUsage {
	var acc *TokenUsage
	for _, p := range parts {
		if p == nil {
			continue
		}
		if acc == nil {
			u := *p
			acc = &u
			continue
		}
		sum := acc.Add(*p)
		acc = &sum
	}
	return acc
}

package parse

import (
	"encoding/json"
	"strings"
)

// ParsePartialJSON decodes text as JSON, progressively repairing common model
// mistakes when strict is false: raw newlines inside string literals, trailing
// commas, and truncated output missing closing brackets. Each repair stage
// reuses the output of the previous one. In strict mode no repair is
// attempted.
func ParsePartialJSON(text string, strict bool) (any, error) {
	v, err := decode(text)
	if err == nil {
		return v, nil
	}
	if strict {
		return nil, err
	}

	text = EscapeNewlines(text)
	if v, e := decode(text); e == nil {
		return v, nil
	}

	text = StripTrailingCommas(text)
	if v, e := decode(text); e == nil {
		return v, nil
	}

	text = BalanceBrackets(text)
	if v, e := decode(text); e == nil {
		return v, nil
	}
	return nil, err
}

func decode(text string) (any, error) {
	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return nil, err
	}
	return v, nil
}

// FlattenFinalAnswer unwraps arbitrarily nested {"final_answer": ...} objects
// and renders the innermost value as the answer text. String values are
// returned as is; anything else is pretty-printed JSON.
func FlattenFinalAnswer(v any) (string, error) {
	for {
		m, ok := v.(map[string]any)
		if !ok {
			break
		}
		inner, ok := m["final_answer"]
		if !ok {
			break
		}
		v = inner
	}
	if s, ok := v.(string); ok {
		return s, nil
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// IsStructuredAttempt reports whether v is an object whose keys include all
// the keys of at least one known event key set. Such an object is a
// structured decision attempt even when its values are unusable.
func IsStructuredAttempt(v any, keySets [][]string) bool {
	m, ok := v.(map[string]any)
	if !ok {
		return false
	}
	for _, set := range keySets {
		all := true
		for _, k := range set {
			if _, present := m[k]; !present {
				all = false
				break
			}
		}
		if all {
			return true
		}
	}
	return false
}

// IsStructuredAttemptText reports whether text mentions every key of at
// least one known event key set. It is the raw-text fallback for output too
// broken to parse at all.
func IsStructuredAttemptText(text string, keySets [][]string) bool {
	for _, set := range keySets {
		all := true
		for _, k := range set {
			if !strings.Contains(text, k) {
				all = false
				break
			}
		}
		if all {
			return true
		}
	}
	return false
}

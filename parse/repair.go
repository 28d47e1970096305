package parse

import (
	"strings"
	"unicode"
)

// EscapeNewlines replaces raw newlines occurring inside JSON string literals
// with the \n escape sequence. Newlines outside string literals are kept.
func EscapeNewlines(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	inString, escaped := false, false
	for _, r := range text {
		switch {
		case r == '"' && !escaped:
			inString = !inString
			b.WriteRune(r)
		case r == '\\' && inString:
			escaped = !escaped
			b.WriteRune(r)
		case r == '\n' && inString:
			b.WriteString(`\n`)
		default:
			escaped = false
			b.WriteRune(r)
		}
	}
	return b.String()
}

// StripTrailingCommas removes commas that directly precede a closing brace or
// bracket, ignoring commas inside string literals. One pass removes only the
// last comma of a run, so passes repeat until the text stops changing.
func StripTrailingCommas(text string) string {
	for {
		next := stripTrailingCommas(text)
		if next == text {
			return next
		}
		text = next
	}
}

func stripTrailingCommas(text string) string {
	rs := []rune(text)
	var b strings.Builder
	b.Grow(len(text))
	inString, escaped := false, false
	for i, r := range rs {
		switch {
		case r == '"' && !escaped:
			inString = !inString
			b.WriteRune(r)
		case r == '\\' && inString:
			escaped = !escaped
			b.WriteRune(r)
		case r == ',' && !inString:
			j := i + 1
			for j < len(rs) && unicode.IsSpace(rs[j]) {
				j++
			}
			if j < len(rs) && (rs[j] == '}' || rs[j] == ']') {
				continue
			}
			b.WriteRune(r)
		default:
			escaped = false
			b.WriteRune(r)
		}
	}
	return b.String()
}

// BalanceBrackets appends the closing braces and brackets needed to balance
// the text, closing innermost scopes first. Brackets inside string literals
// are ignored. A closer that does not match the innermost open scope means
// the text is beyond repair and it is returned unchanged.
func BalanceBrackets(text string) string {
	var stack []rune
	inString, escaped := false, false
	for _, r := range text {
		switch {
		case r == '"' && !escaped:
			inString = !inString
		case r == '\\' && inString:
			escaped = !escaped
			continue
		case !inString && (r == '{' || r == '['):
			stack = append(stack, r)
		case !inString && (r == '}' || r == ']'):
			if len(stack) == 0 {
				return text
			}
			open := stack[len(stack)-1]
			if (r == '}' && open != '{') || (r == ']' && open != '[') {
				return text
			}
			stack = stack[:len(stack)-1]
		}
		escaped = false
	}
	if len(stack) == 0 {
		return text
	}
	var b strings.Builder
	b.WriteString(text)
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == '{' {
			b.WriteRune('}')
		} else {
			b.WriteRune(']')
		}
	}
	return b.String()
}

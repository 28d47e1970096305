// Package parse implements the text extraction and malformed-JSON repair
// helpers used to recover structured decisions from free-form model output.
package parse

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	fenceOpenRE  = regexp.MustCompile("^\\s*```[\\w+-]*")
	fenceCloseRE = regexp.MustCompile("```\\s*$")
	unescapeRE   = regexp.MustCompile(`\\(.)`)
)

// StripThinking removes reasoning emitted before a closing </think> tag and
// returns the trimmed remainder. When several tags are present only the text
// after the last one survives. Text without the tag is returned trimmed.
func StripThinking(text string) string {
	const closer = "</think>"
	if i := strings.LastIndex(text, closer); i >= 0 {
		text = text[i+len(closer):]
	}
	return strings.TrimSpace(text)
}

// ExtractCodeBlock strips a Markdown code fence wrapping the whole text,
// including an optional language hint on the opening fence. Text that is not
// fenced is returned trimmed.
func ExtractCodeBlock(text string) string {
	body := text
	if loc := fenceOpenRE.FindStringIndex(body); loc != nil {
		body = body[loc[1]:]
	}
	if loc := fenceCloseRE.FindStringIndex(body); loc != nil {
		body = body[:loc[0]]
	}
	return strings.TrimSpace(body)
}

// ExtractTag returns the trimmed content wrapped in <tag>...</tag>. It
// tolerates a missing closing tag (content runs to the end) and a missing
// opening tag (content runs from the start). Text without either tag is
// returned trimmed.
func ExtractTag(text, tag string) string {
	q := regexp.QuoteMeta(tag)
	full := regexp.MustCompile(fmt.Sprintf(`(?s)<%s>\s*(.*?)\s*</%s>`, q, q))
	if m := full.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	open := regexp.MustCompile(fmt.Sprintf(`(?s)<%s>\s*(.*?)\s*$`, q))
	if m := open.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	closeOnly := regexp.MustCompile(fmt.Sprintf(`(?s)^\s*(.*?)\s*</%s>`, q))
	if m := closeOnly.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return strings.TrimSpace(text)
}

// Unescape collapses backslash escapes captured out of JSON string literals
// by the regex fallback: \n, \t and \r become their control characters and
// any other escaped character is kept without the backslash.
func Unescape(text string) string {
	return unescapeRE.ReplaceAllStringFunc(text, func(m string) string {
		switch m[1] {
		case 'n':
			return "\n"
		case 't':
			return "\t"
		case 'r':
			return "\r"
		default:
			return m[1:]
		}
	})
}

// Package jsonrepair recovers JSON from loosely formatted model output.
//
// Models asked for JSON routinely wrap it in markdown fences, surround it
// with prose, leave trailing commas or forget to quote keys. Repair undoes
// those mistakes in a fixed order and reports a ParseError when the result
// is still not valid JSON. It never guesses at a partial value.
package jsonrepair

import (
	"errors"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/tidwall/gjson"

	ai "github.com/spetersoncode/aigate"
)

// ErrInvalidJSON is the cause carried by ParseError when repair fails.
var ErrInvalidJSON = errors.New("not valid JSON after repair")

// Repair turns raw model output into a valid JSON document.
// Running it on valid JSON returns that JSON (trimmed) unchanged.
func Repair(raw string) (string, error) {
	if trimmed := strings.TrimSpace(raw); gjson.Valid(trimmed) {
		return trimmed, nil
	}

	text := stripFences(raw)
	text = extractSpan(text)
	text = removeTrailingCommas(text)

	if gjson.Valid(text) {
		return text, nil
	}

	quoted := quoteBareKeys(text)
	if gjson.Valid(quoted) {
		return quoted, nil
	}

	return "", &ai.ParseError{Raw: raw, Cause: ErrInvalidJSON}
}

// Unmarshal repairs raw and decodes it into v.
// Any failure, including a shape mismatch with v, is a *aigate.ParseError.
func Unmarshal(raw string, v any) error {
	text, err := Repair(raw)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(text), v); err != nil {
		return &ai.ParseError{Raw: raw, Cause: err}
	}
	return nil
}

// stripFences removes code fence delimiters and their language tags. Fences
// inside string literals are content and stay.
func stripFences(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	sc := scanner{}
	for i := 0; i < len(s); i++ {
		if !sc.open && strings.HasPrefix(s[i:], "```") {
			j := i + 3
			for j < len(s) && isFenceTag(s[j]) {
				j++
			}
			i = j - 1
			continue
		}
		sc.inString(s[i])
		b.WriteByte(s[i])
	}
	return b.String()
}

// extractSpan cuts s down to the first JSON object or array. The span ends at
// the bracket matching the first opener; if the brackets never balance it
// ends at the last closer of the same kind. Text without an opener is only
// trimmed.
func extractSpan(s string) string {
	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return strings.TrimSpace(s)
	}

	closer := byte('}')
	if s[start] == '[' {
		closer = ']'
	}

	end := matchingClose(s, start)
	if end < 0 {
		end = strings.LastIndexByte(s, closer)
	}
	if end < start {
		return strings.TrimSpace(s[start:])
	}
	return s[start : end+1]
}

// matchingClose returns the index of the bracket closing s[start], skipping
// string literals, or -1 if it is never closed.
func matchingClose(s string, start int) int {
	depth := 0
	sc := scanner{}
	for i := start; i < len(s); i++ {
		c := s[i]
		if sc.inString(c) {
			continue
		}
		switch c {
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// removeTrailingCommas drops commas that directly precede a closing
// bracket, ignoring whitespace in between.
func removeTrailingCommas(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	sc := scanner{}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if sc.inString(c) || c != ',' {
			b.WriteByte(c)
			continue
		}
		j := i + 1
		for j < len(s) && isSpace(s[j]) {
			j++
		}
		if j < len(s) && (s[j] == '}' || s[j] == ']') {
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// quoteBareKeys wraps unquoted identifier keys in double quotes. A key is an
// identifier that follows '{' or ',' and is itself followed by ':'.
func quoteBareKeys(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 16)
	sc := scanner{}
	expectKey := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if sc.inString(c) {
			b.WriteByte(c)
			expectKey = false
			continue
		}
		switch {
		case c == '{' || c == ',':
			expectKey = true
			b.WriteByte(c)
		case isSpace(c):
			b.WriteByte(c)
		case expectKey && isIdentStart(c):
			j := i + 1
			for j < len(s) && isIdentPart(s[j]) {
				j++
			}
			k := j
			for k < len(s) && isSpace(s[k]) {
				k++
			}
			if k < len(s) && s[k] == ':' {
				b.WriteByte('"')
				b.WriteString(s[i:j])
				b.WriteByte('"')
			} else {
				b.WriteString(s[i:j])
			}
			i = j - 1
			expectKey = false
		default:
			expectKey = false
			b.WriteByte(c)
		}
	}
	return b.String()
}

// scanner tracks whether a byte stream is inside a JSON string literal.
type scanner struct {
	open    bool
	escaped bool
}

// inString consumes c and reports whether it belongs to a string literal,
// including the opening and closing quotes.
func (sc *scanner) inString(c byte) bool {
	if sc.open {
		switch {
		case sc.escaped:
			sc.escaped = false
		case c == '\\':
			sc.escaped = true
		case c == '"':
			sc.open = false
		}
		return true
	}
	if c == '"' {
		sc.open = true
		return true
	}
	return false
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isFenceTag(c byte) bool {
	return c == '_' || c == '+' || c == '.' || c == '-' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || c == '-' || (c >= '0' && c <= '9')
}

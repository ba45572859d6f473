package analysis

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// Decoder failures. Anything returned by Decode wraps one of these.
var (
	ErrNoJSONObject    = errors.New("no JSON object in model output")
	ErrTruncatedString = errors.New("model output truncated inside a string literal")
	ErrMalformedJSON   = errors.New("model output is not valid JSON")
)

// genericWrappers are tried after the scenario's own wrapper keys
var genericWrappers = []string{"analysis", "report", "result", "data"}

// Decoded is the cleaned JSON extracted from a model reply
type Decoded struct {
	JSON string
	// Repaired is set when control characters were rewritten or missing closers appended
	Repaired bool
}

// Decoder extracts one JSON object from free-form model output.
//
// Recovered, in order: surrounding whitespace, markdown fences (closing fence optional),
// prose around the first balanced object, raw control characters, and truncation
// at a structural position. Strict mode stops after the first three.
type Decoder struct {
	strict bool
}

// NewDecoder creates a decoder
func NewDecoder(strict bool) *Decoder {
	return &Decoder{strict: strict}
}

// Decode returns the first JSON object found in raw
func (d *Decoder) Decode(raw string) (*Decoded, error) {
	content := stripFences(strings.TrimSpace(raw))

	start := strings.IndexByte(content, '{')
	if start == -1 {
		return nil, ErrNoJSONObject
	}

	out, repaired, err := scanObject(content[start:])
	if err != nil {
		return nil, err
	}
	if repaired && d.strict {
		return nil, fmt.Errorf("%w: repair needed but strict mode is on", ErrMalformedJSON)
	}
	if !gjson.Valid(out) {
		return nil, ErrMalformedJSON
	}

	return &Decoded{JSON: out, Repaired: repaired}, nil
}

// stripFences removes a leading ``` / ```json line and the closing fence if present
func stripFences(content string) string {
	if !strings.HasPrefix(content, "```") {
		return content
	}

	content = strings.TrimPrefix(content, "```")
	if nl := strings.IndexByte(content, '\n'); nl != -1 {
		// language tag such as "json"
		if tag := strings.TrimSpace(content[:nl]); !strings.ContainsAny(tag, "{[") {
			content = content[nl+1:]
		}
	} else {
		content = strings.TrimPrefix(content, "json")
	}
	if idx := strings.LastIndex(content, "```"); idx != -1 {
		content = content[:idx]
	}

	return strings.TrimSpace(content)
}

// scanObject copies s up to the brace closing its first object.
// Control characters are rewritten on the way; if s ends early the
// missing closers are appended.
func scanObject(s string) (string, bool, error) {
	var (
		out      strings.Builder
		stack    []byte
		inString bool
		escaped  bool
		repaired bool
	)
	out.Grow(len(s) + 8)

	for i := 0; i < len(s); i++ {
		c := s[i]

		if inString {
			switch {
			case escaped:
				escaped = false
				if c < 0x20 {
					repaired = true
					writeEscapedControl(&out, c, true)
					continue
				}
				out.WriteByte(c)
			case c == '\\':
				escaped = true
				out.WriteByte(c)
			case c == '"':
				inString = false
				out.WriteByte(c)
			case c < 0x20:
				repaired = true
				writeEscapedControl(&out, c, false)
			default:
				out.WriteByte(c)
			}
			continue
		}

		switch c {
		case '"':
			inString = true
			out.WriteByte(c)
		case '{', '[':
			stack = append(stack, c)
			out.WriteByte(c)
		case '}', ']':
			open := stack[len(stack)-1]
			if (c == '}' && open != '{') || (c == ']' && open != '[') {
				return "", false, fmt.Errorf("%w: mismatched %q at offset %d", ErrMalformedJSON, c, i)
			}
			stack = stack[:len(stack)-1]
			out.WriteByte(c)
			if len(stack) == 0 {
				return out.String(), repaired, nil
			}
		case ' ', '\n', '\r', '\t':
			out.WriteByte(c)
		default:
			if c < 0x20 || c == 0x7f {
				repaired = true
				continue
			}
			out.WriteByte(c)
		}
	}

	if inString {
		return "", false, ErrTruncatedString
	}

	// truncated in structural position
	body := strings.TrimRight(out.String(), " \n\r\t,:")
	var b strings.Builder
	b.WriteString(body)
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == '{' {
			b.WriteByte('}')
		} else {
			b.WriteByte(']')
		}
	}
	return b.String(), true, nil
}

// writeEscapedControl writes the JSON escape for a raw control byte found in a string.
// afterBackslash means the backslash has already been written.
func writeEscapedControl(out *strings.Builder, c byte, afterBackslash bool) {
	var letter byte
	switch c {
	case '\n':
		letter = 'n'
	case '\r':
		letter = 'r'
	case '\t':
		letter = 't'
	default:
		if afterBackslash {
			// keep the escape sequence well formed
			fmt.Fprintf(out, "u%04x", c)
		}
		return
	}
	if !afterBackslash {
		out.WriteByte('\\')
	}
	out.WriteByte(letter)
}

// Unwrap returns the report object, descending into the first wrapper key
// that holds an object when the root does not look like a report itself.
func Unwrap(js string, wrapperKeys []string) string {
	root := gjson.Parse(js)
	if !root.IsObject() || looksLikeReport(root) {
		return js
	}

	keys := make([]string, 0, len(wrapperKeys)+len(genericWrappers))
	keys = append(keys, wrapperKeys...)
	keys = append(keys, genericWrappers...)

	fields := root.Map()
	for _, k := range keys {
		if v, ok := fields[k]; ok && v.IsObject() {
			return v.Raw
		}
	}
	return js
}

func looksLikeReport(v gjson.Result) bool {
	for _, k := range []string{"summary", "insights", "highlights", "transcript", "key_moments"} {
		if v.Get(k).Exists() {
			return true
		}
	}
	return false
}

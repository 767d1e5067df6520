package sanitize

import (
	"encoding/json"
	"errors"
	"io"
	"strconv"
	"strings"
)

var errNotObject = errors.New("not a JSON object")

// DecodeStructured decodes text as a single JSON object and returns its diet
// and exercise fields. Keys match case-insensitively. Array and object values
// are flattened to one line per leaf in source order. ok is false if the text
// is not exactly one object or either field is missing or blank.
func DecodeStructured(text string) (diet, exercise string, ok bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", "", false
	}

	dec := json.NewDecoder(strings.NewReader(repairJSON(text)))
	dec.UseNumber()

	fields, err := decodeObject(dec)
	if err != nil {
		return "", "", false
	}
	// trailing content means the text was not a bare object
	if _, err := dec.Token(); err != io.EOF {
		return "", "", false
	}

	diet, exercise = fields["diet"], fields["exercise"]
	if diet == "" || exercise == "" {
		return "", "", false
	}
	return diet, exercise, true
}

func decodeObject(dec *json.Decoder) (map[string]string, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errNotObject
	}

	fields := make(map[string]string)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := keyTok.(string)
		lines, err := flatten(dec, "")
		if err != nil {
			return nil, err
		}
		key = strings.ToLower(strings.TrimSpace(key))
		if _, seen := fields[key]; !seen {
			fields[key] = strings.TrimSpace(strings.Join(lines, "\n"))
		}
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return fields, nil
}

// flatten reads one value and returns its text lines. Object members are
// rendered as "key: value".
func flatten(dec *json.Decoder, label string) ([]string, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch v := tok.(type) {
	case json.Delim:
		var lines []string
		switch v {
		case '[':
			for dec.More() {
				item, err := flatten(dec, "")
				if err != nil {
					return nil, err
				}
				lines = append(lines, item...)
			}
		case '{':
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, _ := keyTok.(string)
				member, err := flatten(dec, strings.TrimSpace(key))
				if err != nil {
					return nil, err
				}
				lines = append(lines, member...)
			}
		}
		// closing delimiter
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return labeled(label, lines), nil
	case string:
		return scalar(label, v), nil
	case json.Number:
		return scalar(label, v.String()), nil
	case bool:
		return scalar(label, strconv.FormatBool(v)), nil
	default:
		return nil, nil
	}
}

func scalar(label, text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if label != "" {
		text = label + ": " + text
	}
	return []string{text}
}

func labeled(label string, lines []string) []string {
	if label == "" || len(lines) == 0 {
		return lines
	}
	if len(lines) == 1 {
		return []string{label + ": " + lines[0]}
	}
	return append([]string{label + ":"}, lines...)
}

// repairJSON makes the text produced by Normalize decodable again. Inside
// string literals it escapes raw control characters and invalid backslash
// escapes. A quote ends a key only when ':' follows it, and ends a value only
// when what follows starts the next member or closes the container. Any other
// quote is kept as part of the string.
func repairJSON(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 16)

	var (
		stack    []byte // open containers, '{' or '['
		wantKey  bool   // the next string in the current object is a key
		inString bool
		isKey    bool
	)
	top := func() byte {
		if len(stack) == 0 {
			return 0
		}
		return stack[len(stack)-1]
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		if !inString {
			switch c {
			case '{':
				stack = append(stack, c)
				wantKey = true
			case '[':
				stack = append(stack, c)
				wantKey = false
			case '}', ']':
				if len(stack) > 0 {
					stack = stack[:len(stack)-1]
				}
				wantKey = false
			case ':':
				wantKey = false
			case ',':
				wantKey = top() == '{'
			case '"':
				inString = true
				isKey = wantKey && top() == '{'
			}
			b.WriteByte(c)
			continue
		}

		switch {
		case c == '\\':
			if i+1 < len(s) && strings.IndexByte(`"\/bfnrtu`, s[i+1]) >= 0 {
				b.WriteByte(c)
				b.WriteByte(s[i+1])
				i++
			} else {
				b.WriteString(`\\`)
			}
		case c == '"':
			if closesString(s, i+1, isKey, top()) {
				inString = false
				b.WriteByte(c)
			} else {
				b.WriteString(`\"`)
			}
		case c == '\n':
			b.WriteString(`\n`)
		case c == '\t':
			b.WriteString(`\t`)
		case c == '\r':
		case c < 0x20:
			b.WriteString(`\u00`)
			b.WriteByte(hexDigits[c>>4])
			b.WriteByte(hexDigits[c&0xf])
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

const hexDigits = "0123456789abcdef"

// valueStart holds the bytes that can begin a JSON array element.
const valueStart = `"{[-0123456789tfn`

// closesString reports whether a quote at from-1 ends the current string.
// container is the innermost open '{' or '[', or 0 at top level.
func closesString(s string, from int, isKey bool, container byte) bool {
	i := skipSpace(s, from)
	if i == len(s) {
		return true
	}
	switch s[i] {
	case ':':
		return isKey
	case '}', ']':
		return !isKey
	case ',':
		if isKey {
			return false
		}
		j := skipSpace(s, i+1)
		if j == len(s) {
			return true
		}
		if container == '[' {
			return strings.IndexByte(valueStart, s[j]) >= 0
		}
		return s[j] == '"' || s[j] == '}'
	}
	return false
}

func skipSpace(s string, i int) int {
	for i < len(s) {
		switch s[i] {
		case ' ', '\t', '\n', '\r':
			i++
		default:
			return i
		}
	}
	return i
}

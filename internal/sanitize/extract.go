package sanitize

import (
	"regexp"
	"strings"
)

// ```json, ``` and similar on a line of their own
var fenceLine = regexp.MustCompile("(?m)^[ \\t]*```[\\w+-]*[ \\t]*$")

func stripFences(text string) string {
	text = fenceLine.ReplaceAllString(text, "")
	return strings.ReplaceAll(text, "```", "")
}

// Extract strips code fences and returns the substring from the first '{' to
// its matching '}'. Braces inside string literals are ignored.
func Extract(text string) (string, bool) {
	text = stripFences(text)

	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}
	end := matchBrace(text, start)
	if end < 0 {
		return "", false
	}
	return text[start : end+1], true
}

// matchBrace returns the index of the '}' closing the '{' at start, or -1.
func matchBrace(s string, start int) int {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

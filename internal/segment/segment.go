// Package segment splits a recommendation section into display lines.
package segment

import (
	"strings"
)

// NoContent is the single line returned when nothing survives segmentation.
const NoContent = "No content for this section."

// structural characters left behind by JSON and markup
var noise = strings.NewReplacer(
	"{", "",
	"}", "",
	"[", "",
	"]", "",
	"<", "",
	">", "",
	"`", "",
	`\`, "",
)

// Segment splits field into trimmed, non-empty lines in source order.
// Literal "\n" sequences count as line breaks. When filter is not empty only
// lines containing it (case-insensitive) are kept. The result always has at
// least one line.
func Segment(field, filter string) []string {
	field = strings.ReplaceAll(field, `\n`, "\n")
	field = strings.ReplaceAll(field, "\r", "")

	filter = strings.ToLower(strings.TrimSpace(filter))

	var lines []string
	for _, line := range strings.Split(field, "\n") {
		line = Clean(line)
		if line == "" {
			continue
		}
		if filter != "" && !strings.Contains(strings.ToLower(line), filter) {
			continue
		}
		lines = append(lines, line)
	}

	if len(lines) == 0 {
		return []string{NoContent}
	}
	return lines
}

// Clean strips structural noise from one line and trims it.
func Clean(line string) string {
	return strings.TrimSpace(noise.Replace(strings.TrimSpace(line)))
}


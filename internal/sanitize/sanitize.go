// Package sanitize turns untrusted model output into a Recommendation.
//
// Sanitize never fails. It walks a fixed chain of strategies and stops at
// the first one that produces both fields:
//
//	Structured  the whole text decodes as {"diet": ..., "exercise": ...}
//	Extracted   the first balanced {...} block decodes, fences and prose ignored
//	Prose       the cleaned text is used for both fields
//	Failed      there was no text at all, both fields carry FailureMessage
//
// Escape normalization runs once, before the first decode attempt.
package sanitize

import (
	"regexp"
	"strings"
)

// FailureMessage is shown when the generator produced nothing.
const FailureMessage = "We couldn't generate your recommendations right now. Please try again in a moment."

// NoStructuredData replaces prose that is empty after cleanup.
const NoStructuredData = "No structured data"

// Stage records which strategy produced a Recommendation.
type Stage int

const (
	StageStructured Stage = iota + 1
	StageExtracted
	StageProse
	StageFailed
)

func (s Stage) String() string {
	switch s {
	case StageStructured:
		return "structured"
	case StageExtracted:
		return "extracted"
	case StageProse:
		return "prose"
	case StageFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Degraded reports whether the result did not come from a clean decode.
func (s Stage) Degraded() bool {
	return s != StageStructured
}

// Raw is one generation result. Err set means the text is absent.
type Raw struct {
	Text string
	Err  error
}

// FromResult wraps the return values of a generation call.
func FromResult(text string, err error) Raw {
	if err != nil {
		return Raw{Err: err}
	}
	return Raw{Text: text}
}

// Recommendation holds the two labeled sections. Both are always non-empty.
type Recommendation struct {
	Diet     string `json:"diet"`
	Exercise string `json:"exercise"`
	Stage    Stage  `json:"-"`
}

// Sanitize runs the fallback chain over raw.
func Sanitize(raw Raw) Recommendation {
	if raw.Err != nil {
		return Failed()
	}

	text := Normalize(raw.Text)

	if diet, exercise, ok := DecodeStructured(text); ok {
		return Recommendation{Diet: diet, Exercise: exercise, Stage: StageStructured}
	}

	if block, ok := Extract(text); ok {
		if diet, exercise, ok := DecodeStructured(block); ok {
			return Recommendation{Diet: diet, Exercise: exercise, Stage: StageExtracted}
		}
	}

	prose := Prose(text)
	return Recommendation{Diet: prose, Exercise: prose, Stage: StageProse}
}

// Failed is the recommendation used when no text came back.
func Failed() Recommendation {
	return Recommendation{Diet: FailureMessage, Exercise: FailureMessage, Stage: StageFailed}
}

var normalizer = strings.NewReplacer(
	`\\n`, "\n",
	`\r\n`, "\n",
	`\n`, "\n",
	`\r`, "",
	"\r", "",
	`\t`, " ",
	`\"`, `"`,
	`\'`, "'",
)

// the sign-off some generations end with
var footer = regexp.MustCompile(`(?i)recommendation\s*by\s*HealthIQ\.AI[:-]*`)

// Normalize undoes the escaping artifacts the generator leaves behind when it
// double-escapes its output: literal \n (or \\n) becomes a newline, \r is dropped,
// \t becomes a space and escaped quotes become plain quotes. The
// "Recommendation by HealthIQ.AI" sign-off is removed.
func Normalize(text string) string {
	return footer.ReplaceAllString(normalizer.Replace(text), "")
}

// Prose returns text with code fences removed and surrounding space trimmed,
// or NoStructuredData when nothing is left.
func Prose(text string) string {
	cleaned := strings.TrimSpace(stripFences(text))
	if cleaned == "" {
		return NoStructuredData
	}
	return cleaned
}

package prompts

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/sant0-9/healthiq/internal/profile"
	"github.com/sant0-9/healthiq/internal/topic"
)

// DefaultVersion is the template used when none is configured.
const DefaultVersion = "v1"

// ErrUnknownTemplate is returned for a version with no template.
var ErrUnknownTemplate = errors.New("unknown prompt template")

//go:embed recommendation_v1.tmpl
var recommendationV1 string

// SystemPrompt is sent as the system message where the provider supports one.
const SystemPrompt = `You write personalized diet and exercise advice. You answer with a single JSON object and nothing else.`

var funcs = template.FuncMap{"join": strings.Join}

func init() {
	register(Meta{Name: DefaultVersion, Description: "Built-in diet and exercise coach"},
		template.Must(template.New(DefaultVersion).Funcs(funcs).Parse(recommendationV1)))
}

type templateData struct {
	profile.Profile
	DietTopics     []string
	ExerciseTopics []string
}

// Build renders the prompt for p with the given template version.
// Identical inputs always produce identical output.
func Build(p profile.Profile, version string) (string, error) {
	if version == "" {
		version = DefaultVersion
	}
	tmpl, ok := lookup(version)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTemplate, version)
	}

	var b strings.Builder
	err := tmpl.Execute(&b, templateData{
		Profile:        p,
		DietTopics:     topic.Names(topic.Diet),
		ExerciseTopics: topic.Names(topic.Exercise),
	})
	if err != nil {
		return "", fmt.Errorf("render %s prompt: %w", version, err)
	}
	return strings.TrimSpace(b.String()), nil
}

// Versions lists the available template versions, sorted.
func Versions() []string {
	var names []string
	for _, m := range Catalog() {
		names = append(names, m.Name)
	}
	return names
}

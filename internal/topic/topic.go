// Package topic is the fixed catalog of recommendation topics a viewer can
// pick from. Each topic reads from one section of a recommendation and
// narrows it with a keyword. Keywords are matched as substrings, so each one
// must not occur inside common words.
package topic

import (
	"strings"
	"unicode"
)

// Section names one labeled field of a recommendation.
type Section string

const (
	Diet     Section = "diet"
	Exercise Section = "exercise"
)

type Topic struct {
	Name        string
	Section     Section
	Keyword     string
	Description string
}

var Catalog = []Topic{
	{Name: "Nutrition Focus", Section: Diet, Keyword: "Nutrition", Description: "Foods that fuel body and mind."},
	{Name: "Meal Timing", Section: Diet, Keyword: "Meal Timing", Description: "When to eat for energy and recovery."},
	{Name: "Hydration", Section: Diet, Keyword: "Hydration", Description: "Water intake through the day."},
	{Name: "Healthy Habits", Section: Diet, Keyword: "Habits", Description: "Routines that support nutrition goals."},
	{Name: "Training Structure", Section: Exercise, Keyword: "Training", Description: "Weekly strength and cardio plan."},
	{Name: "Rest & Recovery", Section: Exercise, Keyword: "Recovery", Description: "Sleep and active rest."},
	{Name: "Cardio Routine", Section: Exercise, Keyword: "Cardio", Description: "Stamina and endurance."},
	{Name: "Form & Function", Section: Exercise, Keyword: "Form &", Description: "Posture and safe movement."},
}

// Names returns the catalog names of one section, in catalog order.
func Names(s Section) []string {
	var names []string
	for _, t := range Catalog {
		if t.Section == s {
			names = append(names, t.Name)
		}
	}
	return names
}

// Lookup resolves user input to a catalog topic. Case, surrounding
// symbols such as emoji and repeated spaces are ignored; a unique
// keyword or name prefix also matches.
func Lookup(input string) (Topic, bool) {
	q := normalize(input)
	if q == "" {
		return Topic{}, false
	}

	for _, t := range Catalog {
		if normalize(t.Name) == q {
			return t, true
		}
	}

	var found []Topic
	for _, t := range Catalog {
		if normalize(t.Keyword) == q || strings.HasPrefix(normalize(t.Name), q) {
			found = append(found, t)
		}
	}
	if len(found) == 1 {
		return found[0], true
	}
	return Topic{}, false
}

func normalize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '&':
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

package topic

import (
	"strings"
	"testing"

	"github.com/sant0-9/healthiq/internal/segment"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{name: "exact", input: "Cardio Routine", want: "Cardio Routine", wantOK: true},
		{name: "case and spaces", input: "  cardio   ROUTINE ", want: "Cardio Routine", wantOK: true},
		{name: "emoji suffix", input: "Rest & Recovery 😴", want: "Rest & Recovery", wantOK: true},
		{name: "keyword", input: "hydration", want: "Hydration", wantOK: true},
		{name: "prefix", input: "train", want: "Training Structure", wantOK: true},
		{name: "form prefix", input: "form", want: "Form & Function", wantOK: true},
		{name: "unknown", input: "Flexibility", wantOK: false},
		{name: "empty", input: "  ", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Lookup(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("Lookup(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if ok && got.Name != tt.want {
				t.Errorf("Lookup(%q) = %q, want %q", tt.input, got.Name, tt.want)
			}
		})
	}
}

func TestNames(t *testing.T) {
	diet := Names(Diet)
	if len(diet) != 4 || diet[0] != "Nutrition Focus" {
		t.Errorf("Names(Diet) = %v", diet)
	}
	exercise := Names(Exercise)
	if len(exercise) != 4 || exercise[3] != "Form & Function" {
		t.Errorf("Names(Exercise) = %v", exercise)
	}
}

func TestKeywordsFilterOwnLines(t *testing.T) {
	exercise := strings.Join([]string{
		"Training Structure: perform 3 sets of squats",
		"Rest & Recovery: sleep 8 hours, more information below",
		"Cardio Routine: 20 minutes on a platform stepper",
		"Form & Function: keep your back straight",
	}, "\n")

	for _, tp := range Catalog {
		if tp.Section != Exercise {
			continue
		}
		got := segment.Segment(exercise, tp.Keyword)
		if len(got) != 1 || !strings.HasPrefix(got[0], tp.Name+":") {
			t.Errorf("Segment(exercise, %q) = %q, want only the %s line", tp.Keyword, got, tp.Name)
		}
	}
}

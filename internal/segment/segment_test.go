package segment

import (
	"reflect"
	"strings"
	"testing"
)

func TestSegment(t *testing.T) {
	tests := []struct {
		name   string
		field  string
		filter string
		want   []string
	}{
		{
			name:  "literal escaped newlines",
			field: `Line1\nLine2\n\nLine3`,
			want:  []string{"Line1", "Line2", "Line3"},
		},
		{
			name:  "real newlines and blank lines",
			field: "  first  \n\n\t\nsecond\r\n",
			want:  []string{"first", "second"},
		},
		{
			name:  "structural noise stripped",
			field: "{ [Eat <b>greens</b>] }\n`code`\n\\\\",
			want:  []string{"Eat bgreens/b", "code"},
		},
		{
			name:  "punctuation kept",
			field: "Drink water: 2L/day, (at least)!",
			want:  []string{"Drink water: 2L/day, (at least)!"},
		},
		{
			name:   "filter keeps matching lines",
			field:  strings.Join([]string{"Training: do X", "Cardio: do Y"}, "\n"),
			filter: "Cardio",
			want:   []string{"Cardio: do Y"},
		},
		{
			name:   "filter is case insensitive",
			field:  "CARDIO: run\nrest day\nlight cardio walk",
			filter: "cardio",
			want:   []string{"CARDIO: run", "light cardio walk"},
		},
		{
			name:   "filter without match",
			field:  strings.Join([]string{"Training: do X", "Cardio: do Y"}, "\n"),
			filter: "Flexibility",
			want:   []string{NoContent},
		},
		{
			name:  "empty field",
			field: "",
			want:  []string{NoContent},
		},
		{
			name:  "only noise",
			field: "{}\n[]\n```",
			want:  []string{NoContent},
		},
		{
			name:  "duplicates and order kept",
			field: "b\na\nb",
			want:  []string{"b", "a", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Segment(tt.field, tt.filter)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Segment() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSegmentNeverEmpty(t *testing.T) {
	inputs := []string{"", " ", "\n\n", `\n`, "<>", "\\"}
	for _, in := range inputs {
		if got := Segment(in, ""); len(got) == 0 {
			t.Errorf("Segment(%q) returned no lines", in)
		}
	}
}

func TestClean(t *testing.T) {
	if got := Clean(`  "diet": {  `); got != `"diet":` {
		t.Errorf("Clean() = %q, want %q", got, `"diet":`)
	}
	if got := Clean(`\\ hello \\`); got != "hello" {
		t.Errorf("Clean() = %q, want %q", got, "hello")
	}
}

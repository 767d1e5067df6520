package prompts

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestSplitFrontmatter(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantName string
		wantBody string
		wantErr  bool
	}{
		{
			name:     "with frontmatter",
			content:  "---\nname: gentle\ndescription: Softer tone\n---\nHello {{.Name}}\n",
			wantName: "gentle",
			wantBody: "Hello {{.Name}}",
		},
		{
			name:     "crlf",
			content:  "---\r\nname: crlf\r\n---\r\nBody\r\n",
			wantName: "crlf",
			wantBody: "Body",
		},
		{
			name:     "no frontmatter",
			content:  "Just a body",
			wantBody: "Just a body",
		},
		{
			name:    "unterminated",
			content: "---\nname: broken\nBody",
			wantErr: true,
		},
		{
			name:    "bad yaml",
			content: "---\nname: [oops\n---\nBody",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta, body, err := splitFrontmatter(tt.content)
			if (err != nil) != tt.wantErr {
				t.Fatalf("splitFrontmatter() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if meta.Name != tt.wantName {
				t.Errorf("name = %q, want %q", meta.Name, tt.wantName)
			}
			if body != tt.wantBody {
				t.Errorf("body = %q, want %q", body, tt.wantBody)
			}
		})
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "gentle.tmpl", "---\nname: gentle-test\ndescription: Softer tone\n---\nBe kind to {{.Name}}. Topics: {{join .DietTopics \"|\"}}")
	writeFile(t, dir, "plain-test.tmpl", "Plan for {{.Name}}, age {{.Age}}")
	writeFile(t, dir, "broken.tmpl", "Hello {{.Name")
	writeFile(t, dir, "reserved.tmpl", "---\nname: v1\n---\nOverride")
	writeFile(t, dir, "notes.txt", "ignored")

	loaded, err := LoadDir(dir)
	if err == nil {
		t.Fatal("LoadDir() error = nil, want errors for broken and reserved templates")
	}
	if !strings.Contains(err.Error(), "broken.tmpl") || !strings.Contains(err.Error(), "reserved") {
		t.Errorf("LoadDir() error = %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("loaded %d templates, want 2: %+v", len(loaded), loaded)
	}

	got, err := Build(testProfile(), "gentle-test")
	if err != nil {
		t.Fatalf("Build(gentle-test) error = %v", err)
	}
	if !strings.HasPrefix(got, "Be kind to Ravi.") || !strings.Contains(got, "Nutrition Focus|Meal Timing") {
		t.Errorf("Build(gentle-test) = %q", got)
	}

	got, err = Build(testProfile(), "plain-test")
	if err != nil {
		t.Fatalf("Build(plain-test) error = %v", err)
	}
	if got != "Plan for Ravi, age 41" {
		t.Errorf("Build(plain-test) = %q", got)
	}

	// the built-in survives a file claiming its name
	builtin, err := Build(testProfile(), DefaultVersion)
	if err != nil || strings.Contains(builtin, "Override") {
		t.Errorf("Build(v1) = %q, %v", builtin, err)
	}

	versions := Versions()
	for _, want := range []string{"gentle-test", "plain-test", "v1"} {
		found := false
		for _, v := range versions {
			if v == want {
				found = true
			}
		}
		if !found {
			t.Errorf("Versions() = %v, missing %q", versions, want)
		}
	}
}

func TestLoadDirMissing(t *testing.T) {
	loaded, err := LoadDir(filepath.Join(t.TempDir(), "nope"))
	if err != nil || len(loaded) != 0 {
		t.Errorf("LoadDir(missing) = %v, %v", loaded, err)
	}
}

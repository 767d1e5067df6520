package prompts

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"text/template"

	"gopkg.in/yaml.v3"
)

// Meta describes one prompt template. User templates carry it as YAML
// frontmatter:
//
//	---
//	name: gentle
//	description: Softer tone for beginners
//	---
//	You are a friendly coach. ...
type Meta struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Path        string `yaml:"-"` // empty for built-ins
}

type entry struct {
	meta Meta
	tmpl *template.Template
}

var (
	mu       sync.RWMutex
	registry = make(map[string]entry)
)

func register(meta Meta, tmpl *template.Template) {
	mu.Lock()
	defer mu.Unlock()
	registry[meta.Name] = entry{meta: meta, tmpl: tmpl}
}

func lookup(name string) (*template.Template, bool) {
	mu.RLock()
	defer mu.RUnlock()
	e, ok := registry[name]
	return e.tmpl, ok
}

// Catalog lists every registered template, sorted by name.
func Catalog() []Meta {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]Meta, 0, len(registry))
	for _, e := range registry {
		out = append(out, e.meta)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// splitFrontmatter separates a leading "---" YAML block from the body.
// Content without one is all body.
func splitFrontmatter(content string) (Meta, string, error) {
	var meta Meta
	content = strings.ReplaceAll(content, "\r\n", "\n")
	if !strings.HasPrefix(content, "---\n") {
		return meta, content, nil
	}

	rest := content[len("---\n"):]
	end := strings.Index(rest, "\n---")
	if end < 0 {
		return meta, "", errors.New("unterminated frontmatter")
	}
	if err := yaml.Unmarshal([]byte(rest[:end]), &meta); err != nil {
		return meta, "", fmt.Errorf("frontmatter: %w", err)
	}

	body := rest[end+len("\n---"):]
	return meta, strings.TrimSpace(body), nil
}

// LoadFile parses one template file and registers it. The file name
// without extension is the name when the frontmatter has none.
func LoadFile(path string) (Meta, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Meta{}, err
	}

	meta, body, err := splitFrontmatter(string(content))
	if err != nil {
		return Meta{}, fmt.Errorf("%s: %w", path, err)
	}
	if strings.TrimSpace(body) == "" {
		return Meta{}, fmt.Errorf("%s: empty template", path)
	}
	if meta.Name == "" {
		meta.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if meta.Name == DefaultVersion {
		return Meta{}, fmt.Errorf("%s: %q is reserved for the built-in template", path, DefaultVersion)
	}
	meta.Path = path

	tmpl, err := template.New(meta.Name).Funcs(funcs).Option("missingkey=error").Parse(body)
	if err != nil {
		return Meta{}, fmt.Errorf("%s: %w", path, err)
	}

	register(meta, tmpl)
	return meta, nil
}

// LoadDir registers every *.tmpl file in dir. A missing dir is not an
// error. Files that fail to load are skipped and reported together.
func LoadDir(dir string) ([]Meta, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.tmpl"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	var (
		loaded []Meta
		errs   []error
	)
	for _, path := range paths {
		meta, err := LoadFile(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		loaded = append(loaded, meta)
	}
	return loaded, errors.Join(errs...)
}

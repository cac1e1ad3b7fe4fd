// Package prompts holds the text-generation prompt fragments as embedded JSON
// files. Each file is a Book of named text/template fragments.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
	"text/template"
)

//go:embed *.json
var promptFiles embed.FS

// NarrativeFile holds the fragments of the resume narrative and suggestion prompts.
const NarrativeFile = "narrative.json"

// Book is a parsed prompt file. Rendering fails on any placeholder the data
// does not supply.
type Book struct {
	name      string
	templates map[string]*template.Template
}

// Load parses every fragment of an embedded prompt file.
func Load(filename string) (*Book, error) {
	data, err := promptFiles.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file %s: %w", filename, err)
	}

	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse prompt file %s: %w", filename, err)
	}

	b := &Book{name: filename, templates: make(map[string]*template.Template, len(raw))}
	for key, text := range raw {
		tmpl, err := template.New(key).Option("missingkey=error").Parse(text)
		if err != nil {
			return nil, fmt.Errorf("prompt %q in %s: %w", key, filename, err)
		}
		b.templates[key] = tmpl
	}
	return b, nil
}

var narrative = sync.OnceValues(func() (*Book, error) {
	return Load(NarrativeFile)
})

// Narrative returns the narrative prompt book. It panics if the embedded file
// is malformed.
func Narrative() *Book {
	b, err := narrative()
	if err != nil {
		panic(fmt.Sprintf("failed to load prompts: %v", err))
	}
	return b
}

// Keys returns the fragment names, sorted.
func (b *Book) Keys() []string {
	return slices.Sorted(maps.Keys(b.templates))
}

// Render fills the {{.Name}} placeholders of a fragment from data.
func (b *Book) Render(key string, data map[string]string) (string, error) {
	tmpl, ok := b.templates[key]
	if !ok {
		return "", fmt.Errorf("prompt key %q not found in %s", key, b.name)
	}
	if data == nil {
		data = map[string]string{}
	}

	var out strings.Builder
	if err := tmpl.Execute(&out, data); err != nil {
		return "", fmt.Errorf("prompt %q in %s: %w", key, b.name, err)
	}
	return out.String(), nil
}

// MustRender is Render for fragments whose fields are fixed at compile time.
func (b *Book) MustRender(key string, data map[string]string) string {
	s, err := b.Render(key, data)
	if err != nil {
		panic(err)
	}
	return s
}

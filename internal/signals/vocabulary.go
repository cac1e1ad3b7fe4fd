package signals

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
	"sync"

	"go.yaml.in/yaml/v4"
)

//go:embed vocabulary.yaml
var defaultVocabularyYAML []byte

// Boundaries around a surface form. A leading '.' is excluded so ".NET" style
// forms anchor correctly; a trailing '.' is allowed so sentence ends match.
const (
	foldedLead  = `(?:^|[^a-z0-9+#.])`
	foldedTrail = `(?:[^a-z0-9+#]|$)`
	exactLead   = `(?:^|[^A-Za-z0-9+#.&'\-])`
	exactTrail  = `(?:[^A-Za-z0-9+#&'\-]|$)`
)

// SkillEntry is one vocabulary record as written in the YAML file.
type SkillEntry struct {
	Name    string   `yaml:"name"`
	Aliases []string `yaml:"aliases"`
	Exact   []string `yaml:"exact"`
}

type vocabularyFile struct {
	Skills []SkillEntry `yaml:"skills"`
}

type compiledSkill struct {
	name     string
	patterns []*regexp.Regexp
}

// Vocabulary maps surface forms to canonical skill names. It is immutable after
// construction and safe for concurrent use.
type Vocabulary struct {
	skills    []compiledSkill
	canonical map[string]string
}

var (
	defaultOnce  sync.Once
	defaultVocab *Vocabulary
)

// DefaultVocabulary returns the embedded vocabulary, parsed once per process.
func DefaultVocabulary() *Vocabulary {
	defaultOnce.Do(func() {
		v, err := ParseVocabulary(defaultVocabularyYAML)
		if err != nil {
			panic(fmt.Sprintf("embedded skill vocabulary is invalid: %v", err))
		}
		defaultVocab = v
	})
	return defaultVocab
}

// LoadVocabulary reads a vocabulary file. An empty path returns the embedded default.
func LoadVocabulary(path string) (*Vocabulary, error) {
	if path == "" {
		return DefaultVocabulary(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read vocabulary file %s: %w", path, err)
	}
	v, err := ParseVocabulary(data)
	if err != nil {
		return nil, fmt.Errorf("invalid vocabulary file %s: %w", path, err)
	}
	return v, nil
}

// ParseVocabulary builds a Vocabulary from YAML. Canonical names must be unique
// and a surface form may belong to only one skill.
func ParseVocabulary(data []byte) (*Vocabulary, error) {
	var file vocabularyFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse vocabulary: %w", err)
	}
	if len(file.Skills) == 0 {
		return nil, fmt.Errorf("vocabulary has no skills")
	}

	v := &Vocabulary{
		skills:    make([]compiledSkill, 0, len(file.Skills)),
		canonical: make(map[string]string),
	}

	claim := func(form, name string) error {
		key := normalizeForm(form)
		if key == "" {
			return nil
		}
		if owner, ok := v.canonical[key]; ok && owner != name {
			return fmt.Errorf("surface form %q is claimed by both %q and %q", form, owner, name)
		}
		v.canonical[key] = name
		return nil
	}

	for i, entry := range file.Skills {
		name := normalizeForm(entry.Name)
		if name == "" {
			return nil, fmt.Errorf("skills[%d]: name is required", i)
		}
		if _, exists := v.canonical[name]; exists {
			return nil, fmt.Errorf("skills[%d]: duplicate skill %q", i, name)
		}
		if err := claim(name, name); err != nil {
			return nil, err
		}

		skill := compiledSkill{name: name}

		// A name with exact forms is only matched through those forms.
		folded := entry.Aliases
		if len(entry.Exact) == 0 {
			folded = append([]string{name}, entry.Aliases...)
		}
		for _, alias := range folded {
			if err := claim(alias, name); err != nil {
				return nil, err
			}
			if p := formPattern(alias, false); p != nil {
				skill.patterns = append(skill.patterns, p)
			}
		}
		for _, form := range entry.Exact {
			if err := claim(form, name); err != nil {
				return nil, err
			}
			if p := formPattern(form, true); p != nil {
				skill.patterns = append(skill.patterns, p)
			}
		}
		if len(skill.patterns) == 0 {
			return nil, fmt.Errorf("skills[%d]: %q has no usable surface forms", i, name)
		}

		v.skills = append(v.skills, skill)
	}

	return v, nil
}

func formPattern(form string, exact bool) *regexp.Regexp {
	form = strings.TrimSpace(form)
	if form == "" {
		return nil
	}
	if !exact {
		form = strings.ToLower(form)
	}
	body := regexp.QuoteMeta(form)
	body = strings.Join(strings.Fields(body), `[\s\-]+`)

	if exact {
		return regexp.MustCompile(exactLead + `(` + body + `)` + exactTrail)
	}
	return regexp.MustCompile(`(?i)` + foldedLead + `(` + body + `)` + foldedTrail)
}

func normalizeForm(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Len returns the number of canonical skills.
func (v *Vocabulary) Len() int {
	return len(v.skills)
}

// Names returns the canonical skill names in vocabulary order.
func (v *Vocabulary) Names() []string {
	names := make([]string, len(v.skills))
	for i, s := range v.skills {
		names[i] = s.name
	}
	return names
}

// Canonical resolves a name or alias, case-insensitively, to its canonical skill.
func (v *Vocabulary) Canonical(form string) (string, bool) {
	name, ok := v.canonical[normalizeForm(form)]
	return name, ok
}

// Find returns the canonical skills present in text, ordered by first occurrence.
// Skills first seen at the same offset keep vocabulary order.
func (v *Vocabulary) Find(text string) []string {
	type hit struct {
		name   string
		offset int
	}

	var hits []hit
	for _, skill := range v.skills {
		first := -1
		for _, p := range skill.patterns {
			loc := p.FindStringSubmatchIndex(text)
			if loc == nil {
				continue
			}
			if start := loc[2]; first < 0 || start < first {
				first = start
			}
		}
		if first >= 0 {
			hits = append(hits, hit{name: skill.name, offset: first})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].offset < hits[j].offset
	})

	found := make([]string, len(hits))
	for i, h := range hits {
		found[i] = h.name
	}
	return found
}

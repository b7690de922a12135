// Package skills implements the skill matcher: vocabulary extraction,
// overlap scoring and job ranking.
package skills

import (
	"strings"
)

// defaultEntries is the built-in vocabulary, in canonical spelling.
var defaultEntries = []string{ //nolint:gochecknoglobals // read-only default list
	"JavaScript", "TypeScript", "React", "Angular", "Vue", "Node.js", "Express",
	"Next.js", "Python", "Django", "Flask", "FastAPI", "Java", "Spring", "Kotlin",
	"Golang", "Rust", "C++", "C#", ".NET", "PHP", "Laravel", "Ruby", "Rails",
	"Swift", "HTML", "CSS", "Tailwind", "GraphQL", "REST", "SQL", "PostgreSQL",
	"MySQL", "MongoDB", "Redis", "Elasticsearch", "Kafka", "RabbitMQ", "AWS",
	"Azure", "GCP", "Docker", "Kubernetes", "Terraform", "Linux", "Git", "CI/CD",
	"Jenkins", "Machine Learning", "TensorFlow", "PyTorch", "Pandas", "Figma",
	"Agile", "Scrum",
}

// DefaultEntries returns a copy of the built-in vocabulary.
func DefaultEntries() []string {
	out := make([]string, len(defaultEntries))
	copy(out, defaultEntries)
	return out
}

// Vocabulary is an ordered set of canonical skill names. It is immutable
// after construction and safe for concurrent use.
type Vocabulary struct {
	entries []string
	lowered []string
	index   map[string]int
}

// NewVocabulary builds a vocabulary from entries. Blank entries are skipped
// and case-insensitive duplicates collapse onto the first spelling.
func NewVocabulary(entries []string) *Vocabulary {
	v := &Vocabulary{index: make(map[string]int, len(entries))}
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		key := strings.ToLower(e)
		if _, dup := v.index[key]; dup {
			continue
		}
		v.index[key] = len(v.entries)
		v.entries = append(v.entries, e)
		v.lowered = append(v.lowered, key)
	}
	return v
}

// Default returns a vocabulary over DefaultEntries.
func Default() *Vocabulary {
	return NewVocabulary(defaultEntries)
}

// Len reports the number of entries.
func (v *Vocabulary) Len() int { return len(v.entries) }

// Entries returns the canonical entries in vocabulary order.
func (v *Vocabulary) Entries() []string {
	out := make([]string, len(v.entries))
	copy(out, v.entries)
	return out
}

// Canonical returns the vocabulary spelling of skill, if it is an entry.
func (v *Vocabulary) Canonical(skill string) (string, bool) {
	i, ok := v.index[strings.ToLower(strings.TrimSpace(skill))]
	if !ok {
		return "", false
	}
	return v.entries[i], true
}

// Extract returns every entry that occurs as a case-insensitive substring
// of text, in vocabulary order. Matching is plain substring containment,
// so "Java" is found inside "JavaScript".
func (v *Vocabulary) Extract(text string) []string {
	if strings.TrimSpace(text) == "" {
		return []string{}
	}
	lower := strings.ToLower(text)
	found := make([]string, 0, 8)
	for i, key := range v.lowered {
		if strings.Contains(lower, key) {
			found = append(found, v.entries[i])
		}
	}
	return found
}

// Normalize trims skills, rewrites known ones to their canonical spelling and
// drops blanks and case-insensitive duplicates. Unknown skills are kept as
// given so employers and candidates may name skills outside the vocabulary.
func (v *Vocabulary) Normalize(skills []string) []string {
	out := make([]string, 0, len(skills))
	seen := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if c, ok := v.Canonical(s); ok {
			s = c
		}
		key := strings.ToLower(s)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}

// Merge normalizes the concatenation of the given sets, keeping first-seen order.
func (v *Vocabulary) Merge(sets ...[]string) []string {
	var all []string
	for _, s := range sets {
		all = append(all, s...)
	}
	return v.Normalize(all)
}

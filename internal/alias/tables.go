// Package alias holds the static keyword tables that steer retrieval: the
// alias table maps colloquial keywords to canonical categories for the
// browse path, and the synonym table expands queries for fuzzy scoring.
// The two tables are independent and never mutated after load.
package alias

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Entry maps a colloquial keyword to a canonical category
type Entry struct {
	Keyword  string `yaml:"keyword"`
	Category string `yaml:"category"`
}

// Synonym lists the phrases added to every scheme's field set when Word
// appears in the query
type Synonym struct {
	Word    string   `yaml:"word"`
	Phrases []string `yaml:"phrases"`
}

// Tables bundles the alias and synonym tables. Order is significant.
type Tables struct {
	Aliases  []Entry   `yaml:"aliases"`
	Synonyms []Synonym `yaml:"synonyms"`
}

// Default returns the built-in tables
func Default() *Tables {
	return &Tables{
		Aliases: []Entry{
			{"women", "Women & Child"},
			{"ladies", "Women & Child"},
			{"mahila", "Women & Child"},
			{"farmer", "Agriculture"},
			{"kisan", "Agriculture"},
			{"krishi", "Agriculture"},
			{"agriculture", "Agriculture"},
			{"education", "Education"},
			{"scholarship", "Education"},
			{"student", "Education"},
			{"health", "Health"},
			{"insurance", "Health"},
			{"hospital", "Health"},
			{"housing", "Housing"},
			{"home", "Housing"},
			{"pmay", "Housing"},
			{"awas", "Housing"},
			{"business", "Business & Employment"},
			{"startup", "Business & Employment"},
			{"employment", "Business & Employment"},
			{"loan", "Business & Employment"},
			{"pension", "Social Welfare"},
			{"tribal", "Tribal Affairs"},
			{"rural", "Rural Development"},
		},
		Synonyms: []Synonym{
			{"health", []string{"medical", "hospital", "ayushman"}},
			{"pmkisan", []string{"farmer", "kisan", "income support"}},
			{"housing", []string{"home", "awas", "pradhan mantri awas yojana"}},
		},
	}
}

// LoadFile reads replacement tables from a YAML file. A section that is
// absent from the file keeps its built-in default.
func LoadFile(path string) (*Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read alias file: %w", err)
	}

	var t Tables
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse alias file: %w", err)
	}

	def := Default()
	if t.Aliases == nil {
		t.Aliases = def.Aliases
	}
	if t.Synonyms == nil {
		t.Synonyms = def.Synonyms
	}

	for i, e := range t.Aliases {
		if strings.TrimSpace(e.Keyword) == "" || strings.TrimSpace(e.Category) == "" {
			return nil, fmt.Errorf("alias entry %d: keyword and category are required", i)
		}
		t.Aliases[i].Keyword = strings.ToLower(strings.TrimSpace(e.Keyword))
		t.Aliases[i].Category = strings.TrimSpace(e.Category)
	}
	for i, s := range t.Synonyms {
		if strings.TrimSpace(s.Word) == "" {
			return nil, fmt.Errorf("synonym entry %d: word is required", i)
		}
		t.Synonyms[i].Word = strings.ToLower(strings.TrimSpace(s.Word))
		for j, p := range s.Phrases {
			t.Synonyms[i].Phrases[j] = strings.ToLower(p)
		}
	}

	return &t, nil
}

// Resolve returns the category of the first alias keyword contained in the
// query. Later entries are never consulted once one matches.
func (t *Tables) Resolve(query string) (string, bool) {
	q := strings.ToLower(query)
	for _, e := range t.Aliases {
		if strings.Contains(q, e.Keyword) {
			return e.Category, true
		}
	}
	return "", false
}

// Expansions returns every synonym phrase whose trigger word appears in the
// query, in table order
func (t *Tables) Expansions(query string) []string {
	q := strings.ToLower(query)
	var out []string
	for _, s := range t.Synonyms {
		if strings.Contains(q, s.Word) {
			out = append(out, s.Phrases...)
		}
	}
	return out
}

package match

import (
	"github.com/yojanadost/yojanadost/internal/alias"
	"github.com/yojanadost/yojanadost/internal/model"
)

// DefaultThreshold is the score a field must strictly exceed to match
const DefaultThreshold = 70

// Hit is a scheme accepted by the fuzzy matcher together with the field
// that crossed the threshold
type Hit struct {
	Scheme model.Scheme
	Field  string
	Score  int
}

// FuzzyMatcher scores every scheme's fields against the query.
//
// Cost is O(schemes x fields) PartialRatio calls per query, each of which runs
// one block search over the pair plus one per matching block. That is fine
// for catalogs of a few hundred schemes; larger catalogs need an index that
// preserves the exact threshold behavior.
type FuzzyMatcher struct {
	schemes   []model.Scheme
	fields    [][]string // normalized base fields, parallel to schemes
	tables    *alias.Tables
	threshold int
}

// NewFuzzyMatcher creates a matcher over a read-only catalog
func NewFuzzyMatcher(schemes []model.Scheme, tables *alias.Tables, threshold int) *FuzzyMatcher {
	if tables == nil {
		tables = alias.Default()
	}

	fields := make([][]string, len(schemes))
	for i, s := range schemes {
		f := make([]string, 0, 3+len(s.Keywords))
		f = append(f, Normalize(s.Name), Normalize(s.Description), Normalize(s.Category))
		for _, kw := range s.Keywords {
			f = append(f, Normalize(kw))
		}
		fields[i] = f
	}

	return &FuzzyMatcher{
		schemes:   schemes,
		fields:    fields,
		tables:    tables,
		threshold: threshold,
	}
}

// Match returns the schemes with at least one field scoring above the
// threshold, in catalog order. Synonym phrases triggered by the query are
// appended to every scheme's field set.
func (m *FuzzyMatcher) Match(query string) []Hit {
	q := Normalize(query)
	if q == "" {
		return nil
	}

	extra := m.tables.Expansions(q)

	var hits []Hit
	for i, s := range m.schemes {
		if field, score, ok := m.best(q, m.fields[i], extra); ok {
			hits = append(hits, Hit{Scheme: s, Field: field, Score: score})
		}
	}
	return hits
}

// best returns the first field whose score exceeds the threshold
func (m *FuzzyMatcher) best(q string, base, extra []string) (string, int, bool) {
	for _, f := range base {
		if score := PartialRatio(q, f); score > m.threshold {
			return f, score, true
		}
	}
	for _, f := range extra {
		if score := PartialRatio(q, f); score > m.threshold {
			return f, score, true
		}
	}
	return "", 0, false
}

// Schemes strips the scoring details from hits
func Schemes(hits []Hit) []model.Scheme {
	out := make([]model.Scheme, len(hits))
	for i, h := range hits {
		out[i] = h.Scheme
	}
	return out
}

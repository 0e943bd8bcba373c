package match

import (
	"github.com/yojanadost/yojanadost/internal/alias"
	"github.com/yojanadost/yojanadost/internal/model"
)

// CategoryFilter serves the browse path: an alias keyword in the query
// selects a category and every scheme in it is returned, uncapped.
type CategoryFilter struct {
	schemes []model.Scheme
	tables  *alias.Tables
}

// NewCategoryFilter creates a filter over a read-only catalog
func NewCategoryFilter(schemes []model.Scheme, tables *alias.Tables) *CategoryFilter {
	if tables == nil {
		tables = alias.Default()
	}
	return &CategoryFilter{schemes: schemes, tables: tables}
}

// Filter resolves the query to a category. ok is false when no alias
// keyword is present; a resolved category may still have no schemes.
func (f *CategoryFilter) Filter(query string) (category string, schemes []model.Scheme, ok bool) {
	category, ok = f.tables.Resolve(Normalize(query))
	if !ok {
		return "", nil, false
	}

	for _, s := range f.schemes {
		if s.Category == category {
			schemes = append(schemes, s)
		}
	}
	return category, schemes, true
}

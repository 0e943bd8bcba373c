// Package engine turns a user query into the response text: category
// browse first, then fuzzy retrieval, then the optional fallback.
package engine

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/yojanadost/yojanadost/internal/alias"
	"github.com/yojanadost/yojanadost/internal/match"
	"github.com/yojanadost/yojanadost/internal/model"
	"github.com/yojanadost/yojanadost/internal/respond"
)

// Fallback answers a query the catalog could not. llm.Responder.Answer
// satisfies it.
type Fallback func(ctx context.Context, query string) (string, error)

// Path records which branch produced a response
type Path string

const (
	PathEmpty          Path = "empty"
	PathCategory       Path = "category"
	PathFuzzy          Path = "fuzzy"
	PathFallback       Path = "fallback"
	PathNoMatch        Path = "no_match"
	PathFallbackFailed Path = "fallback_failed"
)

// Options tunes retrieval
type Options struct {
	Threshold     int
	FuzzyLimit    int
	ExampleScheme string
}

// OptionsFromModel maps the matching section of the config
func OptionsFromModel(cfg model.MatchingConfig) Options {
	return Options{
		Threshold:     cfg.Threshold,
		FuzzyLimit:    cfg.FuzzyLimit,
		ExampleScheme: cfg.ExampleScheme,
	}
}

// Result is the outcome of one query
type Result struct {
	Text     string         `json:"text"`
	Path     Path           `json:"path"`
	Matches  int            `json:"matches"`
	Category string         `json:"category,omitempty"`
	Schemes  []model.Scheme `json:"-"`
}

// Engine orchestrates retrieval over a read-only catalog. It holds no
// mutable state and is safe for concurrent use.
type Engine struct {
	category   *match.CategoryFilter
	fuzzy      *match.FuzzyMatcher
	formatter  *respond.Formatter
	fallback   Fallback
	categories []string
	schemes    int
	fuzzyLimit int
	logger     zerolog.Logger
}

// New creates an engine. A nil fallback selects the local no-match
// suggestion; nil tables select the built-in defaults.
func New(opts Options, schemes []model.Scheme, tables *alias.Tables, fallback Fallback, logger zerolog.Logger) *Engine {
	if opts.Threshold <= 0 {
		opts.Threshold = match.DefaultThreshold
	}
	if opts.FuzzyLimit <= 0 {
		opts.FuzzyLimit = 3
	}
	if tables == nil {
		tables = alias.Default()
	}

	return &Engine{
		category:   match.NewCategoryFilter(schemes, tables),
		fuzzy:      match.NewFuzzyMatcher(schemes, tables, opts.Threshold),
		formatter:  respond.NewFormatter(opts.ExampleScheme),
		fallback:   fallback,
		categories: model.Categories(schemes),
		schemes:    len(schemes),
		fuzzyLimit: opts.FuzzyLimit,
		logger:     logger,
	}
}

// Categories returns the distinct catalog categories in first-seen order
func (e *Engine) Categories() []string {
	out := make([]string, len(e.categories))
	copy(out, e.categories)
	return out
}

// SchemeCount returns the catalog size
func (e *Engine) SchemeCount() int {
	return e.schemes
}

// HasFallback reports whether unmatched queries go to the fallback
func (e *Engine) HasFallback() bool {
	return e.fallback != nil
}

// Respond answers a query. It never returns an error: fallback failures
// are logged and replaced by the fixed unavailable message.
func (e *Engine) Respond(ctx context.Context, query string) Result {
	query = strings.TrimSpace(query)
	if query == "" {
		return Result{Text: e.formatter.Empty(), Path: PathEmpty}
	}

	// 1. Category browse short-circuits everything else; a category with no
	// schemes falls through to fuzzy retrieval
	category, schemes, ok := e.category.Filter(query)
	if ok && len(schemes) > 0 {
		return Result{
			Text:     e.formatter.CategoryMatches(category, schemes),
			Path:     PathCategory,
			Matches:  len(schemes),
			Category: category,
			Schemes:  schemes,
		}
	}
	if ok {
		e.logger.Debug().Str("query", query).Str("category", category).Msg("Category has no schemes")
	}

	// 2. Fuzzy retrieval; the header counts every hit, the body lists the first few
	if hits := e.fuzzy.Match(query); len(hits) > 0 {
		schemes := match.Schemes(hits)
		e.logger.Debug().
			Str("query", query).
			Int("hits", len(hits)).
			Str("top_field", hits[0].Field).
			Int("top_score", hits[0].Score).
			Msg("Fuzzy match")
		return Result{
			Text:    e.formatter.Matches(schemes, e.fuzzyLimit),
			Path:    PathFuzzy,
			Matches: len(schemes),
			Schemes: schemes,
		}
	}

	// 3. Nothing local
	if e.fallback == nil {
		return Result{Text: e.formatter.NoMatch(query, e.categories), Path: PathNoMatch}
	}

	text, err := e.fallback(ctx, query)
	if err != nil {
		e.logger.Error().Err(err).Str("query", query).Msg("Fallback failed")
		return Result{Text: e.formatter.Unavailable(), Path: PathFallbackFailed}
	}
	return Result{Text: text, Path: PathFallback}
}

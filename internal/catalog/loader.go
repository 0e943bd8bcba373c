// Package catalog loads the scheme catalog once at startup. The result is
// read-only for the life of the process.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/yojanadost/yojanadost/internal/model"
)

// ErrCatalogUnavailable wraps every failure to read or parse the catalog
var ErrCatalogUnavailable = errors.New("catalog unavailable")

const userAgent = "YojanaDost/0.1 (+catalog loader)"

// rawScheme is the storage format. Older catalogs use "title" instead of
// "name".
type rawScheme struct {
	Name        string   `json:"name"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Keywords    []string `json:"keywords"`
	Eligibility string   `json:"eligibility"`
	URL         string   `json:"url"`
}

// Parse decodes a catalog document. Records without a name or title are
// skipped and counted.
func Parse(data []byte) (schemes []model.Scheme, skipped int, err error) {
	var raw []rawScheme
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, 0, fmt.Errorf("%w: parse: %v", ErrCatalogUnavailable, err)
	}

	schemes = make([]model.Scheme, 0, len(raw))
	for _, r := range raw {
		name := strings.TrimSpace(r.Name)
		if name == "" {
			name = strings.TrimSpace(r.Title)
		}
		if name == "" {
			skipped++
			continue
		}

		var keywords []string
		for _, kw := range r.Keywords {
			if kw = strings.TrimSpace(kw); kw != "" {
				keywords = append(keywords, kw)
			}
		}

		schemes = append(schemes, model.Scheme{
			Name:        name,
			Description: strings.TrimSpace(r.Description),
			Category:    strings.TrimSpace(r.Category),
			Keywords:    keywords,
			Eligibility: strings.TrimSpace(r.Eligibility),
			URL:         strings.TrimSpace(r.URL),
		})
	}

	return schemes, skipped, nil
}

// Loader reads the catalog from a file or URL
type Loader struct {
	config  model.CatalogConfig
	fetcher *Fetcher
	logger  zerolog.Logger
}

// NewLoader creates a loader for the configured source
func NewLoader(cfg model.CatalogConfig, httpProxy, httpsProxy string, logger zerolog.Logger) *Loader {
	defaults := model.DefaultConfig().Catalog
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = defaults.FetchTimeout
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = defaults.MaxBytes
	}

	return &Loader{
		config:  cfg,
		fetcher: NewFetcher(cfg.FetchTimeout, userAgent, cfg.MaxBytes, httpProxy, httpsProxy),
		logger:  logger,
	}
}

// Load reads and parses the catalog. In tolerant mode a failure is logged
// and an empty catalog is returned; in strict mode it is returned wrapped
// in ErrCatalogUnavailable.
func (l *Loader) Load(ctx context.Context) ([]model.Scheme, error) {
	schemes, err := l.load(ctx)
	if err == nil {
		return schemes, nil
	}

	if l.config.Mode == model.CatalogTolerant {
		l.logger.Warn().Err(err).Str("source", l.config.Source).Msg("Serving empty catalog")
		return []model.Scheme{}, nil
	}
	return nil, err
}

func (l *Loader) load(ctx context.Context) ([]model.Scheme, error) {
	source := l.config.Source
	if source == "" {
		return nil, fmt.Errorf("%w: no source configured", ErrCatalogUnavailable)
	}

	var data []byte
	var err error
	if isRemote(source) {
		data, err = l.fetcher.FetchWithRetry(ctx, source)
	} else {
		data, err = os.ReadFile(source)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrCatalogUnavailable, source, err)
	}

	schemes, skipped, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		l.logger.Warn().Int("skipped", skipped).Str("source", source).Msg("Skipped catalog records without a name")
	}

	l.logger.Info().
		Int("schemes", len(schemes)).
		Int("categories", len(model.Categories(schemes))).
		Str("source", source).
		Msg("Catalog loaded")

	return schemes, nil
}

func isRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

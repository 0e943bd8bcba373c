package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/yojanadost/yojanadost/internal/alias"
	"github.com/yojanadost/yojanadost/internal/cache"
	"github.com/yojanadost/yojanadost/internal/catalog"
	"github.com/yojanadost/yojanadost/internal/engine"
	"github.com/yojanadost/yojanadost/internal/llm"
	"github.com/yojanadost/yojanadost/internal/logging"
	"github.com/yojanadost/yojanadost/internal/model"
)

// app holds the components every command shares
type app struct {
	config    *model.Config
	logger    zerolog.Logger
	engine    *engine.Engine
	schemes   []model.Scheme
	responder *llm.Responder // nil when the fallback is disabled
}

// bootstrap resolves the configuration and builds the engine
func bootstrap(ctx context.Context) (*app, error) {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	return newApp(ctx, cfg, os.Stderr)
}

// newApp builds the engine from a resolved configuration. Log output goes
// to logOut.
func newApp(ctx context.Context, cfg *model.Config, logOut io.Writer) (*app, error) {
	logger := logging.New(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: logOut,
	})

	// 1. Catalog; outbound proxies are configured once, under llm
	loader := catalog.NewLoader(cfg.Catalog, cfg.LLM.HTTPProxy, cfg.LLM.HTTPSProxy, logger)
	schemes, err := loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	// 2. Alias and synonym tables
	tables := alias.Default()
	if cfg.Catalog.AliasesFile != "" {
		tables, err = alias.LoadFile(cfg.Catalog.AliasesFile)
		if err != nil {
			return nil, fmt.Errorf("load aliases: %w", err)
		}
		logger.Info().
			Str("file", cfg.Catalog.AliasesFile).
			Int("aliases", len(tables.Aliases)).
			Int("synonyms", len(tables.Synonyms)).
			Msg("Alias tables loaded")
	}

	// 3. Optional fallback; a misconfigured provider disables it rather
	// than failing startup
	var opts []llm.ResponderOption
	if cfg.Cache.Enabled {
		var answers cache.Cache = cache.NewMemoryCache(cfg.Cache.TTL, cfg.Cache.TTL)
		if cfg.Cache.Dir != "" {
			answers = cache.NewLayeredCache(answers, cache.NewDiskCache(cfg.Cache.Dir, cfg.Cache.TTL))
		}
		opts = append(opts, llm.WithCache(answers, cfg.Cache.TTL))
	}
	responder, err := llm.NewResponder(llm.ConfigFromModel(cfg.LLM), opts...)
	if err != nil {
		logger.Warn().Err(err).Str("provider", cfg.LLM.Provider).Msg("Fallback disabled")
		responder = nil
	}

	var fallback engine.Fallback
	if responder != nil {
		fallback = responder.Answer
		logger.Info().Str("provider", responder.ProviderName()).Msg("Fallback enabled")
	}

	eng := engine.New(engine.OptionsFromModel(cfg.Matching), schemes, tables, fallback, logger)

	return &app{
		config:    cfg,
		logger:    logger,
		engine:    eng,
		schemes:   schemes,
		responder: responder,
	}, nil
}

/*
Package cli implements the askdeck commands.

Commands that run the agent share one assembly path: load config, load the
catalog, open storage, build the learning, tracing and reasoning services,
and wire them into the agent. Catalog-only commands load just the catalog.
*/
package cli

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/askdeck/askdeck/internal/agent"
	"github.com/askdeck/askdeck/internal/catalog"
	"github.com/askdeck/askdeck/internal/config"
	"github.com/askdeck/askdeck/internal/learning"
	"github.com/askdeck/askdeck/internal/llm"
	"github.com/askdeck/askdeck/internal/reason"
	"github.com/askdeck/askdeck/internal/respond"
	"github.com/askdeck/askdeck/internal/session"
	"github.com/askdeck/askdeck/internal/storage"
	"github.com/askdeck/askdeck/internal/trace"
)

// app bundles the assembled services behind the agent commands.
type app struct {
	cfg     *config.Config
	records []catalog.Record
	index   *catalog.Index
	store   storage.Storage
	learn   *learning.Service
	tracer  *trace.Service
	agent   *agent.Agent
	log     *logrus.Logger
}

// newLogger builds the logrus logger configured by the config file.
func newLogger(cfg *config.Config) *logrus.Logger {
	log := logrus.New()
	if cfg != nil && cfg.Settings != nil && cfg.Settings.LogLevel != "" {
		if level, err := logrus.ParseLevel(cfg.Settings.LogLevel); err == nil {
			log.SetLevel(level)
		}
	}
	return log
}

// loadCatalog returns the configured catalog, or the built-in sample when
// no path is configured.
func loadCatalog(cfg *config.Config) ([]catalog.Record, error) {
	if cfg.CatalogPath == "" {
		return catalog.Sample(), nil
	}
	records, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return records, nil
}

// buildApp assembles the full pipeline from configuration.
func buildApp() (*app, error) {
	config.Bootstrap()
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log := newLogger(cfg)

	records, err := loadCatalog(cfg)
	if err != nil {
		return nil, err
	}

	index, err := catalog.NewIndex(records)
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog index: %w", err)
	}

	var store storage.Storage
	if cfg.DatabasePath != "" {
		store = storage.NewStorageAt(cfg.DatabasePath)
	} else {
		store = storage.NewStorage()
	}

	learn := learning.NewService(store, log)
	tracer := trace.NewService(log)
	engine := reason.NewEngine()
	gen := respond.NewGenerator(learn, index)
	sessions := session.NewPool(cfg.Settings.SessionPoolSize)

	var fallback llm.Channel
	if key := config.APIKey(); key != "" {
		fallback = llm.NewClient(llm.Config{
			APIKey:    key,
			Model:     cfg.Settings.FallbackModel,
			MaxTokens: cfg.Settings.FallbackMaxTokens,
			Timeout:   time.Duration(cfg.Settings.FallbackTimeoutSeconds) * time.Second,
		})
	} else {
		log.Debug("ANTHROPIC_API_KEY not set, fallback channel disabled")
	}

	a := agent.New(records, engine, gen, learn, tracer, fallback, sessions, log)

	return &app{
		cfg:     cfg,
		records: records,
		index:   index,
		store:   store,
		learn:   learn,
		tracer:  tracer,
		agent:   a,
		log:     log,
	}, nil
}

// close releases the app's resources.
func (a *app) close() {
	if a.index != nil {
		_ = a.index.Close()
	}
	if a.store != nil {
		_ = a.store.Close()
	}
}

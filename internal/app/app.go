// Package app wires configuration into the dataset, search engine and
// enrichment services shared by the HTTP server and the CLI.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"github.com/epeers/holdings/config"
	"github.com/epeers/holdings/internal/cache"
	"github.com/epeers/holdings/internal/dataset"
	"github.com/epeers/holdings/internal/llm"
	"github.com/epeers/holdings/internal/quotes"
	"github.com/epeers/holdings/internal/repository"
	"github.com/epeers/holdings/internal/services"
)

// SetLogLevel applies the configured logrus level, falling back to info
func SetLogLevel(level string) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		log.Warnf("unknown log level %q, using info", level)
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
}

// LoadEngine loads the dataset tables and builds the search engine over them
func LoadEngine(ctx context.Context, cfg *config.Config) (*services.SearchEngine, error) {
	tables, err := dataset.Load(ctx, cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}
	log.Infof("Loaded %d positions, %d filers (fingerprint %s)", len(tables.Positions), len(tables.Coverpages), tables.Fingerprint)
	return services.NewSearchEngine(tables, cfg.SecurityIndexSample), nil
}

// OpenStore opens the ticker cache backend named by cfg.CacheBackend. The
// returned close function releases any connection held by the backend.
func OpenStore(ctx context.Context, cfg *config.Config) (cache.Store, func(), error) {
	switch cfg.CacheBackend {
	case config.BackendPostgres:
		pool, err := pgxpool.New(ctx, cfg.PGURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("failed to ping database: %w", err)
		}
		store, err := repository.NewPostgresStore(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		return store, pool.Close, nil
	case config.BackendSQLite:
		store, err := repository.OpenSQLiteStore(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {
			if err := store.Close(); err != nil {
				log.Errorf("failed to close sqlite store: %v", err)
			}
		}, nil
	default:
		return repository.NewCSVStore(cfg.CachePath), func() {}, nil
	}
}

// NewEnrichment builds the enrichment service over the configured cache
// backend, quote service and, when a key is configured, the language model.
func NewEnrichment(ctx context.Context, cfg *config.Config) (*services.EnrichmentService, func(), error) {
	store, closeStore, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	tc, err := cache.NewTickerCache(ctx, store)
	if err != nil {
		closeStore()
		return nil, nil, fmt.Errorf("failed to load ticker cache: %w", err)
	}

	var gen services.TextGenerator
	client, err := llm.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	switch {
	case err == nil:
		gen = client
	case errors.Is(err, llm.ErrNoCredentials):
		log.Info("No Gemini API key configured, language-model lookups disabled")
	default:
		log.Warnf("Language-model lookups disabled: %v", err)
	}

	svc := services.NewEnrichmentService(tc, quotes.NewClientWithBaseURL(cfg.QuoteBaseURL), gen, cfg.ExternalTimeout, cfg.BatchPacing)
	return svc, closeStore, nil
}

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/frahmantamala/ontology-client/internal"
	"github.com/frahmantamala/ontology-client/internal/auth"
	"github.com/frahmantamala/ontology-client/internal/concept"
	"github.com/frahmantamala/ontology-client/internal/concept/remote"
	"github.com/frahmantamala/ontology-client/internal/graphql"
	"github.com/frahmantamala/ontology-client/internal/i18n"
	"github.com/frahmantamala/ontology-client/internal/storage"
	"github.com/frahmantamala/ontology-client/internal/storage/gormstore"
	"github.com/frahmantamala/ontology-client/internal/storage/memory"
	"github.com/frahmantamala/ontology-client/internal/storage/redis"
	"github.com/frahmantamala/ontology-client/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
)

type Dependencies struct {
	Config       *internal.Config
	Logger       *slog.Logger
	Store        storage.Store
	Registry     *prometheus.Registry
	GraphQL      *graphql.Client
	Auth         *auth.Container
	Concepts     *concept.Service
	Translations *i18n.Service

	closeStore func() error
}

func initializeDependencies(cfg *internal.Config, log *slog.Logger) (*Dependencies, error) {
	store, closeStore, err := openStore(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to open token storage: %w", err)
	}

	registry := prometheus.NewRegistry()
	client := graphql.NewClient(graphql.Config{
		Endpoint: cfg.GraphQL.Endpoint,
		Timeout:  cfg.GraphQL.Timeout,
	}, log.With("component", "graphql"), graphql.NewMetrics(registry))

	container := auth.NewContainer(store, client, log)

	return &Dependencies{
		Config:   cfg,
		Logger:   log,
		Store:    store,
		Registry: registry,
		GraphQL:  client,
		Auth:     container,
		Concepts: concept.NewService(remote.NewConceptRepository(client, container.Tokens), log.With("component", "concept_service")),
		Translations: i18n.NewService(client, container.Tokens, i18n.Config{
			DefaultLanguageID: cfg.I18n.DefaultLanguageID,
			CacheTTL:          cfg.I18n.CacheTTL,
		}, log.With("component", "i18n")),
		closeStore: closeStore,
	}, nil
}

func openStore(cfg internal.StorageConfig) (storage.Store, func() error, error) {
	switch cfg.Driver {
	case internal.StorageDriverMemory:
		return memory.New(), func() error { return nil }, nil
	case internal.StorageDriverSQLite, internal.StorageDriverPostgres:
		s, err := gormstore.Open(cfg.Driver, cfg.Source)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case internal.StorageDriverRedis:
		s := redis.New(redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.KeyPrefix,
		})
		if err := s.Ping(context.Background()); err != nil {
			_ = s.Close()
			return nil, nil, fmt.Errorf("failed to ping redis: %w", err)
		}
		return s, s.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
	}
}

func (d *Dependencies) Close() {
	if err := d.closeStore(); err != nil {
		d.Logger.Error("failed to close token storage", "error", err)
	}
}

// withApp builds the dependency graph for one command invocation and tears it
// down afterwards. With metrics enabled the registry is dumped to stderr.
func withApp(cmd *cobra.Command, run func(ctx context.Context, app *Dependencies) error) error {
	log := logger.LoggerWrapper().With("command", cmd.CommandPath())
	app, err := initializeDependencies(cfg, log)
	if err != nil {
		return err
	}
	defer app.Close()

	ctx := logger.With(cmd.Context(), "command", cmd.CommandPath())
	runErr := run(ctx, app)

	if cfg.Observability.Metrics.Enabled {
		families, err := app.Registry.Gather()
		if err != nil {
			log.Warn("failed to gather metrics", "error", err)
		} else if err := writeMetrics(cmd.ErrOrStderr(), families); err != nil {
			log.Warn("failed to write metrics", "error", err)
		}
	}
	return runErr
}

func writeMetrics(w io.Writer, families []*dto.MetricFamily) error {
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

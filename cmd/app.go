package cmd

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/bagucv/bagbot-engine/pkg/adapters/datasource/postgres"
	"github.com/bagucv/bagbot-engine/pkg/config"
	"github.com/bagucv/bagbot-engine/pkg/database"
	"github.com/bagucv/bagbot-engine/pkg/llm"
	"github.com/bagucv/bagbot-engine/pkg/metrics"
	"github.com/bagucv/bagbot-engine/pkg/services"
)

// app holds the wired services shared by serve and ask.
type app struct {
	db      *sql.DB
	metrics *metrics.Metrics
	library services.LibraryQueryService
	summary services.SummaryService
	chat    services.ChatService
}

func openDatabase(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	db, err := database.Open(ctx, &database.Config{
		URL:            cfg.Database.ConnectionString(),
		MaxConnections: cfg.Database.MaxConnections,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// newApp connects to the store and wires the question pipeline. The caller
// closes app.db.
func newApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app, error) {
	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			collectors.NewDBStatsCollector(db, cfg.Database.Database),
		)
		m = metrics.New(reg)
	}

	client, err := llm.NewClient(&llm.Config{
		Endpoint: config.ResolveURLForDocker(cfg.LLM.BaseURL),
		Model:    cfg.LLM.Model,
		APIKey:   cfg.LLM.APIKey,
		Timeout:  cfg.LLM.Timeout,
	}, logger)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	library := services.NewLibraryQueryService(
		services.NewSchemaDescriptor(postgres.NewCatalog(db, cfg.Database.Schema, logger), cfg.Library.AllowedTables, logger),
		client,
		services.NewSQLExtractor(logger),
		services.NewQueryGuard(m, logger),
		services.NewQueryExecutor(postgres.NewQueryRunner(db, cfg.Database.QueryTimeout, logger), cfg.Library.MaxRows, m, logger),
		services.NewAnswerSynthesizer(client, m, logger),
		m,
		logger,
	)
	summary := services.NewSummaryService(client, m, logger)

	return &app{
		db:      db,
		metrics: m,
		library: library,
		summary: summary,
		chat:    services.NewChatService(library, summary, client, m, logger),
	}, nil
}

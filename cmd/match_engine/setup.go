package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jonathan/match-engine/internal/config"
	"github.com/jonathan/match-engine/internal/db"
	"github.com/jonathan/match-engine/internal/docstore"
	"github.com/jonathan/match-engine/internal/llm"
	"github.com/jonathan/match-engine/internal/logger"
	"github.com/jonathan/match-engine/internal/pipeline"
)

// resolveConfig merges environment variables over the optional config file.
// CLI flags are applied by each command on top of the result.
func resolveConfig() (config.Config, error) {
	cfg := config.FromEnv()

	if configPath != "" {
		fileCfg, err := config.Load(configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = cfg.MergeWithDefaults(*fileCfg)
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	return logger.New(cfg.LogJSON, cfg.Debug)
}

// buildEngine wires the database, AI client, and document store into a
// scoring engine for one-shot CLI commands. The returned cleanup closes all
// of them.
func buildEngine(ctx context.Context, cfg config.Config, log *zap.Logger) (*pipeline.Engine, func(), error) {
	if cfg.DatabaseURL == "" {
		return nil, nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.APIKey == "" {
		return nil, nil, fmt.Errorf("GEMINI_API_KEY is required")
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	llmConfig := llm.DefaultConfig()
	if cfg.AnalysisModel != "" {
		llmConfig = llmConfig.WithAnalysisModel(cfg.AnalysisModel)
	}
	if cfg.EmbeddingModel != "" {
		llmConfig = llmConfig.WithEmbeddingModel(cfg.EmbeddingModel)
	}
	client, err := llm.NewClient(ctx, llmConfig, cfg.APIKey)
	if err != nil {
		database.Close()
		return nil, nil, fmt.Errorf("failed to create AI client: %w", err)
	}

	store, err := docstore.NewS3Store(ctx, cfg.ResumeBucket, cfg.S3Endpoint)
	if err != nil {
		database.Close()
		_ = client.Close()
		return nil, nil, fmt.Errorf("failed to create document store: %w", err)
	}

	engine := pipeline.NewEngine(database, client, store, log, pipeline.Config{Workers: cfg.Workers})
	cleanup := func() {
		_ = client.Close()
		database.Close()
	}
	return engine, cleanup, nil
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/match-engine/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes scoring, configuration, and progress endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig()
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required")
	}

	log, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	port := servePort
	if cfg.Port != 0 && !cmd.Flags().Changed("port") {
		port = cfg.Port
	}

	srv, err := server.New(cmd.Context(), server.Config{
		Port:           port,
		DatabaseURL:    cfg.DatabaseURL,
		APIKey:         cfg.APIKey,
		AnalysisModel:  cfg.AnalysisModel,
		EmbeddingModel: cfg.EmbeddingModel,
		ResumeBucket:   cfg.ResumeBucket,
		S3Endpoint:     cfg.S3Endpoint,
		Workers:        cfg.Workers,
		Log:            log,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}

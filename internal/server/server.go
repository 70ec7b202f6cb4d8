// Package server provides the HTTP REST API for the match engine.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/jonathan/match-engine/internal/db"
	"github.com/jonathan/match-engine/internal/docstore"
	"github.com/jonathan/match-engine/internal/llm"
	"github.com/jonathan/match-engine/internal/pipeline"
	"github.com/jonathan/match-engine/internal/server/ratelimit"
)

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	db         *db.DB
	engine     *pipeline.Engine
	llmClient  llm.Client
	limiter    *ratelimit.Limiter
	validate   *validator.Validate
	log        *zap.Logger
}

// Config holds server configuration
type Config struct {
	Port           int
	DatabaseURL    string
	APIKey         string
	AnalysisModel  string
	EmbeddingModel string
	ResumeBucket   string
	S3Endpoint     string
	Workers        int
	Log            *zap.Logger
}

// New creates a new server instance
func New(ctx context.Context, cfg Config) (*Server, error) {
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
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
		return nil, fmt.Errorf("failed to create AI client: %w", err)
	}

	store, err := docstore.NewS3Store(ctx, cfg.ResumeBucket, cfg.S3Endpoint)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create document store: %w", err)
	}

	s := &Server{
		db:        database,
		llmClient: client,
		limiter:   ratelimit.NewLimiter(ratelimit.DefaultTriggerLimit, time.Minute),
		validate:  validator.New(),
		log:       cfg.Log,
	}
	s.engine = pipeline.NewEngine(database, client, store, cfg.Log, pipeline.Config{Workers: cfg.Workers})

	mux := http.NewServeMux()
	mux.HandleFunc("POST /applications/{id}/score", s.handleScoreApplication)
	mux.HandleFunc("GET /applications/{id}/score", s.handleGetScore)
	mux.HandleFunc("POST /jobs/{id}/score-batch", s.handleScoreBatch)
	mux.HandleFunc("GET /jobs/{id}/scores", s.handleListScores)
	mux.HandleFunc("GET /jobs/{id}/score-progress", s.handleScoreProgress)
	mux.HandleFunc("GET /organizations/{id}/scoring-config", s.handleGetScoringConfig)
	mux.HandleFunc("PUT /organizations/{id}/scoring-config", s.handleSetScoringConfig)
	mux.HandleFunc("GET /health", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withLogging(s.withCORS(mux)),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // synchronous scoring waits on the AI provider
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Start begins listening for requests and blocks until shutdown.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	}
	s.log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.limiter.Stop()
	if err := s.llmClient.Close(); err != nil {
		s.log.Warn("failed to close AI client", zap.Error(err))
	}
	s.db.Close()
	s.log.Info("server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", time.Since(start)))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.db.Ping(r.Context()); err != nil {
		s.jsonResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "database": "unreachable"})
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error("failed to encode JSON response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

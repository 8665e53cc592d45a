package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/simpleray/SNSCheckerBack-phone/internal/logger"
	"github.com/simpleray/SNSCheckerBack-phone/internal/model"
	"github.com/simpleray/SNSCheckerBack-phone/internal/ner"
)

// DefaultName is reported by GET /
const DefaultName = "SNS Checker API"

// Analyzer is the part of the pipeline the API needs
type Analyzer interface {
	Analyze(ctx context.Context, text string) (*model.Report, error)
	AnalyzeWith(ctx context.Context, text string, rec ner.Recognizer) (*model.Report, error)
}

// Info identifies the running service
type Info struct {
	Name    string
	Version string
}

// Server is the HTTP API
type Server struct {
	analyzer      Analyzer
	cfg           model.ServerConfig
	maxTextLength int
	info          Info
	router        chi.Router
}

// New creates the API server and registers its routes
func New(analyzer Analyzer, cfg model.ServerConfig, maxTextLength int, info Info) *Server {
	if info.Name == "" {
		info.Name = DefaultName
	}
	s := &Server{
		analyzer:      analyzer,
		cfg:           cfg,
		maxTextLength: maxTextLength,
		info:          info,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	if cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	s.RegisterRoutes(r)
	s.router = r
	return s
}

// RegisterRoutes registers all API routes
func (s *Server) RegisterRoutes(r chi.Router) {
	r.Get("/", s.rootHandler)
	r.Get("/health", s.healthHandler)
	r.Get("/version", s.versionHandler)
	r.Post("/analyze", s.analyzeHandler)
}

// Handler returns the root handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until ctx is canceled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// requestLogger logs one structured line per request
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// Package server exposes the HTTP API: questionnaire submission,
// dashboard queries, report generation, course catalogs, and the
// credential endpoints.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/campuspulse/wellbeing-cli/internal/auth"
	"github.com/campuspulse/wellbeing-cli/internal/config"
	"github.com/campuspulse/wellbeing-cli/internal/ingest"
	"github.com/campuspulse/wellbeing-cli/internal/report"
	"github.com/campuspulse/wellbeing-cli/internal/schema"
	"github.com/campuspulse/wellbeing-cli/internal/store"
)

// Server wires the HTTP layer to the ingestion pipeline and report
// generator.
type Server struct {
	cfg     *config.Config
	schema  *schema.Schema
	ingest  *ingest.Pipeline
	reports *report.Generator
	creds   *auth.Credentials
	db      store.Store
}

// New creates a Server. The operational store is optional.
func New(cfg *config.Config, s *schema.Schema, p *ingest.Pipeline, g *report.Generator, creds *auth.Credentials, db store.Store) *Server {
	return &Server{
		cfg:     cfg,
		schema:  s,
		ingest:  p,
		reports: g,
		creds:   creds,
		db:      db,
	}
}

// Router builds the chi mux with the CORS and security-gate middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))
	r.Use(auth.Gate(s.cfg.Auth))

	r.Get("/health", s.handleHealth)
	r.Post("/webhook", s.handleWebhook)

	r.Route("/api", func(r chi.Router) {
		r.Post("/submit/{university}", s.handleSubmit)
		r.Get("/dashboard", s.handleDashboard)

		r.Post("/reports", s.handleGenerateReport)
		r.Get("/reports/view/{timestamp}", s.handleViewReport)
		r.Delete("/reports/delete/{timestamp}", s.handleDeleteReport)

		r.Get("/courses/{university}", s.handleCourses)
		r.Get("/departments/{university}", s.handleDepartments)

		r.Post("/login", s.handleLogin)
		r.Post("/register", s.handleRegister)
		r.Delete("/users", s.handleDeleteUser)
	})

	return r
}

// ListenAndServe runs the server until the context is cancelled, then
// shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Server.Port),
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		zap.L().Info("server listening", zap.Int("port", s.cfg.Server.Port))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// requestLogger logs each request with the global zap logger.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		zap.L().Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zap.L().Error("write response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

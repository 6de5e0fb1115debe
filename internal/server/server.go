// Package server exposes parsing and practice over a JSON HTTP API.
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
	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/abhisek/quizbank/internal/explain"
	"github.com/abhisek/quizbank/internal/session"
)

// Server serves one practice session. Explainer may be nil, in which case
// the explain endpoint answers 503.
type Server struct {
	svc       *session.Service
	explainer *explain.Service
	cfg       Config
	log       logrus.FieldLogger

	parseCache *cache.Cache
	router     chi.Router
}

// New builds the router.
func New(svc *session.Service, explainer *explain.Service, cfg Config, log logrus.FieldLogger) *Server {
	if log == nil {
		log = logrus.StandardLogger()
	}
	s := &Server{
		svc:        svc,
		explainer:  explainer,
		cfg:        cfg,
		log:        log,
		parseCache: cache.New(cfg.ParseCacheTTL, 2*cfg.ParseCacheTTL),
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, requestLogger(s.log), middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		ExposedHeaders: []string{"Content-Length"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(api chi.Router) {
		if s.cfg.RatePerSecond > 0 {
			api.Use(newIPLimiter(s.cfg.RatePerSecond, max(s.cfg.Burst, 1)).Handle)
		}
		api.Post("/parse", s.handleParse)

		api.Route("/bank", func(br chi.Router) {
			br.Post("/import", s.handleImport)
			br.Get("/stats", s.handleStats)
			br.Get("/draw", s.handleDraw)
			br.Post("/answers", s.handleAnswer)
			br.Post("/move-back", s.handleMoveBack)
			br.Get("/answered", s.handleAnswered)
			br.Get("/export", s.handleExport)
			br.Get("/questions/{index}", s.handlePreview)
			br.Delete("/questions/{index}", s.handleDelete)
			br.Post("/questions/{index}/explain", s.handleExplain)
		})
	})
	return r
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	hs := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.WithField("addr", s.cfg.Addr).Info("listening")
		errc <- hs.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := hs.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

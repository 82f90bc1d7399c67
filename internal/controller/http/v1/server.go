package v1

import (
	"context"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/kurochkinivan/receipt_reporter/internal/config"
)

type Server struct {
	httpServer *http.Server
}

func NewRouter(log *slog.Logger, runsRepo RunsRepository, outcomesRepo OutcomesRepository) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	h := NewRunsHandler(log, runsRepo, outcomesRepo)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/runs/{run_id}", h.GetRun)
		r.Get("/runs/{run_id}/outcomes", h.GetRunOutcomes)
	})

	return r
}

func NewServer(log *slog.Logger, cfg config.HTTP, runsRepo RunsRepository, outcomesRepo OutcomesRepository) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:         net.JoinHostPort(cfg.Host, cfg.Port),
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
			Handler:      NewRouter(log, runsRepo, outcomesRepo),
			ErrorLog:     slog.NewLogLogger(log.Handler(), slog.LevelError),
		},
	}
}

func (s *Server) Addr() string {
	return s.httpServer.Addr
}

func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

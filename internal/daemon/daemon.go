// Package daemon serves the management surface over HTTP.
package daemon

import (
	"context"
	"errors"
	"net/http"
	"syscall"
	"time"

	"github.com/oklog/run"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ohjain/ohjain/telemetry"
	"github.com/ohjain/ohjain/types"
)

// ManageFunc executes one management request.
type ManageFunc func(ctx context.Context, req types.Request) types.Result

// Config holds daemon settings.
type Config struct {
	ListenAddr  string
	MetricsAddr string
	Region      string
}

// Server exposes the manage call as an HTTP API plus health and metrics
// endpoints.
type Server struct {
	cfg    Config
	manage ManageFunc
	logger *telemetry.Logger
}

// NewServer creates a daemon server around a manage function.
func NewServer(cfg Config, manage ManageFunc) *Server {
	return &Server{
		cfg:    cfg,
		manage: manage,
		logger: telemetry.NewLogger("daemon"),
	}
}

// Run serves until the context is cancelled or a signal arrives.
func (s *Server) Run(ctx context.Context) error {
	api := &http.Server{
		Addr:              s.cfg.ListenAddr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metrics := &http.Server{
		Addr:              s.cfg.MetricsAddr,
		Handler:           metricsMux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	var group run.Group
	group.Add(func() error {
		s.logger.Info().Str("addr", s.cfg.ListenAddr).Msg("api server listening")
		return api.ListenAndServe()
	}, func(error) {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = api.Shutdown(shutdownCtx)
	})
	group.Add(func() error {
		s.logger.Info().Str("addr", s.cfg.MetricsAddr).Msg("metrics server listening")
		return metrics.ListenAndServe()
	}, func(error) {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metrics.Shutdown(shutdownCtx)
	})
	group.Add(run.SignalHandler(ctx, syscall.SIGINT, syscall.SIGTERM))

	err := group.Run()

	var signalErr run.SignalError
	if errors.As(err, &signalErr) || errors.Is(err, http.ErrServerClosed) || errors.Is(err, context.Canceled) {
		s.logger.Info().Msg("daemon stopped")
		return nil
	}
	return err
}

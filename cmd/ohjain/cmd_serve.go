package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/ohjain/ohjain/internal/daemon"
	"github.com/ohjain/ohjain/manager"
	"github.com/ohjain/ohjain/telemetry"
	"github.com/ohjain/ohjain/types"
)

var (
	serveListenAddr  string
	serveMetricsAddr string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the manage call as an HTTP API",
	Long: `Serve exposes POST /v1/manage taking the request JSON and returning
the result JSON, plus /healthz and a prometheus /metrics endpoint.
Credentials travel in each request; the daemon holds none.`,
	Example: `  ohjain serve
  ohjain serve --listen :8080 --metrics :9090`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveListenAddr, "listen", "", "API listen address")
	serveCmd.Flags().StringVar(&serveMetricsAddr, "metrics", "", "Metrics listen address")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveListenAddr != "" {
		cfg.Daemon.ListenAddr = serveListenAddr
	}
	if serveMetricsAddr != "" {
		cfg.Daemon.MetricsAddr = serveMetricsAddr
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// OTEL metrics surface through the prometheus exporter
	promExporter, err := otelprom.New()
	if err != nil {
		return fmt.Errorf("failed to create prometheus exporter: %w", err)
	}
	otel.SetMeterProvider(sdkmetric.NewMeterProvider(sdkmetric.WithReader(promExporter)))

	metrics, err := telemetry.NewOperationMetrics()
	if err != nil {
		return fmt.Errorf("failed to create metrics: %w", err)
	}

	opts, cleanup, err := managerOptions(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()
	opts = append(opts, manager.WithMetrics(metrics))

	server := daemon.NewServer(daemon.Config{
		ListenAddr:  cfg.Daemon.ListenAddr,
		MetricsAddr: cfg.Daemon.MetricsAddr,
		Region:      cfg.Region,
	}, func(ctx context.Context, req types.Request) types.Result {
		return manager.Manage(ctx, req, opts...)
	})

	return server.Run(ctx)
}

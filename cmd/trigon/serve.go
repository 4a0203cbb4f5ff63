package main

import (
	"context"
	"fmt"
	"sync"

	"mercator-hq/trigon/pkg/cli"
	"mercator-hq/trigon/pkg/config"
	"mercator-hq/trigon/pkg/fixture"
	"mercator-hq/trigon/pkg/history"
	"mercator-hq/trigon/pkg/history/retention"
	securitytls "mercator-hq/trigon/pkg/security/tls"
	"mercator-hq/trigon/pkg/server"
	"mercator-hq/trigon/pkg/telemetry/health"
	"mercator-hq/trigon/pkg/telemetry/logging"
	"mercator-hq/trigon/pkg/telemetry/metrics"
	"mercator-hq/trigon/pkg/telemetry/tracing"

	"github.com/spf13/cobra"
)

var serveFlags struct {
	listenAddress string
	logLevel      string
	watch         bool
	fixtures      string
	dryRun        bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the classifier over HTTP",
	Long: `Serve the classifier over HTTP.

Endpoints: /v1/classify, /healthz, /readyz, /version and, when metrics are
enabled, the metrics path. With --watch the fixture file is re-run on every
change and each run is recorded when history is enabled.

HTTPS, API keys and per-client rate limits on /v1/classify are configured
under server.tls, server.auth and server.rate_limit.

Examples:
  trigon serve
  trigon serve --listen 0.0.0.0:8080
  trigon serve --watch --fixtures testdata/test_cases.txt
  trigon serve --dry-run`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveFlags.listenAddress, "listen", "l", "", "override listen address")
	serveCmd.Flags().StringVar(&serveFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	serveCmd.Flags().BoolVar(&serveFlags.watch, "watch", false, "re-run the fixture file when it changes")
	serveCmd.Flags().StringVar(&serveFlags.fixtures, "fixtures", "", "override fixture file for --watch")
	serveCmd.Flags().BoolVar(&serveFlags.dryRun, "dry-run", false, "validate config without starting the server")
}

// service holds everything serve starts, so it can be torn down in order.
type service struct {
	cfg       *config.Config
	logger    *logging.Logger
	metrics   *metrics.Collector
	tracer    *tracing.Tracer
	store     history.Storage
	scheduler *retention.Scheduler
	watcher   *fixture.Watcher
	certs     *securitytls.CertificateReloader
	server    *server.Server
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if serveFlags.listenAddress != "" {
		cfg.Server.ListenAddress = serveFlags.listenAddress
	}
	if serveFlags.logLevel != "" {
		cfg.Logging.Level = serveFlags.logLevel
	}
	if serveFlags.watch {
		cfg.Fixtures.Watch = true
	}
	if serveFlags.fixtures != "" {
		cfg.Fixtures.Path = serveFlags.fixtures
	}
	if err := config.Validate(cfg); err != nil {
		return cli.NewConfigError("", err.Error())
	}

	if serveFlags.dryRun {
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Configuration valid")
		return nil
	}

	svc, err := newService(cfg)
	if err != nil {
		return err
	}
	defer svc.close()

	ctx, cancel := cli.SetupSignalHandler()
	defer cancel()

	return svc.run(ctx)
}

// newService wires the collaborators described by cfg.
func newService(cfg *config.Config) (*service, error) {
	logger, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}
	svc := &service{cfg: cfg, logger: logger}

	svc.metrics = metrics.NewCollector(&cfg.Metrics, nil)

	svc.tracer, err = tracing.New(&cfg.Tracing)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}

	checker := health.New(0)
	if cfg.History.Enabled {
		svc.store, err = openHistory(cfg)
		if err != nil {
			svc.close()
			return nil, err
		}
		checker.RegisterCheck("history", svc.store.Ping)
		svc.scheduler = retention.NewScheduler(retention.NewPruner(svc.store, cfg.History.Retention, logger))
	}

	if cfg.Fixtures.Watch {
		svc.watcher, err = fixture.NewWatcher(cfg.Fixtures.Path, cfg.Fixtures.DebounceInterval, logger)
		if err != nil {
			svc.close()
			return nil, err
		}
	}

	tlsConfig, certs, err := securitytls.NewServerConfig(&cfg.Server.TLS, logger)
	if err != nil {
		svc.close()
		return nil, fmt.Errorf("failed to configure TLS: %w", err)
	}
	svc.certs = certs

	svc.server = server.New(&cfg.Server, server.Options{
		Logger:      logger,
		Metrics:     svc.metrics,
		Tracer:      svc.tracer,
		Health:      checker,
		MetricsPath: cfg.Metrics.Path,
		TLSConfig:   tlsConfig,
		Version:     Version,
		Commit:      GitCommit,
		BuildTime:   BuildDate,
	})

	return svc, nil
}

// run starts background jobs and blocks serving HTTP until ctx is done.
func (s *service) run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if s.scheduler != nil {
		if err := s.scheduler.Start(ctx); err != nil {
			return cli.NewConfigError("history.retention.schedule", err.Error())
		}
	}

	var wg sync.WaitGroup
	if s.certs != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.certs.Run(ctx)
		}()
	}

	if s.watcher != nil {
		// Run once at startup so the first result does not wait for an edit.
		if err := s.runFixtures(ctx); err != nil {
			s.logger.Error("Initial fixture run failed", "error", err)
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.watcher.Watch(ctx, s.runFixtures); err != nil {
				s.logger.Error("Fixture watcher stopped", "error", err)
			}
		}()
	}

	// Start returns early when the listener fails; the background jobs
	// only stop on cancellation.
	err := s.server.Start(ctx)
	cancel()
	wg.Wait()
	return err
}

// runFixtures runs the fixture file once with telemetry and records it.
func (s *service) runFixtures(ctx context.Context) error {
	h := fixture.NewHarness(
		fixture.WithLogger(s.logger),
		fixture.WithMetrics(s.metrics),
		fixture.WithTracer(s.tracer),
	)

	report, err := h.RunFile(ctx, s.cfg.Fixtures.Path)
	if err != nil {
		return err
	}

	if !report.OK() {
		s.logger.Warn("Fixture cases failed",
			"run_id", report.RunID,
			"failed", report.Failed,
			"total", report.Total,
		)
	}

	if s.store != nil {
		if err := s.store.Store(ctx, history.FromReport(report)); err != nil {
			return fmt.Errorf("failed to record run %s: %w", report.RunID, err)
		}
	}
	return nil
}

// close releases resources in reverse order of creation.
func (s *service) close() {
	if s.watcher != nil {
		if err := s.watcher.Stop(); err != nil {
			s.logger.Warn("Failed to stop fixture watcher", "error", err)
		}
	}
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Warn("Failed to close history storage", "error", err)
		}
	}
	if s.tracer != nil {
		if err := s.tracer.Shutdown(context.Background()); err != nil {
			s.logger.Warn("Failed to flush traces", "error", err)
		}
	}
}

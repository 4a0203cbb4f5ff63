package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"

	"mercator-hq/trigon/pkg/config"
	"mercator-hq/trigon/pkg/limits/ratelimit"
	"mercator-hq/trigon/pkg/security/auth"
	"mercator-hq/trigon/pkg/server/middleware"
	"mercator-hq/trigon/pkg/telemetry/health"
	"mercator-hq/trigon/pkg/telemetry/logging"
	"mercator-hq/trigon/pkg/telemetry/metrics"
	"mercator-hq/trigon/pkg/telemetry/tracing"
)

// Options carries the server's collaborators. Nil fields are optional.
type Options struct {
	Logger  *logging.Logger
	Metrics *metrics.Collector
	Tracer  *tracing.Tracer
	Health  *health.Checker

	// MetricsPath is where metrics are served when Metrics is enabled.
	MetricsPath string

	// TLSConfig serves HTTPS when set.
	TLSConfig *tls.Config

	Version   string
	Commit    string
	BuildTime string
}

// Server is the trigon HTTP service.
type Server struct {
	config     *config.ServerConfig
	opts       Options
	logger     *logging.Logger
	handler    http.Handler
	httpServer *http.Server

	mu        sync.Mutex
	listener  net.Listener
	isRunning bool
	ready     chan struct{}
	readyOnce sync.Once
}

// New creates a Server. It does not listen until Start.
func New(cfg *config.ServerConfig, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Health == nil {
		opts.Health = health.New(0)
	}
	if opts.MetricsPath == "" {
		opts.MetricsPath = config.DefaultMetricsPath
	}

	s := &Server{
		config: cfg,
		opts:   opts,
		logger: opts.Logger.WithComponent("server"),
		ready:  make(chan struct{}),
	}
	s.handler = s.setupRoutes()
	return s
}

// Handler returns the full handler with middleware, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Ready is closed once the server is listening.
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Addr returns the bound address, or "" before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Start listens and serves until ctx is cancelled, then shuts down
// gracefully within the configured shutdown timeout.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return errors.New("server is already running")
	}

	ln, err := net.Listen("tcp", s.config.ListenAddress)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to listen on %s: %w", s.config.ListenAddress, err)
	}
	if s.opts.TLSConfig != nil {
		ln = tls.NewListener(ln, s.opts.TLSConfig)
	}

	s.listener = ln
	s.isRunning = true
	s.httpServer = &http.Server{
		Handler:      s.handler,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
		BaseContext:  func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}
	s.mu.Unlock()

	errChan := make(chan error, 1)
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("server error: %w", err)
		}
		close(errChan)
	}()

	s.logger.Info("Server listening", "address", ln.Addr().String(), "tls", s.opts.TLSConfig != nil)
	s.readyOnce.Do(func() { close(s.ready) })

	select {
	case <-ctx.Done():
		s.logger.Info("Context cancelled, initiating shutdown")
		return s.shutdown()
	case err, ok := <-errChan:
		if ok {
			s.markStopped()
			return err
		}
		return nil
	}
}

func (s *Server) shutdown() error {
	s.logger.Info("Initiating graceful shutdown", "timeout", s.config.ShutdownTimeout.String())

	ctx := context.Background()
	if s.config.ShutdownTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.ShutdownTimeout)
		defer cancel()
	}

	defer s.markStopped()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("Error during server shutdown", "error", err)
		return fmt.Errorf("server shutdown error: %w", err)
	}

	s.logger.Info("Server stopped")
	return nil
}

func (s *Server) markStopped() {
	s.mu.Lock()
	s.isRunning = false
	s.mu.Unlock()
}

func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	s.handle(mux, "/v1/classify", s.protect(NewClassifyHandler(s.opts.Logger, s.opts.Metrics)))
	s.handle(mux, "/healthz", health.LivenessHandler())
	s.handle(mux, "/readyz", s.opts.Health.ReadinessHandler())
	s.handle(mux, "/version", health.VersionHandler(s.opts.Version, s.opts.Commit, s.opts.BuildTime))
	if s.opts.Metrics != nil && s.opts.Metrics.Enabled() {
		mux.Handle(s.opts.MetricsPath, s.opts.Metrics.Handler())
	}

	return middleware.Chain(mux,
		middleware.Recovery(s.logger),
		middleware.RequestID,
		middleware.Logging(s.opts.Logger),
		middleware.Tracing(s.opts.Tracer),
	)
}

// handle registers h and counts its responses under a fixed path label.
func (s *Server) handle(mux *http.ServeMux, path string, h http.Handler) {
	collector := s.opts.Metrics
	if collector == nil {
		mux.Handle(path, h)
		return
	}
	mux.Handle(path, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := middleware.NewStatusRecorder(w)
		h.ServeHTTP(rec, r)
		collector.RecordHTTPRequest(path, rec.Status)
	}))
}

// protect applies the configured rate limiting and authentication, in
// that order.
func (s *Server) protect(h http.Handler) http.Handler {
	var limiter *ratelimit.Limiter
	if rl := s.config.RateLimit; rl.Enabled {
		limiter = ratelimit.New(ratelimit.Config{
			RequestsPerSecond: rl.RequestsPerSecond,
			Burst:             rl.Burst,
			MaxKeys:           rl.MaxClients,
		})
	}

	var validator *auth.KeyValidator
	source := auth.Source{Header: s.config.Auth.Header, Scheme: s.config.Auth.Scheme}
	if s.config.Auth.Enabled {
		validator = auth.NewKeyValidator(s.config.Auth.Keys)
	}

	return middleware.Chain(h,
		middleware.RateLimit(limiter, s.logger),
		auth.Middleware(validator, source, s.logger),
	)
}

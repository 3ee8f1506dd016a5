package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"

	"github.com/Aleph-Alpha/cfvectorize/v1/metrics"
	"github.com/Aleph-Alpha/cfvectorize/v1/vectorize"
)

// Logger is the logging interface used by the facade.
type Logger interface {
	InfoWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	ErrorWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
}

// Server exposes a vectorize.Client over HTTP. Each route maps to exactly
// one client call.
type Server struct {
	cfg            Config
	client         *vectorize.Client
	logger         Logger
	metrics        metrics.MetricsCollector
	metricsHandler http.Handler

	httpServer *http.Server
	once       sync.Once
	handler    http.Handler
}

// NewServer creates a facade for client. Call Start or use Handler directly.
//
//	srv := server.NewServer(server.DefaultConfig(), client).WithLogger(log)
//	if err := srv.Start(ctx); err != nil {
//		return err
//	}
//	defer srv.Shutdown(context.Background())
func NewServer(cfg Config, client *vectorize.Client) *Server {
	return &Server{cfg: cfg.withDefaults(), client: client}
}

func (s *Server) WithLogger(logger Logger) *Server {
	s.logger = logger
	return s
}

// WithMetrics records request counts and durations per route.
func (s *Server) WithMetrics(m metrics.MetricsCollector) *Server {
	s.metrics = m
	return s
}

// WithMetricsHandler mounts h on GET /metrics when Config.ServeMetrics is set.
func (s *Server) WithMetricsHandler(h http.Handler) *Server {
	s.metricsHandler = h
	return s
}

// Handler returns the routed and instrumented handler. It is built once.
func (s *Server) Handler() http.Handler {
	s.once.Do(func() {
		mux := http.NewServeMux()
		s.routes(mux)
		s.handler = s.instrument(s.recoverer(mux))
	})
	return s.handler
}

// Start listens on Config.Address and serves in the background.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln in the background.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.httpServer = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}
	if s.logger != nil {
		s.logger.InfoWithContext(ctx, "starting vectorize REST facade", nil, map[string]interface{}{
			"address": ln.Addr().String(),
		})
	}
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) && s.logger != nil {
			s.logger.ErrorWithContext(context.Background(), "vectorize REST facade stopped", err, nil)
		}
	}()
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests
// until ctx or Config.ShutdownTimeout expires.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.cfg.ShutdownTimeout)
	defer cancel()
	if s.logger != nil {
		s.logger.InfoWithContext(ctx, "shutting down vectorize REST facade", nil, nil)
	}
	return s.httpServer.Shutdown(ctx)
}

// Package api serves the countdown over HTTP: the static front end, a small
// JSON API for reading the countdown and changing the target date, a live
// websocket stream and the Prometheus scrape endpoint.
package api

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/net/netutil"

	"github.com/ShaKy8/CountdownToRetirement/internal/clock"
	"github.com/ShaKy8/CountdownToRetirement/internal/events"
	"github.com/ShaKy8/CountdownToRetirement/internal/i18n"
	"github.com/ShaKy8/CountdownToRetirement/internal/logging"
	"github.com/ShaKy8/CountdownToRetirement/internal/metrics"
	"github.com/ShaKy8/CountdownToRetirement/internal/ratelimit"
	"github.com/ShaKy8/CountdownToRetirement/internal/runner"
	"github.com/ShaKy8/CountdownToRetirement/internal/scheduler"
)

// ServerConfig holds HTTP server hardening limits.
type ServerConfig struct {
	ReadHeaderTimeout time.Duration // Slowloris prevention
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
	MaxHeaderBytes    int
	MaxBodyBytes      int64
}

// DefaultServerConfig returns the limits used by Serve.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		MaxHeaderBytes:    1 << 14, // 16KB
		MaxBodyBytes:      1 << 12, // a target date fits comfortably
	}
}

// Countdown is the part of the runner the HTTP layer drives.
type Countdown interface {
	Snapshot() runner.Output
	Update(candidate string) (time.Time, error)
	UpdateTime(candidate time.Time) (time.Time, error)
	Clear() error
}

// Tasks reports background task state for /healthz.
type Tasks interface {
	IsRunning() bool
	GetStatus() []scheduler.TaskStatus
	GetTaskStatus(id string) (scheduler.TaskStatus, bool)
}

// ServerOptions holds dependencies for the server.
type ServerOptions struct {
	Countdown  Countdown
	Hub        *events.Hub // live updates; nil disables /api/ws
	Assets     fs.FS       // static front end
	Logger     *logging.Logger
	Metrics    *metrics.Registry
	Gatherer   prometheus.Gatherer // /metrics source; nil uses the default registry
	Limiter    *ratelimit.Limiter  // per-client request limit; nil disables
	Tasks      Tasks               // nil omits task state from /healthz
	Clock      clock.Clock
	Config     *ServerConfig
	MaxConns   int  // concurrent connection cap; 0 is unlimited
	TrustProxy bool // honour X-Forwarded-For / X-Real-IP
}

// Server handles HTTP requests.
type Server struct {
	countdown  Countdown
	assets     fs.FS
	logger     *logging.Logger
	metrics    *metrics.Registry
	gatherer   prometheus.Gatherer
	limiter    *ratelimit.Limiter
	tasks      Tasks
	clock      clock.Clock
	config     *ServerConfig
	maxConns   int
	trustProxy bool
	ws         *WSManager

	mux *http.ServeMux
}

// NewServer creates a server with the provided options.
func NewServer(opts ServerOptions) (*Server, error) {
	if opts.Countdown == nil {
		return nil, errors.New("api: countdown is required")
	}
	if opts.Assets == nil {
		return nil, errors.New("api: assets are required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.WithComponent("api")
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = DefaultServerConfig()
	}
	gatherer := opts.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	s := &Server{
		countdown:  opts.Countdown,
		assets:     opts.Assets,
		logger:     logger,
		metrics:    opts.Metrics,
		gatherer:   gatherer,
		limiter:    opts.Limiter,
		tasks:      opts.Tasks,
		clock:      clock.OrReal(opts.Clock),
		config:     cfg,
		maxConns:   opts.MaxConns,
		trustProxy: opts.TrustProxy,
		mux:        http.NewServeMux(),
	}
	if opts.Hub != nil {
		s.ws = NewWSManager(opts.Hub, opts.Countdown.Snapshot, logger.WithComponent("ws"))
	}

	s.initRoutes()
	return s, nil
}

func (s *Server) initRoutes() {
	s.mux.HandleFunc("GET /api/countdown", s.handleCountdown)
	s.mux.HandleFunc("POST /api/target", s.handleSetTarget)
	s.mux.HandleFunc("PUT /api/target", s.handleSetTarget)
	s.mux.HandleFunc("DELETE /api/target", s.handleClearTarget)
	s.mux.HandleFunc("/api/", s.handleAPINotFound)
	if s.ws != nil {
		s.mux.HandleFunc("GET /api/ws", s.ws.HandleWebSocket)
	}

	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.Handle("GET /metrics", s.metricsHandler())

	s.mux.Handle("/", NewStaticHandler(s.assets))
}

// Handler returns the full middleware chain.
//
// Chain: AccessLog -> SecurityHeaders -> PathGuard -> RateLimit -> MaxBody -> i18n -> Gzip -> Mux
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.mux
	h = Gzip(h)
	h = i18n.Middleware(h)
	h = maxBodyMiddleware(s.config.MaxBodyBytes)(h)
	h = s.rateLimitMiddleware(h)
	h = PathGuard(h)
	h = SecurityHeaders(h)
	return AccessLogger(s.logger.WithComponent("access"), s.metrics, s.clock)(h)
}

// Serve listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener serves on an existing listener. It closes ln on return.
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	if s.maxConns > 0 {
		ln = netutil.LimitListener(ln, s.maxConns)
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: s.config.ReadHeaderTimeout,
		ReadTimeout:       s.config.ReadTimeout,
		WriteTimeout:      s.config.WriteTimeout,
		IdleTimeout:       s.config.IdleTimeout,
		MaxHeaderBytes:    s.config.MaxHeaderBytes,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	wsCtx, stopWS := context.WithCancel(ctx)
	defer stopWS()
	if s.ws != nil {
		s.ws.Start(wsCtx)
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", ln.Addr().String(), "max_conns", s.maxConns)
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("http server shutting down")
	stopWS()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// maxBodyMiddleware limits the size of request bodies.
func maxBodyMiddleware(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if maxBytes <= 0 || r.Method == http.MethodGet || r.Method == http.MethodHead || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}
			if r.ContentLength > maxBytes {
				WriteError(w, http.StatusRequestEntityTooLarge, "request body too large")
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

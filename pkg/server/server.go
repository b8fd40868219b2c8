package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/jensen-yan/compiler/pkg/telemetry/logging"
)

// DefaultShutdownTimeout bounds graceful shutdown when Options leaves it zero.
const DefaultShutdownTimeout = 5 * time.Second

// ErrNotRunning is reported by Health before Start or after Shutdown.
var ErrNotRunning = errors.New("server is not running")

// Options configures a Server.
type Options struct {
	// Address to listen on. Port 0 picks a free port; Addr reports it.
	Address         string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	Logger          *logging.Logger
}

// Server serves a handler until its context ends, then shuts down
// gracefully.
type Server struct {
	opts       Options
	handler    http.Handler
	logger     *logging.Logger
	httpServer *http.Server

	mu        sync.RWMutex
	listener  net.Listener
	isRunning bool
	ready     chan struct{}
	once      sync.Once
}

// New creates a server for handler. Requests pass through the logging and
// recovery middleware.
func New(handler http.Handler, opts Options) *Server {
	if opts.ShutdownTimeout == 0 {
		opts.ShutdownTimeout = DefaultShutdownTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	return &Server{
		opts:    opts,
		handler: RecoveryMiddleware(logger)(LoggingMiddleware(logger)(handler)),
		logger:  logger,
		ready:   make(chan struct{}),
	}
}

// Start listens and serves until ctx is done, then shuts down. It returns
// nil after a clean shutdown.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return errors.New("server is already running")
	}
	ln, err := net.Listen("tcp", s.opts.Address)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to listen on %s: %w", s.opts.Address, err)
	}
	s.listener = ln
	s.isRunning = true
	s.httpServer = &http.Server{
		Handler:           s.handler,
		ReadTimeout:       s.opts.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      s.opts.WriteTimeout,
		ErrorLog:          slog.NewLogLogger(s.logger.Slog().Handler(), slog.LevelError),
	}
	s.mu.Unlock()
	close(s.ready)

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("status server listening", "address", ln.Addr().String())
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	case err := <-errChan:
		s.setStopped()
		return err
	}
}

// Shutdown stops accepting connections and waits for active requests, up to
// the shutdown timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.once.Do(func() {
		s.mu.RLock()
		srv := s.httpServer
		s.mu.RUnlock()
		if srv == nil {
			return
		}

		shutdownCtx, cancel := context.WithTimeout(ctx, s.opts.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("error during server shutdown", "error", err)
			shutdownErr = fmt.Errorf("server shutdown error: %w", err)
		}
		s.setStopped()
		s.logger.Info("status server stopped")
	})
	return shutdownErr
}

func (s *Server) setStopped() {
	s.mu.Lock()
	s.isRunning = false
	s.mu.Unlock()
}

// Ready is closed once the server is listening.
func (s *Server) Ready() <-chan struct{} { return s.ready }

// Addr returns the bound address, or "" before Start.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// IsRunning reports whether the server is serving.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Health is a readiness check that fails unless the server is serving.
func (s *Server) Health(context.Context) error {
	if !s.IsRunning() {
		return ErrNotRunning
	}
	return nil
}

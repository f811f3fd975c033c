package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// Server runs an http.Server with graceful shutdown on context cancellation
// or SIGINT/SIGTERM. The zero value is not usable; construct with New or
// NewFromConfig.
type Server struct {
	addr            string
	readTimeout     time.Duration
	writeTimeout    time.Duration
	idleTimeout     time.Duration
	shutdownTimeout time.Duration
	base            *http.Server
	log             *slog.Logger
	startHooks      []func(*slog.Logger)
	stopHooks       []func(*slog.Logger)

	mu   sync.Mutex
	srv  *http.Server
	once sync.Once
}

// New returns a Server configured by the supplied options.
func New(opts ...Option) *Server {
	s := &Server{
		addr:            ":8080",
		shutdownTimeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = slog.New(slog.DiscardHandler)
	}
	return s
}

// Run starts listening with the given handler and blocks until the context
// is cancelled, an interrupt or TERM signal arrives, or the listener fails.
// Listen failures are wrapped with ErrStart.
func (s *Server) Run(ctx context.Context, handler http.Handler) error {
	if handler == nil {
		handler = http.NotFoundHandler()
	}

	srv, err := s.arm(handler)
	if err != nil {
		return err
	}

	for _, h := range s.startHooks {
		h(s.log)
	}

	sigCtx, unregister := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer unregister()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	s.log.InfoContext(ctx, "HTTP server listening", slog.String("addr", srv.Addr))

	var runErr error
	select {
	case <-sigCtx.Done():
		_ = s.Shutdown(context.Background())
		runErr = <-errCh
	case runErr = <-errCh:
	}

	if runErr != nil && !errors.Is(runErr, http.ErrServerClosed) {
		return errors.Join(ErrStart, runErr)
	}
	return nil
}

// arm binds the listen address, timeouts, and handler onto the underlying
// http.Server. Values already set on a WithServer-supplied instance win over
// the Server's own settings.
func (s *Server) arm(handler http.Handler) (*http.Server, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.srv != nil {
		return nil, errors.Join(ErrStart, errors.New("server already running"))
	}

	srv := s.base
	if srv == nil {
		srv = &http.Server{}
	}
	if srv.Addr == "" {
		srv.Addr = s.addr
	}
	if srv.ReadTimeout == 0 {
		srv.ReadTimeout = s.readTimeout
	}
	if srv.WriteTimeout == 0 {
		srv.WriteTimeout = s.writeTimeout
	}
	if srv.IdleTimeout == 0 {
		srv.IdleTimeout = s.idleTimeout
	}
	srv.Handler = handler

	s.srv = srv
	return srv, nil
}

// Shutdown stops the server gracefully within the configured shutdown
// timeout. It is safe for repeated calls; any error from
// http.Server.Shutdown is wrapped with ErrShutdown.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.once.Do(func() {
		s.mu.Lock()
		srv := s.srv
		s.mu.Unlock()
		if srv == nil {
			return
		}

		ctx, cancel := context.WithTimeout(ctx, s.shutdownTimeout)
		defer cancel()
		err = srv.Shutdown(ctx)

		for _, h := range s.stopHooks {
			h(s.log)
		}
	})

	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Join(ErrShutdown, err)
	}
	return nil
}

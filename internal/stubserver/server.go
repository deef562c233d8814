// Package stubserver is a deterministic stand-in for the relay service. It
// routes messages by keyword, answers with canned replies and keeps
// conversations and sample-data flags in memory.
package stubserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/soyeahso/relay/internal/config"
	"github.com/soyeahso/relay/internal/hooks"
	"github.com/soyeahso/relay/internal/logging"
)

// DefaultChunkDelay paces streamed chunks.
const DefaultChunkDelay = 20 * time.Millisecond

// Server serves the relay HTTP API from memory.
type Server struct {
	cfg        config.DevServerConfig
	log        *logging.Logger
	state      *state
	chunkDelay time.Duration

	// Hook manager (optional)
	hooks *hooks.Manager

	mu         sync.Mutex
	httpServer *http.Server
	addr       string
}

// ServerOption configures the stub server.
type ServerOption func(*Server)

// WithHooks sets the hook manager for lifecycle events.
func WithHooks(hm *hooks.Manager) ServerOption {
	return func(s *Server) {
		s.hooks = hm
	}
}

// WithChunkDelay sets the pause between streamed chunks.
func WithChunkDelay(d time.Duration) ServerOption {
	return func(s *Server) {
		s.chunkDelay = d
	}
}

// New creates a stub server.
func New(cfg config.DevServerConfig, log *logging.Logger, opts ...ServerOption) *Server {
	if log == nil {
		log = logging.Nop()
	}
	s := &Server{
		cfg:        cfg,
		log:        log.Sub("devserver"),
		state:      newState(),
		chunkDelay: DefaultChunkDelay,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the API with the middleware chain applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.registerRoutes(mux)
	return withMiddleware(mux, s.log)
}

// resolveBindAddr computes the listen address from config.
func resolveBindAddr(cfg config.DevServerConfig) string {
	switch cfg.Bind {
	case "lan":
		return fmt.Sprintf("0.0.0.0:%d", cfg.Port)
	default:
		return fmt.Sprintf("127.0.0.1:%d", cfg.Port)
	}
}

// Start begins listening. It blocks until the context is cancelled or an
// error occurs.
func (s *Server) Start(ctx context.Context) error {
	addr := resolveBindAddr(s.cfg)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	srv := &http.Server{
		Handler:     s.Handler(),
		ReadTimeout: 30 * time.Second,
		IdleTimeout: 120 * time.Second,
		BaseContext: func(net.Listener) context.Context { return ctx },
	}
	s.mu.Lock()
	s.httpServer = srv
	s.addr = ln.Addr().String()
	s.mu.Unlock()

	s.log.Info().
		Str("addr", s.Addr()).
		Str("baseUrl", s.BaseURL()).
		Msg("dev server ready")

	if s.hooks != nil {
		s.hooks.Emit(ctx, hooks.EventDevServerStart, map[string]any{
			"addr": s.Addr(),
		})
	}

	// Shutdown when context is cancelled
	go func() {
		<-ctx.Done()
		s.log.Info().Msg("shutting down dev server")
		if s.hooks != nil {
			s.hooks.Emit(context.Background(), hooks.EventDevServerStop, nil)
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Addr returns the listen address, or empty string if not started.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// BaseURL is the API root clients should be pointed at.
func (s *Server) BaseURL() string {
	addr := s.Addr()
	if addr == "" {
		return ""
	}
	return "http://" + addr + "/api"
}

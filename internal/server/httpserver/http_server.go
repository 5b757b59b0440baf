// Package httpserver wires routes, middleware, and lifecycle for the front
// end's single HTTP listener.
package httpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"git.home.luguber.info/inful/mailposture/internal/config"
	derrors "git.home.luguber.info/inful/mailposture/internal/errors"
	"git.home.luguber.info/inful/mailposture/internal/logfields"
	"git.home.luguber.info/inful/mailposture/internal/metrics"
	"git.home.luguber.info/inful/mailposture/internal/reportcache"
	"git.home.luguber.info/inful/mailposture/internal/server/handlers"
	smw "git.home.luguber.info/inful/mailposture/internal/server/middleware"
	"git.home.luguber.info/inful/mailposture/internal/webui"
)

const shutdownTimeout = 10 * time.Second

// Options carries the collaborators the server routes to.
type Options struct {
	Pages      *handlers.PageHandlers
	Monitoring *handlers.MonitoringHandlers
	// MetricsHandler serves /metrics; nil leaves the route unregistered.
	MetricsHandler http.Handler
	Recorder       metrics.Recorder
	// Renderer is watched for template changes when WatchTemplates is set.
	Renderer       *webui.Renderer
	WatchTemplates bool
	// Pruner, when non-nil, runs for the lifetime of the server.
	Pruner *reportcache.Pruner
}

// Server manages the HTTP endpoint lifecycle.
type Server struct {
	cfg        *config.Config
	opts       Options
	httpServer *http.Server
	listener   net.Listener
}

// New constructs the server and its handler chain.
func New(cfg *config.Config, opts Options) *Server {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", opts.Pages.HandleHome)
	mux.HandleFunc("POST /{$}", opts.Pages.HandleLookup)
	mux.HandleFunc("GET /domain/{domain}", opts.Pages.HandleDomain)
	mux.HandleFunc("GET /healthz", opts.Monitoring.HandleHealthCheck)
	mux.Handle("GET /static/", webui.StaticHandler())
	if opts.MetricsHandler != nil {
		mux.Handle("GET /metrics", opts.MetricsHandler)
	}

	chain := smw.Chain(slog.Default(), derrors.NewHTTPErrorAdapter(slog.Default()), opts.Recorder)

	return &Server{
		cfg:  cfg,
		opts: opts,
		httpServer: &http.Server{
			Handler:           chain(mux),
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      60 * time.Second,
		},
	}
}

// Handler exposes the full middleware-wrapped handler (used by tests).
func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

// Listen pre-binds the configured address so startup fails fast on an
// occupied port instead of after partial initialization.
func (s *Server) Listen(ctx context.Context) error {
	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", s.cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("bind %s: %w", s.cfg.ListenAddr, err)
	}
	s.listener = ln
	return nil
}

// Addr returns the bound address; valid after Listen.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.cfg.ListenAddr
	}
	return s.listener.Addr().String()
}

// Serve runs until ctx is canceled, then shuts down gracefully. It also owns
// the lifecycle of the optional pruner and template watcher.
func (s *Server) Serve(ctx context.Context) error {
	if s.listener == nil {
		if err := s.Listen(ctx); err != nil {
			return err
		}
	}

	if s.opts.Pruner != nil {
		s.opts.Pruner.Start()
		defer func() {
			if err := s.opts.Pruner.Stop(); err != nil {
				slog.Warn("pruner shutdown failed", logfields.Error(err))
			}
		}()
	}
	if s.opts.WatchTemplates && s.opts.Renderer != nil {
		go func() {
			if err := s.opts.Renderer.Watch(ctx); err != nil {
				slog.Warn("template watcher stopped", logfields.Error(err))
			}
		}()
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", slog.String("addr", s.Addr()))
		if err := s.httpServer.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
			return
		}
		serveErr <- nil
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	slog.Info("Shutting down HTTP server")
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-serveErr
}

// Run binds and serves; the common entrypoint for production use.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Listen(ctx); err != nil {
		return err
	}
	return s.Serve(ctx)
}

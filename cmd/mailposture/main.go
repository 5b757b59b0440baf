package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/mailposture/internal/backend"
	"git.home.luguber.info/inful/mailposture/internal/citelink"
	"git.home.luguber.info/inful/mailposture/internal/config"
	"git.home.luguber.info/inful/mailposture/internal/domainname"
	"git.home.luguber.info/inful/mailposture/internal/logfields"
	"git.home.luguber.info/inful/mailposture/internal/metrics"
	"git.home.luguber.info/inful/mailposture/internal/reportcache"
	"git.home.luguber.info/inful/mailposture/internal/server/handlers"
	"git.home.luguber.info/inful/mailposture/internal/server/httpserver"
	"git.home.luguber.info/inful/mailposture/internal/version"
	"git.home.luguber.info/inful/mailposture/internal/webui"
)

var CLI struct {
	Sites   string `short:"s" help:"YAML file of per-host site variants (optional)"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Serve struct {
		Addr      string `short:"a" help:"Listen address (overrides LISTEN_ADDR)"`
		Templates string `short:"t" help:"Parse templates from this directory and hot-reload them (development)"`
		Debug     bool   `help:"Enable debug mode (overrides DEBUG)"`
	} `cmd:"" default:"withargs" help:"Serve the posture front end"`

	Check struct {
		Domain string `arg:"" help:"Domain to look up"`
	} `cmd:"" help:"Run a single backend lookup and print the report as JSON"`

	Version struct{} `cmd:"" help:"Print version information"`
}

func main() {
	ctx := kong.Parse(&CLI)

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	switch ctx.Command() {
	case "serve":
		cfg, err := config.Load(CLI.Sites)
		if err != nil {
			slog.Error("Failed to load configuration", logfields.Error(err))
			os.Exit(1)
		}
		if CLI.Serve.Addr != "" {
			cfg.ListenAddr = CLI.Serve.Addr
		}
		if CLI.Serve.Debug || CLI.Serve.Templates != "" {
			cfg.Debug = true
		}
		if err := runServe(cfg, CLI.Serve.Templates); err != nil {
			slog.Error("Server failed", logfields.Error(err))
			os.Exit(1)
		}
	case "check <domain>":
		cfg, err := config.Load(CLI.Sites)
		if err != nil {
			slog.Error("Failed to load configuration", logfields.Error(err))
			os.Exit(1)
		}
		if err := runCheck(cfg, CLI.Check.Domain); err != nil {
			slog.Error("Lookup failed", logfields.Error(err))
			os.Exit(1)
		}
	case "version":
		fmt.Printf("mailposture %s (commit %s, built %s)\n", version.Version, version.GitCommit, version.BuildTime)
	}
}

func runServe(cfg *config.Config, templateDir string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	recorder := metrics.NewPrometheusRecorder(nil)

	renderer, err := webui.New(webui.Options{
		Linker:   citelink.New(cfg.LinkStyle),
		Recorder: recorder,
		Dir:      templateDir,
		Version:  version.Version,
	})
	if err != nil {
		return fmt.Errorf("initialize renderer: %w", err)
	}

	client := backend.New(cfg.BackendURL, cfg.BackendAPIKey, backend.Options{
		CheckSMTPTLS: cfg.CheckSMTPTLS,
		Recorder:     recorder,
	})

	var (
		store  *reportcache.Store
		pruner *reportcache.Pruner
	)
	if cfg.CachePath != "" {
		store, err = reportcache.New(cfg.CachePath, cfg.CacheTTL)
		if err != nil {
			return fmt.Errorf("open report cache: %w", err)
		}
		defer func() {
			if err := store.Close(); err != nil {
				slog.Warn("Failed to close report cache", logfields.Error(err))
			}
		}()
		pruner, err = reportcache.NewPruner(store, cfg.CacheTTL)
		if err != nil {
			return fmt.Errorf("set up cache pruner: %w", err)
		}
	}

	srv := httpserver.New(cfg, httpserver.Options{
		Pages:          handlers.NewPageHandlers(cfg, renderer, client, store, recorder),
		Monitoring:     handlers.NewMonitoringHandlers(time.Now()),
		MetricsHandler: recorder.Handler(),
		Recorder:       recorder,
		Renderer:       renderer,
		WatchTemplates: templateDir != "",
		Pruner:         pruner,
	})

	slog.Info("Starting mailposture front end",
		slog.String("version", version.Version),
		slog.String("addr", cfg.ListenAddr),
		slog.Bool("cache", store != nil),
		slog.Bool("debug", cfg.Debug))
	return srv.Run(ctx)
}

func runCheck(cfg *config.Config, rawDomain string) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	domain, err := domainname.Normalize(rawDomain)
	if err != nil {
		return fmt.Errorf("invalid domain %q: %w", rawDomain, err)
	}

	client := backend.New(cfg.BackendURL, cfg.BackendAPIKey, backend.Options{
		CheckSMTPTLS: cfg.CheckSMTPTLS,
	})
	report, err := client.Lookup(ctx, domain)
	if err != nil {
		return err
	}
	if report.DomainNotFound() {
		return fmt.Errorf("domain %s does not exist", domain)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

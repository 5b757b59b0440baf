// Package config builds the process-wide configuration from environment
// variables (optionally seeded from .env files) and an optional YAML file of
// per-host site variants. The Config is constructed once at startup and
// passed by reference; it is never mutated afterwards.
package config

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"git.home.luguber.info/inful/mailposture/internal/citelink"
)

// Required environment variables. Startup fails listing every missing one so
// operators fix the whole set in one go.
var requiredEnvVars = []string{
	"SITE_TITLE",
	"BACKEND_URL",
	"SITE_AUTHOR",
	"SITE_AUTHOR_URL",
	"BACKEND_API_KEY",
}

// Site is the branding rendered into page chrome.
type Site struct {
	Title     string `yaml:"title"`
	Author    string `yaml:"author"`
	AuthorURL string `yaml:"author_url"`
}

// Config is the full front-end configuration.
type Config struct {
	// Default branding, from SITE_TITLE / SITE_AUTHOR / SITE_AUTHOR_URL.
	Site Site

	// Variants maps request Host (without port) to alternate branding, so one
	// process can serve several near-identical front ends.
	Variants map[string]Site

	BackendURL    string
	BackendAPIKey string
	CheckSMTPTLS  bool

	ListenAddr string
	CachePath  string
	CacheTTL   time.Duration
	LinkStyle  citelink.Style
	Debug      bool
}

// SiteFor returns the branding for a request host, falling back to the
// default site when no variant matches.
func (c *Config) SiteFor(host string) Site {
	host = strings.ToLower(host)
	if h, _, ok := strings.Cut(host, ":"); ok {
		host = h
	}
	if s, ok := c.Variants[host]; ok {
		return s
	}
	return c.Site
}

// Load builds the configuration: .env files first, then the environment,
// then the optional variants file. variantsPath may be empty.
func Load(variantsPath string) (*Config, error) {
	loadEnvFiles()

	env := envSnapshot()
	var missing []string
	for _, key := range requiredEnvVars {
		if env[key] == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	cfg := &Config{
		Site: Site{
			Title:     env["SITE_TITLE"],
			Author:    env["SITE_AUTHOR"],
			AuthorURL: env["SITE_AUTHOR_URL"],
		},
		BackendURL:    strings.TrimRight(env["BACKEND_URL"], "/"),
		BackendAPIKey: env["BACKEND_API_KEY"],
		// Presence of the variable enables the check, matching how deployments
		// have always toggled it.
		CheckSMTPTLS: env["CHECK_SMTP_TLS"] != "",
		ListenAddr:   defaultString(env["LISTEN_ADDR"], ":8080"),
		CachePath:    env["CACHE_PATH"],
		CacheTTL:     15 * time.Minute,
		LinkStyle:    citelink.StyleDatatracker,
		Debug:        env["DEBUG"] != "",
	}

	if raw := env["CACHE_TTL"]; raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid CACHE_TTL %q: %w", raw, err)
		}
		cfg.CacheTTL = ttl
	}

	if raw := env["CITATION_LINK_STYLE"]; raw != "" {
		switch citelink.Style(raw) {
		case citelink.StyleDatatracker, citelink.StyleRFCEditor:
			cfg.LinkStyle = citelink.Style(raw)
		default:
			return nil, fmt.Errorf("invalid CITATION_LINK_STYLE %q (want datatracker or rfc-editor)", raw)
		}
	}

	if variantsPath != "" {
		variants, err := loadVariants(variantsPath)
		if err != nil {
			return nil, err
		}
		cfg.Variants = variants
	}

	return cfg, nil
}

func defaultString(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

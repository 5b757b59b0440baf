package handlers

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"git.home.luguber.info/inful/mailposture/internal/backend"
	"git.home.luguber.info/inful/mailposture/internal/config"
	"git.home.luguber.info/inful/mailposture/internal/domainname"
	derrors "git.home.luguber.info/inful/mailposture/internal/errors"
	"git.home.luguber.info/inful/mailposture/internal/logfields"
	"git.home.luguber.info/inful/mailposture/internal/metrics"
	"git.home.luguber.info/inful/mailposture/internal/reportcache"
	"git.home.luguber.info/inful/mailposture/internal/webui"
)

// Lookuper is the backend surface page handlers need; *backend.Client
// implements it, tests stub it.
type Lookuper interface {
	Lookup(ctx context.Context, domain string) (*backend.Report, error)
}

// PageHandlers serves the HTML pages.
type PageHandlers struct {
	cfg          *config.Config
	renderer     *webui.Renderer
	backend      Lookuper
	cache        *reportcache.Store // nil disables caching
	recorder     metrics.Recorder
	errorAdapter *derrors.HTTPErrorAdapter
}

// NewPageHandlers wires the page handlers. cache may be nil.
func NewPageHandlers(cfg *config.Config, renderer *webui.Renderer, lookuper Lookuper, cache *reportcache.Store, recorder metrics.Recorder) *PageHandlers {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &PageHandlers{
		cfg:          cfg,
		renderer:     renderer,
		backend:      lookuper,
		cache:        cache,
		recorder:     recorder,
		errorAdapter: derrors.NewHTTPErrorAdapter(slog.Default()),
	}
}

// HandleHome renders the lookup form.
func (h *PageHandlers) HandleHome(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, http.StatusOK, "home", webui.PageData{
		Site:  h.cfg.SiteFor(r.Host),
		Debug: h.cfg.Debug,
	})
}

// HandleLookup normalizes the submitted domain and redirects to its report
// page. Inputs that cannot become a domain bounce back to the form.
func (h *PageHandlers) HandleLookup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.errorAdapter.WriteErrorResponse(w, derrors.ValidationError("malformed form data").Build())
		return
	}
	domain, err := domainname.Normalize(r.PostFormValue("domain"))
	if err != nil {
		slog.Info("rejected lookup input", logfields.Error(err))
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	http.Redirect(w, r, "/domain/"+url.PathEscape(domain), http.StatusFound)
}

// HandleDomain fetches the posture report (cache first, backend on miss) and
// renders it. The elapsed time shown to the visitor covers the whole fetch.
func (h *PageHandlers) HandleDomain(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	site := h.cfg.SiteFor(r.Host)

	domain, err := domainname.Normalize(r.PathValue("domain"))
	if err != nil {
		h.renderPage(w, http.StatusNotFound, "domain_not_found", webui.PageData{
			Site:   site,
			Domain: r.PathValue("domain"),
			Debug:  h.cfg.Debug,
		})
		return
	}

	report, err := h.fetchReport(r.Context(), domain)
	if err != nil {
		h.errorAdapter.WriteErrorResponse(w, err)
		return
	}

	data := webui.PageData{
		Site:    site,
		Domain:  domain,
		Report:  report,
		Elapsed: fmt.Sprintf("%.3f", time.Since(start).Seconds()),
		Debug:   h.cfg.Debug,
	}
	if report.DomainNotFound() {
		h.renderPage(w, http.StatusNotFound, "domain_not_found", data)
		return
	}
	h.renderPage(w, http.StatusOK, "domain", data)
}

// fetchReport consults the cache, then the backend. Cache failures degrade to
// a backend lookup instead of failing the request.
func (h *PageHandlers) fetchReport(ctx context.Context, domain string) (*backend.Report, error) {
	if h.cache == nil {
		h.recorder.IncCacheResult(metrics.CacheBypass)
		return h.backend.Lookup(ctx, domain)
	}

	cached, ok, err := h.cache.Get(ctx, domain)
	if err != nil {
		slog.Warn("report cache read failed", logfields.Domain(domain), logfields.Error(err))
	}
	if ok {
		h.recorder.IncCacheResult(metrics.CacheHit)
		return cached, nil
	}
	h.recorder.IncCacheResult(metrics.CacheMiss)

	report, err := h.backend.Lookup(ctx, domain)
	if err != nil {
		return nil, err
	}
	if err := h.cache.Put(ctx, domain, report); err != nil {
		slog.Warn("report cache write failed", logfields.Domain(domain), logfields.Error(err))
	}
	return report, nil
}

// renderPage buffers template output so a failed render still produces a
// clean error response instead of a truncated page.
func (h *PageHandlers) renderPage(w http.ResponseWriter, status int, page string, data webui.PageData) {
	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, page, data); err != nil {
		slog.Error("page render failed", slog.String("page", page), logfields.Error(err))
		h.errorAdapter.WriteErrorResponse(w, derrors.Wrap(err, derrors.CategoryInternal, "page render failed").Build())
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed writing page response body", logfields.Error(err))
	}
}

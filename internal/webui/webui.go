// Package webui renders the HTML pages of the front end. Templates are
// embedded for production; in debug mode they are parsed from disk and
// reloaded on change so template work does not need restarts.
package webui

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"strings"
	"sync"

	"git.home.luguber.info/inful/mailposture/internal/backend"
	"git.home.luguber.info/inful/mailposture/internal/citelink"
	"git.home.luguber.info/inful/mailposture/internal/config"
	"git.home.luguber.info/inful/mailposture/internal/metrics"
)

//go:embed templates/*.tmpl content/*.md static/*
var embedded embed.FS

// PageData is the data contract shared by all page templates.
type PageData struct {
	Site    config.Site
	Domain  string
	Report  *backend.Report
	Elapsed string
	Debug   bool
	Version string
	About   template.HTML
}

// Options configures a Renderer.
type Options struct {
	Linker   citelink.Linker
	Recorder metrics.Recorder
	// Dir, when non-empty, parses templates from disk instead of the embedded
	// copies; pair with Watch for hot reload during development.
	Dir     string
	Version string
}

// Renderer executes page templates. Safe for concurrent use; Watch may swap
// the parsed template set underneath readers.
type Renderer struct {
	mu      sync.RWMutex
	tpl     *template.Template
	opts    Options
	about   template.HTML
	funcMap template.FuncMap
}

// New parses the templates and static content.
func New(opts Options) (*Renderer, error) {
	if opts.Recorder == nil {
		opts.Recorder = metrics.NoopRecorder{}
	}
	r := &Renderer{opts: opts}
	r.funcMap = template.FuncMap{
		"linkRFC":       r.linkRFC,
		"sectionStatus": sectionStatus,
		"sections":      Sections,
	}

	about, err := renderAbout()
	if err != nil {
		return nil, err
	}
	r.about = about

	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// Reload re-parses the template set (from disk in debug mode, otherwise from
// the embedded copies).
func (r *Renderer) Reload() error {
	var (
		tpl *template.Template
		err error
	)
	if r.opts.Dir != "" {
		tpl, err = template.New("webui").Funcs(r.funcMap).ParseGlob(r.opts.Dir + "/*.tmpl")
	} else {
		tpl, err = template.New("webui").Funcs(r.funcMap).ParseFS(embedded, "templates/*.tmpl")
	}
	if err != nil {
		return fmt.Errorf("parse templates: %w", err)
	}

	r.mu.Lock()
	r.tpl = tpl
	r.mu.Unlock()
	return nil
}

// Render executes the named page template ("home", "domain",
// "domain_not_found") with the given data.
func (r *Renderer) Render(w io.Writer, page string, data PageData) error {
	if data.Version == "" {
		data.Version = r.opts.Version
	}
	if data.About == "" {
		data.About = r.about
	}

	r.mu.RLock()
	tpl := r.tpl
	r.mu.RUnlock()

	if err := tpl.ExecuteTemplate(w, page, data); err != nil {
		return fmt.Errorf("render %s: %w", page, err)
	}
	return nil
}

// linkRFC is the template filter that rewrites citations in backend prose
// into document links. This is the only place untrusted text becomes HTML.
func (r *Renderer) linkRFC(text string) template.HTML {
	out := r.opts.Linker.Link(text)
	r.opts.Recorder.IncCitationLinks(strings.Count(string(out), "<a href="))
	return out
}

// sectionStatus maps a report section to the CSS class of its status badge.
func sectionStatus(s backend.Section) string {
	switch {
	case s.Error != "":
		return "status-error"
	case !s.Valid:
		return "status-invalid"
	case len(s.Warnings) > 0:
		return "status-warning"
	default:
		return "status-ok"
	}
}

// Sections flattens a report into display order. Nil-able checks (SMTP TLS)
// only appear when the backend ran them.
func Sections(report *backend.Report) []NamedSection {
	out := []NamedSection{
		{"SOA", report.SOA},
		{"NS", report.NS},
		{"MX", report.MX},
		{"SPF", report.SPF},
		{"DKIM", report.DKIM},
		{"DMARC", report.DMARC},
		{"DNSSEC", report.DNSSEC},
		{"MTA-STS", report.MTASTS},
		{"TLS-RPT", report.TLSRPT},
		{"BIMI", report.BIMI},
	}
	if report.SMTPTLS != nil {
		out = append(out, NamedSection{"SMTP TLS", *report.SMTPTLS})
	}
	return out
}

// NamedSection pairs a section with its display name for template ranging.
type NamedSection struct {
	Name    string
	Section backend.Section
}

// StaticHandler serves the embedded stylesheet and other static assets.
// Mount it at /static/.
func StaticHandler() http.Handler {
	sub, err := fs.Sub(embedded, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}

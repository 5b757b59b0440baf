package webui

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/mailposture/internal/backend"
	"git.home.luguber.info/inful/mailposture/internal/citelink"
	"git.home.luguber.info/inful/mailposture/internal/config"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := New(Options{Linker: citelink.New(citelink.StyleDatatracker), Version: "test"})
	require.NoError(t, err)
	return r
}

func testSite() config.Site {
	return config.Site{Title: "Posture Check", Author: "Ops", AuthorURL: "https://ops.example"}
}

func TestRender_HomePage(t *testing.T) {
	r := newTestRenderer(t)
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, "home", PageData{Site: testSite()}))

	html := buf.String()
	require.Contains(t, html, "<title>Posture Check</title>")
	require.Contains(t, html, `name="domain"`)
	// Markdown help content is rendered and its citations survive as text.
	require.Contains(t, html, "<strong>DMARC</strong>")
}

func TestRender_DomainPageLinksCitations(t *testing.T) {
	r := newTestRenderer(t)
	report := &backend.Report{
		Domain: "example.com",
		DMARC: backend.Section{
			Valid:       true,
			Record:      "v=DMARC1; p=reject",
			Description: "Policy conforms to RFC 7489, § 6.3.",
		},
	}
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, "domain", PageData{
		Site:    testSite(),
		Domain:  "example.com",
		Report:  report,
		Elapsed: "0.123",
	}))

	html := buf.String()
	require.Contains(t, html, "Email security posture for example.com")
	require.Contains(t, html,
		`<a href="https://datatracker.ietf.org/doc/html/rfc7489#section-6.3">RFC 7489, § 6.3</a>`)
	require.Contains(t, html, "Checked in 0.123s")
	require.Contains(t, html, "v=DMARC1; p=reject")
}

func TestRender_DomainPageEscapesBackendText(t *testing.T) {
	r := newTestRenderer(t)
	report := &backend.Report{
		SPF: backend.Section{Description: `<script>alert("x")</script> see RFC 7208`},
	}
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, "domain", PageData{Site: testSite(), Report: report}))

	html := buf.String()
	require.NotContains(t, html, "<script>")
	require.Contains(t, html, "&lt;script&gt;")
	require.Contains(t, html, `<a href="https://datatracker.ietf.org/doc/html/rfc7208">RFC 7208</a>`)
}

func TestRender_DomainNotFoundPage(t *testing.T) {
	r := newTestRenderer(t)
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, "domain_not_found", PageData{
		Site:   testSite(),
		Domain: "nope.example",
	}))
	require.Contains(t, buf.String(), "nope.example does not exist")
}

func TestSectionStatus(t *testing.T) {
	require.Equal(t, "status-ok", sectionStatus(backend.Section{Valid: true}))
	require.Equal(t, "status-warning", sectionStatus(backend.Section{Valid: true, Warnings: []string{"w"}}))
	require.Equal(t, "status-invalid", sectionStatus(backend.Section{}))
	require.Equal(t, "status-error", sectionStatus(backend.Section{Error: "boom"}))
}

func TestSections_IncludesSMTPTLSOnlyWhenPresent(t *testing.T) {
	report := &backend.Report{}
	require.Len(t, Sections(report), 10)

	report.SMTPTLS = &backend.Section{Valid: true}
	got := Sections(report)
	require.Len(t, got, 11)
	require.Equal(t, "SMTP TLS", got[10].Name)
}

func TestStaticHandler_ServesStylesheet(t *testing.T) {
	rec := httptest.NewRecorder()
	StaticHandler().ServeHTTP(rec, httptest.NewRequest("GET", "/static/style.css", nil))
	require.Equal(t, 200, rec.Code)
	require.Contains(t, rec.Body.String(), "font-family")
}

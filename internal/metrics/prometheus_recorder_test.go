package metrics

import (
	"net/http/httptest"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder_ExposesMetrics(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)

	pr.ObserveRequestDuration("/domain/{domain}", 200, 42*time.Millisecond)
	pr.ObserveLookupDuration(100*time.Millisecond, true)
	pr.IncCacheResult(CacheHit)
	pr.IncCacheResult(CacheMiss)
	pr.IncCitationLinks(3)

	rec := httptest.NewRecorder()
	pr.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body := rec.Body.String()

	require.Contains(t, body, "mailposture_http_request_duration_seconds")
	require.Contains(t, body, "mailposture_backend_lookup_duration_seconds")
	require.Contains(t, body, `mailposture_report_cache_results_total{result="hit"} 1`)
	require.Contains(t, body, "mailposture_citation_links_total 3")
}

func TestNoopRecorder_IsSafe(t *testing.T) {
	var r Recorder = NoopRecorder{}
	require.NotPanics(t, func() {
		r.ObserveRequestDuration("/", 200, time.Second)
		r.ObserveLookupDuration(time.Second, false)
		r.IncCacheResult(CacheBypass)
		r.IncCitationLinks(1)
	})
}

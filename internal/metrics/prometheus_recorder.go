package metrics

import (
	"net/http"
	"strconv"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	registry        *prom.Registry
	requestDuration *prom.HistogramVec
	lookupDuration  *prom.HistogramVec
	cacheResults    *prom.CounterVec
	citationLinks   prom.Counter
}

// NewPrometheusRecorder constructs and registers Prometheus metrics on the
// given registry (a fresh one when nil).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{registry: reg}
	pr.requestDuration = prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: "mailposture",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration by route and status",
		Buckets:   prom.DefBuckets,
	}, []string{"route", "status"})
	pr.lookupDuration = prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: "mailposture",
		Name:      "backend_lookup_duration_seconds",
		Help:      "Duration of posture backend lookups",
		Buckets:   prom.DefBuckets,
	}, []string{"result"})
	pr.cacheResults = prom.NewCounterVec(prom.CounterOpts{
		Namespace: "mailposture",
		Name:      "report_cache_results_total",
		Help:      "Report cache lookups by result",
	}, []string{"result"})
	pr.citationLinks = prom.NewCounter(prom.CounterOpts{
		Namespace: "mailposture",
		Name:      "citation_links_total",
		Help:      "Citations rewritten into links while rendering reports",
	})
	reg.MustRegister(pr.requestDuration, pr.lookupDuration, pr.cacheResults, pr.citationLinks)
	return pr
}

// Handler exposes the registry in Prometheus text format.
func (p *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

func (p *PrometheusRecorder) ObserveRequestDuration(route string, status int, d time.Duration) {
	if p == nil || p.requestDuration == nil {
		return
	}
	p.requestDuration.WithLabelValues(route, strconv.Itoa(status)).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveLookupDuration(d time.Duration, success bool) {
	if p == nil || p.lookupDuration == nil {
		return
	}
	result := "success"
	if !success {
		result = "failure"
	}
	p.lookupDuration.WithLabelValues(result).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncCacheResult(result CacheResult) {
	if p == nil || p.cacheResults == nil {
		return
	}
	p.cacheResults.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) IncCitationLinks(n int) {
	if p == nil || p.citationLinks == nil || n <= 0 {
		return
	}
	p.citationLinks.Add(float64(n))
}

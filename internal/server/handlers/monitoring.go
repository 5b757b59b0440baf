package handlers

import (
	"log/slog"
	"net/http"
	"time"

	derrors "git.home.luguber.info/inful/mailposture/internal/errors"
	"git.home.luguber.info/inful/mailposture/internal/version"
)

// MonitoringHandlers contains health and readiness HTTP handlers.
type MonitoringHandlers struct {
	startTime    time.Time
	errorAdapter *derrors.HTTPErrorAdapter
}

// NewMonitoringHandlers creates a monitoring handlers instance.
func NewMonitoringHandlers(startTime time.Time) *MonitoringHandlers {
	return &MonitoringHandlers{
		startTime:    startTime,
		errorAdapter: derrors.NewHTTPErrorAdapter(slog.Default()),
	}
}

// HealthResponse is the /healthz payload.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Uptime    float64   `json:"uptime_seconds"`
}

// HandleHealthCheck handles the health check endpoint.
func (h *MonitoringHandlers) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	health := &HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   version.Version,
		Uptime:    time.Since(h.startTime).Seconds(),
	}
	if err := writeJSON(w, http.StatusOK, health); err != nil {
		internalErr := derrors.Wrap(err, derrors.CategoryInternal, "failed to write health response").Build()
		h.errorAdapter.WriteErrorResponse(w, internalErr)
	}
}

package errors

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
)

// HTTPErrorAdapter handles error presentation and status code determination
// for HTTP handlers.
type HTTPErrorAdapter struct {
	logger *slog.Logger
}

// NewHTTPErrorAdapter creates an adapter with an optional slog logger.
// If logger is nil, the default package logger is used.
func NewHTTPErrorAdapter(logger *slog.Logger) *HTTPErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPErrorAdapter{logger: logger}
}

// HTTPErrorResponse is the standard JSON error payload.
type HTTPErrorResponse struct {
	Error   string         `json:"error"`
	Code    string         `json:"code,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// StatusCodeFor maps an error's classification to an HTTP status code.
// Unknown errors map to 500.
func (a *HTTPErrorAdapter) StatusCodeFor(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if c, ok := AsClassified(err); ok {
		switch c.Category() {
		case CategoryValidation, CategoryConfig:
			return http.StatusBadRequest
		case CategoryNotFound:
			return http.StatusNotFound
		case CategoryBackend:
			return http.StatusBadGateway
		case CategoryCache, CategoryInternal:
			return http.StatusInternalServerError
		default:
			return http.StatusInternalServerError
		}
	}
	return http.StatusInternalServerError
}

// FormatErrorResponse builds the JSON payload for an error. Context from
// classified errors becomes the details map; causes are not leaked to clients.
func (a *HTTPErrorAdapter) FormatErrorResponse(err error) HTTPErrorResponse {
	if c, ok := AsClassified(err); ok {
		resp := HTTPErrorResponse{
			Error: c.Message(),
			Code:  string(c.Category()),
		}
		if len(c.Context()) > 0 {
			resp.Details = map[string]any(c.Context())
		}
		return resp
	}
	return HTTPErrorResponse{Error: "internal error", Code: string(CategoryInternal)}
}

// WriteErrorResponse writes the JSON error response and logs at a level
// matching the error's severity.
func (a *HTTPErrorAdapter) WriteErrorResponse(w http.ResponseWriter, err error) {
	if err == nil {
		w.WriteHeader(http.StatusOK)
		return
	}

	status := a.StatusCodeFor(err)
	payload := a.FormatErrorResponse(err)

	a.log(err, status)

	b, jerr := json.Marshal(payload)
	if jerr != nil {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"error":"internal error"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(b)
}

func (a *HTTPErrorAdapter) log(err error, status int) {
	level := slog.LevelError
	if c, ok := AsClassified(err); ok && c.Severity() == SeverityWarning {
		level = slog.LevelWarn
	}
	if status == http.StatusNotFound || status == http.StatusBadRequest {
		level = slog.LevelInfo
	}
	a.logger.Log(context.Background(), level, "request failed", "error", err.Error(), "status", status)
}

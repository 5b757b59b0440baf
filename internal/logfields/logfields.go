// Package logfields centralizes canonical log field names so attribute keys
// do not drift between packages.
package logfields

import "log/slog"

const (
	KeyDomain     = "domain"
	KeySite       = "site"
	KeyMethod     = "method"
	KeyPath       = "path"
	KeyStatus     = "status"
	KeyDurationMS = "duration_ms"
	KeyRemoteAddr = "remote_addr"
	KeyUserAgent  = "user_agent"
	KeyRequestID  = "request_id"
	KeyCache      = "cache"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Domain(d string) slog.Attr        { return slog.String(KeyDomain, d) }
func Site(s string) slog.Attr          { return slog.String(KeySite, s) }
func Method(m string) slog.Attr        { return slog.String(KeyMethod, m) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func Status(code int) slog.Attr        { return slog.Int(KeyStatus, code) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }
func RemoteAddr(addr string) slog.Attr { return slog.String(KeyRemoteAddr, addr) }
func UserAgent(ua string) slog.Attr    { return slog.String(KeyUserAgent, ua) }
func RequestID(id string) slog.Attr    { return slog.String(KeyRequestID, id) }
func Cache(result string) slog.Attr    { return slog.String(KeyCache, result) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}

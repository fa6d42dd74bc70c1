package httpx

import (
	"log/slog"
	"net/http"
	"time"
)

// WithAccessLog logs one debug line per outbound request. Failures are
// reported by the caller, which knows which operation was attempted.
func WithAccessLog(logger *slog.Logger) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			start := time.Now()
			resp, err := next.RoundTrip(r)

			attrs := []any{
				"request_id", r.Header.Get(RequestIDHeader),
				"method", r.Method,
				"path", r.URL.Path,
				"duration_ms", time.Since(start).Milliseconds(),
			}
			if err != nil {
				logger.Debug("http call failed", append(attrs, "err", err)...)
			} else {
				logger.Debug("http call", append(attrs, "status", resp.StatusCode)...)
			}
			return resp, err
		})
	}
}

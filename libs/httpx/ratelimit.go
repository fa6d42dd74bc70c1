package httpx

import (
	"net/http"

	"golang.org/x/time/rate"
)

// WithRateLimit caps the outbound request rate of one process. A non-positive
// perSecond disables limiting.
func WithRateLimit(perSecond float64, burst int) Middleware {
	if perSecond <= 0 {
		return func(next http.RoundTripper) http.RoundTripper { return next }
	}
	if burst <= 0 {
		burst = 1
	}
	limiter := rate.NewLimiter(rate.Limit(perSecond), burst)

	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			if err := limiter.Wait(r.Context()); err != nil {
				return nil, err
			}
			return next.RoundTrip(r)
		})
	}
}

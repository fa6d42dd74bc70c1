package httpx

import (
	"net/http"
	"strings"
)

// Middleware decorates an outbound transport.
type Middleware func(http.RoundTripper) http.RoundTripper

// RoundTripperFunc adapts a function to http.RoundTripper.
type RoundTripperFunc func(*http.Request) (*http.Response, error)

func (f RoundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func Chain(rt http.RoundTripper, m ...Middleware) http.RoundTripper {
	if rt == nil {
		rt = http.DefaultTransport
	}
	// Apply in reverse so Chain(rt, a, b) becomes a(b(rt)).
	for i := len(m) - 1; i >= 0; i-- {
		if m[i] == nil {
			continue
		}
		rt = m[i](rt)
	}
	return rt
}

// WithHeader sets a fixed header on every request that does not carry it yet.
func WithHeader(key, value string) Middleware {
	key = http.CanonicalHeaderKey(strings.TrimSpace(key))
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			if key == "" || value == "" || r.Header.Get(key) != "" {
				return next.RoundTrip(r)
			}
			r = r.Clone(r.Context())
			r.Header.Set(key, value)
			return next.RoundTrip(r)
		})
	}
}

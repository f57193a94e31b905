package http

import (
	"net/http"

	"github.com/okuznetsov/reqguard/internal/utils"
)

// HeaderInjector is a custom http.RoundTripper that injects a header into HTTP requests.
// It wraps another http.RoundTripper and ensures the header is present in every request,
// leaving requests that already carry the header untouched.
type HeaderInjector struct {
	// next is the underlying HTTP round tripper.
	next http.RoundTripper
	// header is the name of the header to inject.
	header string
	// valueProvider provides the header value to inject.
	valueProvider utils.ValueProvider
}

// NewHeaderInjector creates and returns a new instance of HeaderInjector.
// It takes an underlying http.RoundTripper, the header name,
// and a ValueProvider to supply the header value.
func NewHeaderInjector(next http.RoundTripper, header string, valueProvider utils.ValueProvider) http.RoundTripper {
	return &HeaderInjector{
		next:          next,
		header:        header,
		valueProvider: valueProvider,
	}
}

// RoundTrip executes a single HTTP transaction and injects the header if it is missing.
// It implements the http.RoundTripper interface.
func (t *HeaderInjector) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get(t.header) == "" {
		req.Header.Set(t.header, t.valueProvider.GetValue())
	}

	return t.next.RoundTrip(req)
}

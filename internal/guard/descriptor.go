package guard

import (
	"net/http"
	"time"
)

// Source identifies where a response was produced.
type Source string

const (
	// SourceNetwork marks a response produced by the real transport.
	SourceNetwork Source = "network"
	// SourceCache marks a response served from the response cache.
	SourceCache Source = "cache"
	// SourceMock marks a response synthesized by a mock rule.
	SourceMock Source = "mock"
)

// String returns the source name.
func (s Source) String() string {
	return string(s)
}

// Request is the value-type representation of an outbound HTTP request.
// Once dispatched into the pipeline it is treated as immutable:
// each pipeline stage works on its own clone, so concurrent in-flight
// dispatches never alias each other's descriptors.
type Request struct {
	// ID is the correlation identifier shared by all log entries of one dispatch.
	// The client assigns one when empty.
	ID string
	// Method is the HTTP method, e.g. "GET".
	Method string
	// URL is the full request URL including any query string.
	URL string
	// Header holds the request headers.
	Header http.Header
	// Body is the raw request body, nil when absent.
	Body []byte
	// CreatedAt is the time the request entered the pipeline.
	CreatedAt time.Time
}

// Clone returns a deep copy of the request.
// The header map and body bytes are copied so that mutations
// of the clone never leak into the original.
func (r *Request) Clone() *Request {
	if r == nil {
		return nil
	}

	cloned := &Request{
		ID:        r.ID,
		Method:    r.Method,
		URL:       r.URL,
		CreatedAt: r.CreatedAt,
	}

	if r.Header != nil {
		cloned.Header = r.Header.Clone()
	}

	if r.Body != nil {
		cloned.Body = make([]byte, len(r.Body))
		copy(cloned.Body, r.Body)
	}

	return cloned
}

// Response is the value-type representation of an HTTP response.
type Response struct {
	// Status is the HTTP status code.
	Status int
	// StatusText is the textual description of the status code.
	StatusText string
	// Header holds the response headers.
	Header http.Header
	// Body is the full response body.
	Body []byte
	// Source reports where the response came from: network, cache, or mock.
	Source Source
}

// Clone returns a deep copy of the response.
// Cached entries are stored and served as clones, so a cached response
// is immune to later mutation of the live response object.
func (r *Response) Clone() *Response {
	if r == nil {
		return nil
	}

	cloned := &Response{
		Status:     r.Status,
		StatusText: r.StatusText,
		Source:     r.Source,
	}

	if r.Header != nil {
		cloned.Header = r.Header.Clone()
	}

	if r.Body != nil {
		cloned.Body = make([]byte, len(r.Body))
		copy(cloned.Body, r.Body)
	}

	return cloned
}

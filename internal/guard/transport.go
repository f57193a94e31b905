package guard

//go:generate $MOCKGEN -source=transport.go -destination=mocks/transport_mock.go

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
)

// Transport performs a single HTTP exchange.
// It is the host-supplied collaborator the resilience layer wraps;
// the layer itself never does wire-level I/O.
// Implementations must report failures as *TransportError so that
// the retry executor can classify them without inspecting messages.
type Transport interface {
	// Perform executes the request and returns the response.
	// A returned response means the exchange completed,
	// whatever its status code; an error means no response was obtained.
	Perform(ctx context.Context, request *Request) (*Response, error)
}

// ErrorKind classifies transport-level failures for retry decisions.
type ErrorKind string

const (
	// ErrorKindNetwork marks a connectivity failure with no response.
	ErrorKindNetwork ErrorKind = "network"
	// ErrorKindTimeout marks a deadline or cancellation failure.
	ErrorKindTimeout ErrorKind = "timeout"
	// ErrorKindOther marks any other failure; these are never retried.
	ErrorKindOther ErrorKind = "other"
)

// TransportError wraps a transport-level failure with a structured kind,
// so retry policy never depends on error message sniffing.
type TransportError struct {
	// Kind classifies the failure.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("transport %s error: %v", e.Kind, e.Err)
}

// Unwrap returns the underlying error.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// HTTPTransport adapts a *http.Client to the Transport interface.
type HTTPTransport struct {
	// client is the underlying HTTP client.
	client *http.Client
}

// NewHTTPTransport creates and returns a new instance of HTTPTransport.
// If client is nil, a zero-value http.Client is used.
func NewHTTPTransport(client *http.Client) *HTTPTransport {
	if client == nil {
		client = &http.Client{}
	}

	return &HTTPTransport{client: client}
}

// Perform executes the request with the underlying HTTP client,
// reading the response body fully into the returned descriptor.
func (t *HTTPTransport) Perform(ctx context.Context, request *Request) (*Response, error) {
	if request == nil {
		return nil, ErrNilRequest
	}

	var body io.Reader = http.NoBody
	if len(request.Body) > 0 {
		body = bytes.NewReader(request.Body)
	}

	httpRequest, err := http.NewRequestWithContext(ctx, request.Method, request.URL, body)
	if err != nil {
		return nil, &TransportError{Kind: ErrorKindOther, Err: err}
	}

	for name, values := range request.Header {
		httpRequest.Header[name] = values
	}

	httpResponse, err := t.client.Do(httpRequest)
	if err != nil {
		return nil, &TransportError{Kind: classifyError(err), Err: err}
	}

	defer httpResponse.Body.Close() //nolint:errcheck // Response body close errors are not actionable here.

	responseBody, err := io.ReadAll(httpResponse.Body)
	if err != nil {
		return nil, &TransportError{Kind: classifyError(err), Err: err}
	}

	return &Response{
		Status:     httpResponse.StatusCode,
		StatusText: http.StatusText(httpResponse.StatusCode),
		Header:     httpResponse.Header.Clone(),
		Body:       responseBody,
		Source:     SourceNetwork,
	}, nil
}

// classifyError maps an error returned by net/http to an ErrorKind.
// Timeouts take precedence over network classification because
// net.Error timeouts often arrive wrapped in *net.OpError.
func classifyError(err error) ErrorKind {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return ErrorKindTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrorKindTimeout
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return ErrorKindNetwork
	}

	if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		return ErrorKindNetwork
	}

	return ErrorKindOther
}

// roundTripper adapts a Client to the http.RoundTripper interface,
// so a stock *http.Client can be routed through the resilience layer.
type roundTripper struct {
	client *Client
}

// RoundTripper wraps the client in an http.RoundTripper.
// Interception stays opt-in per HTTP client instance;
// nothing is patched globally.
func RoundTripper(client *Client) http.RoundTripper {
	return &roundTripper{client: client}
}

// RoundTrip implements the http.RoundTripper interface.
func (rt *roundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	var (
		requestBody []byte
		err         error
	)

	if req.Body != nil {
		requestBody, err = io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}

		_ = req.Body.Close() //nolint:errcheck // The body is fully consumed at this point.
	}

	request := &Request{
		Method: req.Method,
		URL:    req.URL.String(),
		Header: req.Header.Clone(),
		Body:   requestBody,
	}

	response, err := rt.client.Dispatch(req.Context(), request)
	if err != nil {
		return nil, err
	}

	header := response.Header
	if header == nil {
		header = make(http.Header)
	}

	return &http.Response{
		StatusCode:    response.Status,
		Status:        fmt.Sprintf("%d %s", response.Status, response.StatusText),
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(response.Body)),
		ContentLength: int64(len(response.Body)),
		Request:       req,
	}, nil
}

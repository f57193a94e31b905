package guard

import "errors"

// Static error definitions for better error handling.
var (
	// ErrNilRequest indicates that the dispatched request is nil.
	ErrNilRequest = errors.New("request is nil")
	// ErrNilTransport indicates that no transport was supplied to the client.
	ErrNilTransport = errors.New("transport is nil")
	// ErrNilInterceptor indicates that a nil interceptor was registered.
	ErrNilInterceptor = errors.New("interceptor is nil")
	// ErrEmptyMockURL indicates that a mock rule has no URL matcher.
	ErrEmptyMockURL = errors.New("mock rule URL matcher is empty")
	// ErrNilResponder indicates that a mock rule has no responder.
	ErrNilResponder = errors.New("mock rule responder is nil")
)

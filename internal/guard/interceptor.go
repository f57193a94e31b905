package guard

import (
	"context"
	"fmt"
)

// RequestInterceptor transforms a request descriptor before it reaches
// mocking, caching, and the transport. Interceptors are named so that
// registrations can be inspected and removed deterministically.
type RequestInterceptor interface {
	// Name returns the interceptor name used in diagnostics.
	Name() string
	// InterceptRequest returns the transformed request.
	// Returning nil (with a nil error) leaves the request unchanged.
	// Returning an error aborts the dispatch; the failure is never retried.
	InterceptRequest(ctx context.Context, request *Request) (*Request, error)
}

// ResponseInterceptor transforms a response descriptor before it is
// returned to the caller or stored in the cache.
type ResponseInterceptor interface {
	// Name returns the interceptor name used in diagnostics.
	Name() string
	// InterceptResponse returns the transformed response.
	// Returning nil (with a nil error) leaves the response unchanged.
	// Returning an error aborts the dispatch; the failure is never retried.
	InterceptResponse(ctx context.Context, request *Request, response *Response) (*Response, error)
}

// requestInterceptorFunc adapts a function to the RequestInterceptor interface.
type requestInterceptorFunc struct {
	name string
	fn   func(ctx context.Context, request *Request) (*Request, error)
}

// RequestInterceptorFunc wraps a function as a named RequestInterceptor.
func RequestInterceptorFunc(
	name string,
	fn func(ctx context.Context, request *Request) (*Request, error),
) RequestInterceptor {
	return &requestInterceptorFunc{name: name, fn: fn}
}

// Name returns the interceptor name.
func (i *requestInterceptorFunc) Name() string {
	return i.name
}

// InterceptRequest invokes the wrapped function.
func (i *requestInterceptorFunc) InterceptRequest(ctx context.Context, request *Request) (*Request, error) {
	return i.fn(ctx, request)
}

// responseInterceptorFunc adapts a function to the ResponseInterceptor interface.
type responseInterceptorFunc struct {
	name string
	fn   func(ctx context.Context, request *Request, response *Response) (*Response, error)
}

// ResponseInterceptorFunc wraps a function as a named ResponseInterceptor.
func ResponseInterceptorFunc(
	name string,
	fn func(ctx context.Context, request *Request, response *Response) (*Response, error),
) ResponseInterceptor {
	return &responseInterceptorFunc{name: name, fn: fn}
}

// Name returns the interceptor name.
func (i *responseInterceptorFunc) Name() string {
	return i.name
}

// InterceptResponse invokes the wrapped function.
func (i *responseInterceptorFunc) InterceptResponse(
	ctx context.Context,
	request *Request,
	response *Response,
) (*Response, error) {
	return i.fn(ctx, request, response)
}

// applyRequestInterceptors runs the chain strictly in registration order.
// Every interceptor receives its own clone of the current descriptor,
// so mutations never alias descriptors held by other in-flight dispatches.
func applyRequestInterceptors(
	ctx context.Context,
	chain []RequestInterceptor,
	request *Request,
) (*Request, error) {
	current := request

	for _, interceptor := range chain {
		next := current.Clone()

		transformed, err := interceptor.InterceptRequest(ctx, next)
		if err != nil {
			return nil, fmt.Errorf("request interceptor %q: %w", interceptor.Name(), err)
		}

		if transformed != nil {
			current = transformed
		} else {
			current = next
		}
	}

	return current, nil
}

// applyResponseInterceptors runs the chain strictly in registration order.
func applyResponseInterceptors(
	ctx context.Context,
	chain []ResponseInterceptor,
	request *Request,
	response *Response,
) (*Response, error) {
	current := response

	for _, interceptor := range chain {
		next := current.Clone()

		transformed, err := interceptor.InterceptResponse(ctx, request, next)
		if err != nil {
			return nil, fmt.Errorf("response interceptor %q: %w", interceptor.Name(), err)
		}

		if transformed != nil {
			current = transformed
		} else {
			current = next
		}
	}

	return current, nil
}

// removeInterceptor deletes the first element identical to target.
// Identity comparison keeps removal unambiguous even when two
// registrations share a name.
func removeInterceptor[T comparable](chain []T, target T) []T {
	for i, interceptor := range chain {
		if interceptor == target {
			return append(chain[:i:i], chain[i+1:]...)
		}
	}

	return chain
}

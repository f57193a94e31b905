package guard

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okuznetsov/reqguard/internal/config"
	"github.com/okuznetsov/reqguard/internal/logger"
)

// Client is the transport façade: the single entry point application code
// uses to dispatch requests through the resilience pipeline. It owns the
// interceptor chains, mock rules, response cache, and request log for its
// lifetime. Separately constructed clients have fully independent state.
type Client struct {
	// mu guards the interceptor chains and the enabled flag.
	mu sync.RWMutex
	// transport is the host-supplied collaborator performing real calls.
	transport Transport
	// opts is the effective configuration.
	opts Options
	// enabled toggles the whole pipeline; when false, Dispatch forwards
	// directly to the transport with no interception, caching, or logging.
	enabled bool
	// requestInterceptors is the ordered request transformation chain.
	requestInterceptors []RequestInterceptor
	// responseInterceptors is the ordered response transformation chain.
	responseInterceptors []ResponseInterceptor
	// mocks holds the registered mock rules.
	mocks *mockMatcher
	// cache stores response snapshots for idempotent requests.
	cache *responseCache
	// log is the bounded diagnostic request log.
	log *requestLog
	// executor performs the real call with retry and backoff.
	executor *retryExecutor
	// now returns the current time; overridable in tests.
	now func() time.Time
}

// New creates a client around the given transport.
func New(transport Transport, opts ...Option) (*Client, error) {
	if transport == nil {
		return nil, ErrNilTransport
	}

	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	cache, err := newResponseCache(options.CacheCapacity, options.CacheDuration)
	if err != nil {
		return nil, err
	}

	return &Client{
		transport: transport,
		opts:      options,
		enabled:   options.Intercept,
		mocks:     newMockMatcher(),
		cache:     cache,
		log:       newRequestLog(options.MaxLogEntries),
		executor: &retryExecutor{
			transport:           transport,
			enabled:             options.Retry,
			maxRetries:          options.MaxRetries,
			baseDelay:           options.RetryDelay,
			timeout:             options.Timeout,
			retryOnNetworkError: options.RetryOnNetworkError,
			retryOnTimeout:      options.RetryOnTimeout,
			sleep:               sleepContext,
		},
		now: time.Now,
	}, nil
}

// FromConfig creates a client from validated application configuration.
func FromConfig(cfg *config.Config, transport Transport) (*Client, error) {
	return New(transport, optionsFromConfig(cfg)...)
}

// Dispatch runs one end-to-end invocation of the resilience layer.
// HTTP error statuses are valid responses, not errors: Dispatch fails only
// on a transport failure after retries are exhausted, or on an interceptor
// error.
func (c *Client) Dispatch(ctx context.Context, request *Request) (*Response, error) {
	if request == nil {
		return nil, ErrNilRequest
	}

	if !c.IsEnabled() {
		return c.transport.Perform(ctx, request)
	}

	req := request.Clone()
	if req.ID == "" {
		req.ID = uuid.New().String()
	}

	if req.CreatedAt.IsZero() {
		req.CreatedAt = c.now()
	}

	startedAt := c.now()
	c.logRequest(req)

	transformed, err := applyRequestInterceptors(ctx, c.snapshotRequestInterceptors(), req)
	if err != nil {
		c.logError(req, err)

		return nil, err
	}

	req = transformed

	if c.opts.Mocking {
		if mocked := c.mocks.match(req); mocked != nil {
			return c.finish(ctx, req, mocked, startedAt)
		}
	}

	useCache := c.opts.Caching && isCacheable(req)

	if useCache {
		if cached := c.cache.lookup(req); cached != nil {
			logger.DebugKV(ctx, "serving response from cache",
				"id", req.ID, "method", req.Method, "url", req.URL)
			c.logResponse(req, cached, startedAt)

			return cached, nil
		}
	}

	response, err := c.executor.execute(ctx, req)
	if err != nil {
		c.logError(req, err)

		return nil, err
	}

	return c.finish(ctx, req, response, startedAt)
}

// finish runs the response chain, updates the cache, and logs the outcome.
// Mock responses pass through the response chain like network ones;
// cache hits bypass it because the stored snapshot was already transformed
// when it entered the cache.
func (c *Client) finish(
	ctx context.Context,
	request *Request,
	response *Response,
	startedAt time.Time,
) (*Response, error) {
	response, err := applyResponseInterceptors(ctx, c.snapshotResponseInterceptors(), request, response)
	if err != nil {
		c.logError(request, err)

		return nil, err
	}

	if c.opts.Caching && isCacheable(request) &&
		response.Source == SourceNetwork && response.Status < 300 && response.Status >= 200 {
		c.cache.store(request, response)
	}

	c.logResponse(request, response, startedAt)

	return response, nil
}

// AddRequestInterceptor appends an interceptor to the request chain.
func (c *Client) AddRequestInterceptor(interceptor RequestInterceptor) error {
	if interceptor == nil {
		return ErrNilInterceptor
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.requestInterceptors = append(c.requestInterceptors, interceptor)

	return nil
}

// RemoveRequestInterceptor removes a previously registered interceptor.
// Interceptors are compared by identity, so pass the registered value.
func (c *Client) RemoveRequestInterceptor(interceptor RequestInterceptor) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.requestInterceptors = removeInterceptor(c.requestInterceptors, interceptor)
}

// AddResponseInterceptor appends an interceptor to the response chain.
func (c *Client) AddResponseInterceptor(interceptor ResponseInterceptor) error {
	if interceptor == nil {
		return ErrNilInterceptor
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.responseInterceptors = append(c.responseInterceptors, interceptor)

	return nil
}

// RemoveResponseInterceptor removes a previously registered interceptor.
// Interceptors are compared by identity, so pass the registered value.
func (c *Client) RemoveResponseInterceptor(interceptor ResponseInterceptor) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.responseInterceptors = removeInterceptor(c.responseInterceptors, interceptor)
}

// AddMockRule registers a mock rule at the end of the rule list.
// Rules may be registered ahead of enabling mock mode.
func (c *Client) AddMockRule(rule MockRule) error {
	return c.mocks.add(rule)
}

// ClearMockRules removes all registered mock rules.
func (c *Client) ClearMockRules() {
	c.mocks.clear()
}

// Log returns a snapshot of the request log in insertion order.
func (c *Client) Log() []LogEntry {
	return c.log.snapshot()
}

// ClearLog removes all request log entries.
func (c *Client) ClearLog() {
	c.log.clear()
}

// Stats returns aggregates recomputed from the current request log.
func (c *Client) Stats() Stats {
	return c.log.stats()
}

// Enable turns the resilience pipeline on.
func (c *Client) Enable() {
	c.setEnabled(true)
}

// Disable turns the resilience pipeline off. Subsequent dispatches forward
// directly to the raw transport with no pipeline, caching, or logging.
func (c *Client) Disable() {
	c.setEnabled(false)
}

// IsEnabled reports whether the pipeline is currently enabled.
func (c *Client) IsEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.enabled
}

func (c *Client) setEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.enabled = enabled
}

// snapshotRequestInterceptors copies the chain so a dispatch observes a
// stable registration order even when interceptors are added or removed
// concurrently.
func (c *Client) snapshotRequestInterceptors() []RequestInterceptor {
	c.mu.RLock()
	defer c.mu.RUnlock()

	chain := make([]RequestInterceptor, len(c.requestInterceptors))
	copy(chain, c.requestInterceptors)

	return chain
}

func (c *Client) snapshotResponseInterceptors() []ResponseInterceptor {
	c.mu.RLock()
	defer c.mu.RUnlock()

	chain := make([]ResponseInterceptor, len(c.responseInterceptors))
	copy(chain, c.responseInterceptors)

	return chain
}

// logRequest appends the non-terminal entry that opens a dispatch.
func (c *Client) logRequest(request *Request) {
	if !c.opts.Logging {
		return
	}

	c.log.append(LogEntry{
		Type:      EntryTypeRequest,
		ID:        request.ID,
		Timestamp: c.now(),
		Method:    request.Method,
		URL:       request.URL,
	})
}

// logResponse appends the terminal entry of a completed dispatch.
func (c *Client) logResponse(request *Request, response *Response, startedAt time.Time) {
	if !c.opts.Logging {
		return
	}

	c.log.append(LogEntry{
		Type:      EntryTypeResponse,
		ID:        request.ID,
		Timestamp: c.now(),
		Method:    request.Method,
		URL:       request.URL,
		Status:    response.Status,
		Duration:  c.now().Sub(startedAt),
		Size:      int64(len(response.Body)),
		Source:    response.Source,
	})
}

// logError appends the terminal entry of a failed dispatch.
func (c *Client) logError(request *Request, err error) {
	if !c.opts.Logging {
		return
	}

	c.log.append(LogEntry{
		Type:      EntryTypeError,
		ID:        request.ID,
		Timestamp: c.now(),
		Method:    request.Method,
		URL:       request.URL,
		Message:   err.Error(),
	})
}

// Package guard implements an interception and resilience layer for outbound
// HTTP requests: ordered request/response interceptor chains, deterministic
// mock rules, TTL-based response caching, retry with exponential backoff,
// and a bounded diagnostic request log with derived statistics.
// The layer wraps a host-supplied Transport and never performs
// wire-level I/O itself.
package guard

// Package http provides custom HTTP transport utilities,
// including wire-level request/response logging and header injection.
// It is designed to enhance HTTP client functionality
// with debugging capabilities and request customization.
package http

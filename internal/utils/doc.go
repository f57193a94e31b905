// Package utils provides a collection of helper functions shared across the application,
// such as safe numeric conversions, content type validation, and header value providers.
// It is designed to simplify repetitive operations and ensure consistency across the application.
package utils

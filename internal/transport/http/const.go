package http

// DefaultUserAgent is the default User-Agent string used for HTTP requests
// when the configuration does not provide one.
const DefaultUserAgent = "reqguard/1.0"

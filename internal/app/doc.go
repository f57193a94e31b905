// Package app provides the main application logic for dispatching HTTP
// requests through the resilience layer. It wires the configuration into
// the transport chain and the guard client, performs the requested
// dispatch, and reports the outcome.
package app

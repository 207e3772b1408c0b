// Package server holds the HTTP server configuration.
//
// The start command builds the Fiber application itself. This package only
// defines the listen port, the optional API key, the metrics endpoint path and
// the per-request deadline applied to report computation.
package server

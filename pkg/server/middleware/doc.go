// Package middleware provides the HTTP middleware chain for the trigon service.
//
// Order, outermost first:
//
//	Recovery -> RequestID -> Logging -> Tracing -> routes
//
// The request ID is stored with logging.WithRequestID, so every context-aware
// log line written while serving the request carries it.
package middleware

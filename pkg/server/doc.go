// Package server exposes the triangle classifier over HTTP.
//
// Routes:
//
//	GET  /v1/classify?a=3&b=4&c=5
//	POST /v1/classify   {"sides": ["3", "4", "5"]}
//	GET  /healthz       liveness
//	GET  /readyz        readiness checks
//	GET  /version       build information
//	GET  /metrics       Prometheus metrics, when enabled
//
// A classification always answers 200 with {"label": "..."}; bad input is a
// label, never an HTTP error. Only an undecodable body is a 400.
package server

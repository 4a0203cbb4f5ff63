// Package security provides transport security and authentication for the
// trigon HTTP service.
//
//   - tls: HTTPS configuration with certificate hot reload
//   - auth: API key authentication middleware
package security

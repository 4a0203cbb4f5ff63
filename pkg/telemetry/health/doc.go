// Package health provides liveness, readiness and version endpoints.
//
// Liveness only reports that the process is serving. Readiness runs every
// registered check concurrently (for example a history storage ping) and
// answers 503 when any of them fails.
package health

package tls

import (
	"crypto/tls"
	"fmt"

	"mercator-hq/trigon/pkg/config"
	"mercator-hq/trigon/pkg/telemetry/logging"
)

// NewServerConfig loads the configured certificate and returns the server
// TLS configuration and the reloader backing it. It returns nil, nil, nil
// when TLS is disabled.
func NewServerConfig(cfg *config.TLSConfig, logger *logging.Logger) (*tls.Config, *CertificateReloader, error) {
	if !cfg.Enabled {
		return nil, nil, nil
	}
	if cfg.CertFile == "" || cfg.KeyFile == "" {
		return nil, nil, fmt.Errorf("cert_file and key_file are required when TLS is enabled")
	}

	minVersion, err := ParseVersion(cfg.MinVersion)
	if err != nil {
		return nil, nil, err
	}

	reloader := NewCertificateReloader(cfg.CertFile, cfg.KeyFile, cfg.ReloadInterval, logger)
	if err := reloader.Load(); err != nil {
		return nil, nil, err
	}

	// #nosec G402 - MinVersion is restricted to TLS 1.2 or 1.3 by ParseVersion
	tlsConfig := &tls.Config{
		MinVersion:     minVersion,
		GetCertificate: reloader.GetCertificate,
		NextProtos:     []string{"h2", "http/1.1"},
	}
	return tlsConfig, reloader, nil
}

// ParseVersion maps "1.2" and "1.3" to their crypto/tls constants. An
// empty string means 1.3.
func ParseVersion(v string) (uint16, error) {
	switch v {
	case "1.3", "":
		return tls.VersionTLS13, nil
	case "1.2":
		return tls.VersionTLS12, nil
	default:
		return 0, fmt.Errorf("unsupported TLS version %q", v)
	}
}

package tls

import (
	"context"
	"crypto/tls"
	"fmt"
	"os"
	"sync"
	"time"

	"mercator-hq/trigon/pkg/telemetry/logging"
)

// CertificateReloader serves a certificate pair and reloads it when the
// files change on disk.
type CertificateReloader struct {
	certFile string
	keyFile  string
	interval time.Duration
	logger   *logging.Logger
	now      func() time.Time

	mu       sync.RWMutex
	cert     *tls.Certificate
	certTime time.Time
	keyTime  time.Time
}

// NewCertificateReloader creates a reloader. Call Load before serving.
func NewCertificateReloader(certFile, keyFile string, interval time.Duration, logger *logging.Logger) *CertificateReloader {
	if logger == nil {
		logger = logging.Discard()
	}
	return &CertificateReloader{
		certFile: certFile,
		keyFile:  keyFile,
		interval: interval,
		logger:   logger.WithComponent("tls"),
		now:      time.Now,
	}
}

// Load reads and validates the certificate pair, replacing the current
// one only on success.
func (r *CertificateReloader) Load() error {
	certInfo, err := os.Stat(r.certFile)
	if err != nil {
		return fmt.Errorf("certificate file: %w", err)
	}
	keyInfo, err := os.Stat(r.keyFile)
	if err != nil {
		return fmt.Errorf("key file: %w", err)
	}

	cert, err := tls.LoadX509KeyPair(r.certFile, r.keyFile)
	if err != nil {
		return fmt.Errorf("failed to load certificate: %w", err)
	}
	leaf, err := ValidateCertificate(&cert, r.now())
	if err != nil {
		return fmt.Errorf("certificate validation failed: %w", err)
	}
	cert.Leaf = leaf

	r.mu.Lock()
	r.cert = &cert
	r.certTime = certInfo.ModTime()
	r.keyTime = keyInfo.ModTime()
	r.mu.Unlock()

	days, soon := ExpiresSoon(leaf, r.now())
	if soon {
		r.logger.Warn("Certificate expiring soon",
			"subject", leaf.Subject.CommonName,
			"expires_in_days", days,
			"expires_at", leaf.NotAfter.Format(time.RFC3339),
		)
	} else {
		r.logger.Info("Certificate loaded",
			"subject", leaf.Subject.CommonName,
			"issuer", leaf.Issuer.CommonName,
			"expires_in_days", days,
		)
	}
	return nil
}

// Run polls the files every interval and reloads on change until ctx is
// cancelled. It returns immediately when the interval is not positive.
func (r *CertificateReloader) Run(ctx context.Context) {
	if r.interval <= 0 {
		return
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.ReloadIfChanged()
		}
	}
}

// ReloadIfChanged reloads when either file's modification time moved
// forward. It reports whether a new certificate was loaded.
func (r *CertificateReloader) ReloadIfChanged() bool {
	if !r.changed() {
		return false
	}
	if err := r.Load(); err != nil {
		r.logger.Error("Failed to reload certificate, keeping the current one",
			"error", err,
			"cert_file", r.certFile,
		)
		return false
	}
	r.logger.Info("Certificate reloaded", "cert_file", r.certFile)
	return true
}

func (r *CertificateReloader) changed() bool {
	certInfo, err := os.Stat(r.certFile)
	if err != nil {
		return false
	}
	keyInfo, err := os.Stat(r.keyFile)
	if err != nil {
		return false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	return certInfo.ModTime().After(r.certTime) || keyInfo.ModTime().After(r.keyTime)
}

// Certificate returns the current certificate.
func (r *CertificateReloader) Certificate() *tls.Certificate {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cert
}

// GetCertificate implements tls.Config.GetCertificate.
func (r *CertificateReloader) GetCertificate(*tls.ClientHelloInfo) (*tls.Certificate, error) {
	cert := r.Certificate()
	if cert == nil {
		return nil, fmt.Errorf("no certificate loaded")
	}
	return cert, nil
}

package tls

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"time"
)

// ExpiryWarningThreshold is how close to expiry a certificate is logged
// as a warning.
const ExpiryWarningThreshold = 30 * 24 * time.Hour

// ValidateCertificate parses the leaf of cert and checks its validity
// window against now.
func ValidateCertificate(cert *tls.Certificate, now time.Time) (*x509.Certificate, error) {
	if cert == nil {
		return nil, errors.New("certificate is nil")
	}
	if len(cert.Certificate) == 0 {
		return nil, errors.New("certificate chain is empty")
	}

	leaf, err := x509.ParseCertificate(cert.Certificate[0])
	if err != nil {
		return nil, fmt.Errorf("failed to parse certificate: %w", err)
	}

	if now.Before(leaf.NotBefore) {
		return nil, fmt.Errorf("certificate is not yet valid (valid from %s)", leaf.NotBefore.Format(time.RFC3339))
	}
	if now.After(leaf.NotAfter) {
		return nil, fmt.Errorf("certificate expired on %s", leaf.NotAfter.Format(time.RFC3339))
	}
	return leaf, nil
}

// ExpiresSoon reports whether leaf expires within ExpiryWarningThreshold
// of now, with the whole days remaining.
func ExpiresSoon(leaf *x509.Certificate, now time.Time) (days int, soon bool) {
	remaining := leaf.NotAfter.Sub(now)
	return int(remaining.Hours() / 24), remaining < ExpiryWarningThreshold
}

package server

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mercator-hq/trigon/pkg/config"
	"mercator-hq/trigon/pkg/server/middleware"
	"mercator-hq/trigon/pkg/triangle"
)

func TestServer_RateLimit(t *testing.T) {
	h := New(&config.ServerConfig{
		RateLimit: config.RateLimitConfig{Enabled: true, RequestsPerSecond: 0.001, Burst: 2, MaxClients: 10},
	}, Options{}).Handler()

	get := func(path, remote string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.RemoteAddr = remote
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	for i := 0; i < 2; i++ {
		if rec := get("/v1/classify?a=3&b=4&c=5", "192.0.2.1:1000"); rec.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i+1, rec.Code)
		}
	}

	rec := get("/v1/classify?a=3&b=4&c=5", "192.0.2.1:2000")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("missing Retry-After header")
	}
	if got := rec.Header().Get(middleware.RateLimitLimitHeader); got != "2" {
		t.Errorf("%s = %q, want 2", middleware.RateLimitLimitHeader, got)
	}

	if rec := get("/v1/classify?a=3&b=4&c=5", "192.0.2.2:1000"); rec.Code != http.StatusOK {
		t.Errorf("other client status = %d, want 200", rec.Code)
	}
	if rec := get("/healthz", "192.0.2.1:1000"); rec.Code != http.StatusOK {
		t.Errorf("/healthz status = %d, want 200 without limiting", rec.Code)
	}
}

func TestServer_Auth(t *testing.T) {
	h := New(&config.ServerConfig{
		Auth: config.AuthConfig{
			Enabled: true,
			Header:  "Authorization",
			Scheme:  "Bearer",
			Keys:    []config.APIKeyConfig{{Key: "secret", Name: "ci"}},
		},
	}, Options{}).Handler()

	tests := []struct {
		name       string
		path       string
		header     string
		wantStatus int
	}{
		{"no key", "/v1/classify?a=3&b=4&c=5", "", http.StatusUnauthorized},
		{"wrong key", "/v1/classify?a=3&b=4&c=5", "Bearer nope", http.StatusUnauthorized},
		{"valid key", "/v1/classify?a=3&b=4&c=5", "Bearer secret", http.StatusOK},
		{"health is open", "/healthz", "", http.StatusOK},
		{"version is open", "/version", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

// selfSigned returns a certificate for 127.0.0.1 and a pool trusting it.
func selfSigned(t *testing.T) (tls.Certificate, *x509.CertPool) {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	tmpl := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: "trigon.test"},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(time.Hour),
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		IPAddresses:           []net.IP{net.ParseIP("127.0.0.1")},
		IsCA:                  true,
		BasicConstraintsValid: true,
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	if err != nil {
		t.Fatal(err)
	}
	leaf, err := x509.ParseCertificate(der)
	if err != nil {
		t.Fatal(err)
	}

	pool := x509.NewCertPool()
	pool.AddCert(leaf)
	return tls.Certificate{Certificate: [][]byte{der}, PrivateKey: key, Leaf: leaf}, pool
}

func TestServer_TLS(t *testing.T) {
	cert, pool := selfSigned(t)
	srv := testServer(t, Options{
		TLSConfig: &tls.Config{Certificates: []tls.Certificate{cert}, MinVersion: tls.VersionTLS13},
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Start(ctx) }()
	defer func() {
		cancel()
		<-done
	}()

	select {
	case <-srv.Ready():
	case err := <-done:
		t.Fatalf("Start() returned early: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not become ready")
	}

	client := &http.Client{
		Timeout:   2 * time.Second,
		Transport: &http.Transport{TLSClientConfig: &tls.Config{RootCAs: pool, MinVersion: tls.VersionTLS13}},
	}
	resp, err := client.Get("https://" + srv.Addr() + "/v1/classify?a=2&b=2&c=3")
	if err != nil {
		t.Fatalf("GET over TLS: %v", err)
	}
	label := decodeLabel(t, resp.Body)
	resp.Body.Close()
	if label != triangle.LabelIsosceles {
		t.Errorf("label = %q, want isosceles triangle", label)
	}

	if resp, err := http.Get("http://" + srv.Addr() + "/healthz"); err == nil {
		resp.Body.Close()
		if resp.StatusCode == http.StatusOK {
			t.Error("plain HTTP request to a TLS listener succeeded")
		}
	}
}

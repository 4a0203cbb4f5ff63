package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"testing"
	"time"

	"mercator-hq/trigon/pkg/cli"
	"mercator-hq/trigon/pkg/config"
)

func serveConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg := testConfig(t)
	cfg.History.Driver = config.DriverMemory
	cfg.History.Retention.Schedule = ""
	cfg.Server.ListenAddress = "127.0.0.1:0"
	cfg.Fixtures.Path = writeFixture(t, "3 4 5 simple triangle\n")
	cfg.Fixtures.Watch = true
	cfg.Fixtures.DebounceInterval = 10 * time.Millisecond
	return cfg
}

func TestServeCommand_DryRun(t *testing.T) {
	out, err := execute(t, testConfig(t), "serve", "--dry-run")
	if err != nil {
		t.Fatalf("serve --dry-run returned error: %v", err)
	}
	if out != "✓ Configuration valid\n" {
		t.Errorf("output = %q", out)
	}
}

func TestServeCommand_InvalidListenAddress(t *testing.T) {
	_, err := execute(t, testConfig(t), "serve", "--dry-run", "--listen", "no-port")
	if err == nil {
		t.Fatal("serve with an invalid address should fail")
	}
	if code := cli.ExitCode(err); code != cli.ExitConfigError {
		t.Errorf("exit code = %d, want %d", code, cli.ExitConfigError)
	}
}

func TestServeCommand_AddressInUse(t *testing.T) {
	busy, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer busy.Close()

	cfg := serveConfig(t)
	done := make(chan error, 1)
	go func() {
		_, err := execute(t, cfg, "serve", "--watch", "--listen", busy.Addr().String())
		done <- err
	}()

	select {
	case err := <-done:
		if err == nil {
			t.Fatal("serve on a busy address should fail")
		}
		if code := cli.ExitCode(err); code != cli.ExitFailure {
			t.Errorf("exit code = %d, want %d", code, cli.ExitFailure)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after the listener failed")
	}
}

func TestService_RunFixturesRecords(t *testing.T) {
	svc, err := newService(serveConfig(t))
	if err != nil {
		t.Fatalf("newService() error = %v", err)
	}
	defer svc.close()

	ctx := context.Background()
	if err := svc.runFixtures(ctx); err != nil {
		t.Fatalf("runFixtures() error = %v", err)
	}

	count, err := svc.store.Count(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("stored %d runs, want 1", count)
	}
}

func TestService_Run(t *testing.T) {
	cfg := serveConfig(t)
	svc, err := newService(cfg)
	if err != nil {
		t.Fatalf("newService() error = %v", err)
	}
	defer svc.close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.run(ctx) }()

	select {
	case <-svc.server.Ready():
	case err := <-done:
		t.Fatalf("run() returned early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not become ready")
	}

	for _, path := range []string{"/healthz", "/readyz", "/v1/classify?a=3&b=4&c=5", cfg.Metrics.Path} {
		resp, err := http.Get("http://" + svc.server.Addr() + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("GET %s status = %d, want 200", path, resp.StatusCode)
		}
	}

	// The initial run happens before the server starts.
	if n, _ := svc.store.Count(ctx); n != 1 {
		t.Errorf("stored %d runs after startup, want 1", n)
	}

	// Keep rewriting until the watcher, started in the background, sees it.
	deadline := time.Now().Add(5 * time.Second)
	for {
		if err := os.WriteFile(cfg.Fixtures.Path, []byte("2 2 2 equilateral triangle\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(50 * time.Millisecond)

		n, err := svc.store.Count(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if n >= 2 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("fixture change was not re-run")
		}
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("run() did not return after cancel")
	}
}

func TestNewService_TLSMissingCertificate(t *testing.T) {
	cfg := serveConfig(t)
	cfg.Fixtures.Watch = false
	cfg.Server.TLS.Enabled = true
	cfg.Server.TLS.CertFile = "/nonexistent/server.crt"
	cfg.Server.TLS.KeyFile = "/nonexistent/server.key"

	if _, err := newService(cfg); err == nil {
		t.Error("newService() should fail without the certificate files")
	}
}

package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/config"
)

type stubService struct {
	name     string
	startErr error
	stopped  bool
}

func (s *stubService) Name() string { return s.name }

func (s *stubService) Start(ctx context.Context) error {
	if s.startErr != nil {
		return s.startErr
	}
	<-ctx.Done()
	return nil
}

func (s *stubService) Stop(ctx context.Context) error {
	s.stopped = true
	return nil
}

func TestRunnerStopsAllServicesOnFailure(t *testing.T) {
	healthy := &stubService{name: "http"}
	errRedis := errors.New("redis unreachable")
	broken := &stubService{name: "worker", startErr: errRedis}
	runner := NewRunner(healthy, broken)
	closed := false
	runner.OnClose(func() error {
		closed = true
		return nil
	})

	err := runner.Run(context.Background(), time.Second, nil)
	if !errors.Is(err, errRedis) || err.Error() != "worker: redis unreachable" {
		t.Fatalf("expected start error, got %v", err)
	}
	if !healthy.stopped || !broken.stopped {
		t.Fatalf("all services must be stopped: http=%v worker=%v", healthy.stopped, broken.stopped)
	}
	if !closed {
		t.Fatalf("close hooks must run after services stop")
	}
}

func TestRunnerCanceledContextIsClean(t *testing.T) {
	svc := &stubService{name: "http"}
	runner := NewRunner(svc)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := runner.Run(ctx, time.Second, nil); err != nil {
		t.Fatalf("canceled context should exit cleanly, got %v", err)
	}
	if !svc.stopped {
		t.Fatalf("service must be stopped")
	}
}

func TestRunnerReportsStopFailures(t *testing.T) {
	runner := NewRunner(&stubService{name: "http"}, nil)
	runner.OnClose(func() error { return errors.New("db close failed") })
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := runner.Run(ctx, time.Second, nil); err == nil || err.Error() != "db close failed" {
		t.Fatalf("expected close error, got %v", err)
	}
}

func TestBuildRunnerRejectsNilConfig(t *testing.T) {
	if _, err := BuildRunner(nil, ModeAll, nil); err == nil {
		t.Fatalf("expected error for nil config")
	}
}

func TestParseMode(t *testing.T) {
	cases := map[string]string{"": ModeAll, " API ": ModeAPI, "worker": ModeWorker}
	for raw, want := range cases {
		got, err := ParseMode(raw)
		if err != nil || got != want {
			t.Fatalf("ParseMode(%q) = %q, %v", raw, got, err)
		}
	}
	if _, err := ParseMode("cron"); err == nil {
		t.Fatalf("unknown mode must be rejected")
	}
}

func TestNormalizeOptionsUsesServerShutdownTimeout(t *testing.T) {
	cfg := &config.Config{Server: config.ServerConfig{ShutdownTimeoutSeconds: 3}}
	opts := normalizeOptions(Options{Config: cfg})
	if opts.ShutdownTimeout != 3*time.Second || opts.Mode != ModeAll || opts.Logger == nil {
		t.Fatalf("unexpected options: %+v", opts)
	}
}

func TestNewHTTPServiceAppliesTimeouts(t *testing.T) {
	svc := NewHTTPService(config.ServerConfig{Host: "127.0.0.1", Port: "9090", WriteTimeoutSeconds: 45}, nil)
	if svc.Addr() != "127.0.0.1:9090" {
		t.Fatalf("unexpected addr: %s", svc.Addr())
	}
	if svc.server.WriteTimeout != 45*time.Second || svc.server.ReadTimeout != 15*time.Second {
		t.Fatalf("unexpected timeouts: write=%v read=%v", svc.server.WriteTimeout, svc.server.ReadTimeout)
	}
}

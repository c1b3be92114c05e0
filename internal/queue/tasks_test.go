package queue

import (
	"testing"
	"time"

	"github.com/nibinnizar1-ops/auroracadence-sub001/internal/config"
)

func TestOrderTimeoutCancelTaskPayload(t *testing.T) {
	task, err := NewOrderTimeoutCancelTask(OrderTimeoutCancelPayload{OrderID: 42})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if task.Type() != TaskOrderTimeoutCancel {
		t.Fatalf("unexpected task type: %s", task.Type())
	}
	payload, err := ParseOrderTimeoutCancelPayload(task)
	if err != nil {
		t.Fatalf("parse payload failed: %v", err)
	}
	if payload.OrderID != 42 {
		t.Fatalf("unexpected order id: %d", payload.OrderID)
	}
}

func TestDisabledClientIsNoop(t *testing.T) {
	client := NewClient(&config.QueueConfig{Enabled: false})
	if client.Enabled() {
		t.Fatalf("expected disabled client")
	}
	if err := client.EnqueueOrderTimeoutCancel(OrderTimeoutCancelPayload{OrderID: 1}, time.Minute); err != nil {
		t.Fatalf("disabled client should not fail: %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
}

func TestBuildServerConfigDefaults(t *testing.T) {
	opt, cfg := BuildServerConfig(&config.QueueConfig{Host: " redis ", Port: 6380, DB: 2})
	if opt.Addr != "redis:6380" || opt.DB != 2 {
		t.Fatalf("unexpected redis option: %+v", opt)
	}
	if cfg.Concurrency != 10 || cfg.Queues[DefaultQueue] != 1 {
		t.Fatalf("unexpected server config: %+v", cfg)
	}
}

package discovery

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestNewICMPSweeperTakesConfig(t *testing.T) {
	cfg := Config{
		PingTimeout: 750 * time.Millisecond,
		PingCount:   2,
		BatchSize:   10,
	}
	s := NewICMPSweeper(cfg, zap.NewNop())
	if s.pingTimeout != cfg.PingTimeout || s.pingCount != 2 || s.batchSize != 10 {
		t.Errorf("sweeper = %+v, want config values carried over", s)
	}
}

func TestSweepReturnsPromptlyWhenCancelled(t *testing.T) {
	s := NewICMPSweeper(DefaultConfig(), zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	hosts := []string{"192.0.2.1", "192.0.2.2", "192.0.2.3"}
	batches := make(chan []HostResult)

	start := time.Now()
	err := s.Sweep(ctx, hosts, batches)
	elapsed := time.Since(start)

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Sweep() error = %v, want context.Canceled", err)
	}
	if elapsed > 500*time.Millisecond {
		t.Errorf("Sweep() took %v after cancellation, want immediate return", elapsed)
	}
}

func TestSweepNoHosts(t *testing.T) {
	s := NewICMPSweeper(DefaultConfig(), zap.NewNop())

	batches := make(chan []HostResult, 1)
	if err := s.Sweep(context.Background(), nil, batches); err != nil {
		t.Fatalf("Sweep(no hosts) error: %v", err)
	}
	close(batches)
	if b, ok := <-batches; ok {
		t.Errorf("unexpected batch %v for empty host list", b)
	}
}

package discovery

import (
	"context"
	"runtime"
	"sync"
	"time"

	probing "github.com/prometheus-community/pro-bing"
	"go.uber.org/zap"
)

// HostResult holds the result of probing a single host.
type HostResult struct {
	IP  string
	RTT time.Duration
	TTL int // IP TTL from response (0 if unknown)
}

// ICMPSweeper probes host lists in fixed-size batches using ICMP echo.
// Batch size bounds the number of simultaneously in-flight probes; the
// sweeper never creates unbounded concurrency even for a full /16.
type ICMPSweeper struct {
	pingTimeout time.Duration
	pingCount   int
	batchSize   int
	logger      *zap.Logger
}

// NewICMPSweeper creates a sweeper from the module configuration.
func NewICMPSweeper(cfg Config, logger *zap.Logger) *ICMPSweeper {
	return &ICMPSweeper{
		pingTimeout: cfg.PingTimeout,
		pingCount:   cfg.PingCount,
		batchSize:   cfg.BatchSize,
		logger:      logger,
	}
}

// Sweep probes hosts in address order and sends one slice of responders per
// batch. Batches arrive in range order; within a batch, result order is
// whatever the probes produced. Hosts that time out or error are simply
// absent. The caller must close the batches channel after Sweep returns.
//
// Cancellation is checked between batches, and in-flight probes are stopped
// when the context ends, so Sweep returns promptly without waiting out the
// full per-host timeout.
func (s *ICMPSweeper) Sweep(ctx context.Context, hosts []string, batches chan<- []HostResult) error {
	s.logger.Info("starting ICMP sweep",
		zap.Int("hosts", len(hosts)),
		zap.Int("batch_size", s.batchSize),
		zap.Duration("ping_timeout", s.pingTimeout),
	)

	// Windows requires privileged (raw socket) mode.
	privileged := runtime.GOOS == "windows"

	for start := 0; start < len(hosts); start += s.batchSize {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		end := start + s.batchSize
		if end > len(hosts) {
			end = len(hosts)
		}
		batch := hosts[start:end]

		var (
			mu    sync.Mutex
			alive []HostResult
			wg    sync.WaitGroup
		)
		for _, ip := range batch {
			wg.Add(1)
			go func(ip string) {
				defer wg.Done()
				if r, ok := s.probe(ctx, ip, privileged); ok {
					mu.Lock()
					alive = append(alive, r)
					mu.Unlock()
				}
			}(ip)
		}
		wg.Wait()

		if len(alive) == 0 {
			continue
		}
		select {
		case batches <- alive:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return nil
}

// probe pings a single host and reports whether it responded.
func (s *ICMPSweeper) probe(ctx context.Context, ip string, privileged bool) (HostResult, bool) {
	pinger, err := probing.NewPinger(ip)
	if err != nil {
		s.logger.Debug("failed to create pinger", zap.String("ip", ip), zap.Error(err))
		return HostResult{}, false
	}

	pinger.Count = s.pingCount
	pinger.Timeout = s.pingTimeout
	pinger.SetPrivileged(privileged)

	// Capture TTL from the first received packet.
	var receivedTTL int
	pinger.OnRecv = func(pkt *probing.Packet) {
		if receivedTTL == 0 {
			receivedTTL = pkt.TTL
		}
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		if runErr := pinger.Run(); runErr != nil {
			s.logger.Debug("ping failed", zap.String("ip", ip), zap.Error(runErr))
		}
	}()

	select {
	case <-done:
	case <-ctx.Done():
		pinger.Stop()
		return HostResult{}, false
	}

	stats := pinger.Statistics()
	if stats.PacketsRecv == 0 {
		return HostResult{}, false
	}
	return HostResult{IP: ip, RTT: stats.AvgRtt, TTL: receivedTTL}, true
}

// Package discovery implements the local network discovery scanner module:
// ICMP sweeps over a CIDR range enriched with ARP, reverse DNS, and OUI
// vendor data, persisted per scan and streamed over the event bus.
package discovery

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/msptoolkit/netscout/pkg/plugin"
)

// Compile-time interface guards.
var (
	_ plugin.Plugin        = (*Module)(nil)
	_ plugin.HTTPProvider  = (*Module)(nil)
	_ plugin.HealthChecker = (*Module)(nil)
	_ plugin.Validator     = (*Module)(nil)
)

// Module is the discovery scanner module.
type Module struct {
	cfg      Config
	logger   *zap.Logger
	bus      plugin.EventBus
	scans    *ScanStore
	adapters *AdapterInventory
	orch     *Orchestrator

	// baseCtx outlives the Start context so running scans are bound to the
	// module lifetime, not the caller's startup context.
	baseCtx    context.Context
	baseCancel context.CancelFunc

	mu     sync.Mutex
	active map[string]context.CancelFunc
	wg     sync.WaitGroup
}

// New creates the discovery module. Collaborators are wired in Init.
func New() *Module {
	return &Module{
		active: make(map[string]context.CancelFunc),
	}
}

// Info returns the module metadata.
func (m *Module) Info() plugin.PluginInfo {
	return plugin.PluginInfo{
		Name:        "discovery",
		Version:     "0.2.0",
		Description: "Local network discovery scanner (ICMP sweep, ARP, reverse DNS, OUI vendor lookup)",
		Required:    true,
		Roles:       []string{"discovery"},
		APIVersion:  plugin.APIVersionCurrent,
	}
}

// Init wires the module's collaborators and applies schema migrations.
func (m *Module) Init(ctx context.Context, deps plugin.Dependencies) error {
	m.cfg = DefaultConfig()
	if err := deps.Config.Unmarshal(&m.cfg); err != nil {
		return fmt.Errorf("unmarshal discovery config: %w", err)
	}
	m.logger = deps.Logger
	m.bus = deps.Bus

	if err := deps.Store.Migrate(ctx, "discovery", migrations()); err != nil {
		return fmt.Errorf("apply discovery migrations: %w", err)
	}
	m.scans = NewScanStore(deps.Store)
	m.adapters = NewAdapterInventory(m.logger)

	m.orch = NewOrchestrator(
		m.cfg,
		NewICMPSweeper(m.cfg, m.logger),
		NewARPReader(m.logger),
		NewResolver(m.cfg.DNSTimeout, m.logger),
		NewOUITable(),
		m.scans,
		m.bus,
		m.logger,
	)
	return nil
}

// ValidateConfig rejects configurations that would stall or flood scans.
func (m *Module) ValidateConfig() error {
	if m.cfg.BatchSize < 1 {
		return fmt.Errorf("batch_size must be at least 1, got %d", m.cfg.BatchSize)
	}
	if m.cfg.BatchSize > 1024 {
		return fmt.Errorf("batch_size must be at most 1024, got %d", m.cfg.BatchSize)
	}
	if m.cfg.PingCount < 1 {
		return fmt.Errorf("ping_count must be at least 1, got %d", m.cfg.PingCount)
	}
	if m.cfg.PingTimeout <= 0 {
		return fmt.Errorf("ping_timeout must be positive, got %s", m.cfg.PingTimeout)
	}
	if m.cfg.DNSTimeout <= 0 {
		return fmt.Errorf("dns_timeout must be positive, got %s", m.cfg.DNSTimeout)
	}
	if m.cfg.ScanTimeout <= 0 {
		return fmt.Errorf("scan_timeout must be positive, got %s", m.cfg.ScanTimeout)
	}
	return nil
}

// Start prepares the module to accept scan requests.
func (m *Module) Start(_ context.Context) error {
	m.baseCtx, m.baseCancel = context.WithCancel(context.Background())
	m.logger.Info("discovery module started",
		zap.Duration("scan_timeout", m.cfg.ScanTimeout),
		zap.Int("batch_size", m.cfg.BatchSize),
	)
	return nil
}

// Stop cancels all running scans and waits for them to finish, bounded by
// the shutdown context.
func (m *Module) Stop(ctx context.Context) error {
	if m.baseCancel != nil {
		m.baseCancel()
	}

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("timed out waiting for running scans: %w", ctx.Err())
	}
}

// Health reports module health with the current scan count.
func (m *Module) Health(_ context.Context) plugin.HealthStatus {
	m.mu.Lock()
	running := len(m.active)
	m.mu.Unlock()

	return plugin.HealthStatus{
		Status: "healthy",
		Details: map[string]string{
			"active_scans": strconv.Itoa(running),
		},
	}
}

// launchScan starts a scan in the background under the module lifetime,
// registering its cancel func so DELETE /scans/{id} can stop it.
func (m *Module) launchScan(scanID, cidr string) {
	scanCtx, cancel := context.WithTimeout(m.baseCtx, m.cfg.ScanTimeout)

	m.mu.Lock()
	m.active[scanID] = cancel
	m.mu.Unlock()

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer cancel()
		defer func() {
			m.mu.Lock()
			delete(m.active, scanID)
			m.mu.Unlock()
		}()

		if _, err := m.orch.Run(scanCtx, scanID, cidr); err != nil {
			m.logger.Error("scan failed",
				zap.String("scan_id", scanID),
				zap.String("subnet", cidr),
				zap.Error(err),
			)
		}
	}()
}

// cancelScan stops a running scan. Returns false when no scan with that
// ID is currently active.
func (m *Module) cancelScan(scanID string) bool {
	m.mu.Lock()
	cancel, ok := m.active[scanID]
	m.mu.Unlock()
	if ok {
		cancel()
	}
	return ok
}

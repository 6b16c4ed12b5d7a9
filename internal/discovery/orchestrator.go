package discovery

import (
	"context"
	"errors"
	"net"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/msptoolkit/netscout/pkg/models"
	"github.com/msptoolkit/netscout/pkg/plugin"
)

// PingSweeper probes a host list and delivers responders in batches.
type PingSweeper interface {
	Sweep(ctx context.Context, hosts []string, batches chan<- []HostResult) error
}

// ARPTableReader returns the system's IP-to-MAC neighbor table.
type ARPTableReader interface {
	ReadTable(ctx context.Context) map[string]string
}

// HostnameResolver performs best-effort reverse DNS for an IP.
type HostnameResolver interface {
	Resolve(ctx context.Context, ip string) string
}

// VendorLookup maps a MAC address to its manufacturer.
type VendorLookup interface {
	Lookup(mac string) string
}

// Orchestrator drives a complete discovery scan: range validation, the
// ICMP sweep, ARP/vendor/hostname enrichment, persistence, and event
// publication. One Orchestrator serves many concurrent scans; all scan
// state is local to Run.
type Orchestrator struct {
	cfg      Config
	sweeper  PingSweeper
	arp      ARPTableReader
	resolver HostnameResolver
	vendors  VendorLookup
	scans    *ScanStore
	bus      plugin.EventBus
	logger   *zap.Logger
}

// NewOrchestrator assembles a scan orchestrator from its collaborators.
func NewOrchestrator(
	cfg Config,
	sweeper PingSweeper,
	arp ARPTableReader,
	resolver HostnameResolver,
	vendors VendorLookup,
	scans *ScanStore,
	bus plugin.EventBus,
	logger *zap.Logger,
) *Orchestrator {
	return &Orchestrator{
		cfg:      cfg,
		sweeper:  sweeper,
		arp:      arp,
		resolver: resolver,
		vendors:  vendors,
		scans:    scans,
		bus:      bus,
		logger:   logger,
	}
}

// Run executes a scan over the given CIDR block and returns the final
// scan record. Validation failures return before any network I/O. A
// cancelled scan is not an error: the record carries status "cancelled"
// and whatever devices were found before cancellation.
func (o *Orchestrator) Run(ctx context.Context, scanID, cidr string) (*models.ScanResult, error) {
	rng, err := ParseCIDRRange(cidr)
	if err != nil {
		return nil, err
	}
	if err := rng.CheckScanSize(); err != nil {
		return nil, err
	}

	hosts := rng.Hosts()
	started := time.Now().UTC()

	scan := &models.ScanResult{
		ID:        scanID,
		Subnet:    rng.String(),
		StartedAt: started.Format(time.RFC3339),
		Status:    models.ScanStatusRunning,
		Total:     len(hosts),
	}
	if err := o.scans.CreateScan(ctx, *scan); err != nil {
		return nil, err
	}

	activeScans.Inc()
	defer activeScans.Dec()

	o.logger.Info("scan started",
		zap.String("scan_id", scanID),
		zap.String("subnet", scan.Subnet),
		zap.Int("hosts", len(hosts)),
	)
	o.publish(ctx, TopicScanStarted, ScanStartedPayload{
		ScanID: scanID,
		Subnet: scan.Subnet,
		Hosts:  len(hosts),
	})

	// The neighbor table is read once up front: reading it per-host would
	// hammer the OS, and entries learned during the sweep are picked up by
	// the ARP-only pass below.
	var arpTable map[string]string
	if o.cfg.ARPEnabled {
		arpTable = o.arp.ReadTable(ctx)
	}

	batches := make(chan []HostResult, 4)
	sweepDone := make(chan error, 1)
	go func() {
		sweepDone <- o.sweeper.Sweep(ctx, hosts, batches)
		close(batches)
	}()

	seen := make(map[string]bool)
	var devices []models.Device
	scanned := 0
	for batch := range batches {
		for _, hr := range batch {
			d := o.enrich(ctx, hr, arpTable)
			seen[d.IPAddress] = true
			devices = append(devices, d)
			o.recordDevice(ctx, scanID, d)
		}
		scanned += o.cfg.BatchSize
		if scanned > len(hosts) {
			scanned = len(hosts)
		}
		o.publish(ctx, TopicScanProgress, ScanProgressPayload{
			ScanID:  scanID,
			Scanned: scanned,
			Total:   len(hosts),
			Online:  len(devices),
		})
	}
	sweepErr := <-sweepDone

	// Hosts that never answered ICMP but appear in the neighbor table are
	// still live (firewalled Windows boxes, IoT devices). Report them with
	// the arp discovery method so callers can tell the evidence apart.
	if sweepErr == nil && o.cfg.ARPEnabled && o.cfg.IncludeARPOnly {
		for _, ip := range sortedARPOnly(arpTable, seen, rng) {
			d := o.enrichARPOnly(ctx, ip, arpTable[ip])
			devices = append(devices, d)
			o.recordDevice(ctx, scanID, d)
		}
	}

	ended := time.Now().UTC()
	status := models.ScanStatusCompleted
	switch {
	case errors.Is(sweepErr, context.Canceled), errors.Is(sweepErr, context.DeadlineExceeded):
		status = models.ScanStatusCancelled
	case sweepErr != nil:
		status = models.ScanStatusFailed
	}

	scan.EndedAt = ended.Format(time.RFC3339)
	scan.Status = status
	scan.Devices = devices
	scan.Online = len(devices)

	// Finalization must succeed even when the scan context is already
	// cancelled, so it runs on a fresh short-lived context.
	finCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := o.scans.FinishScan(finCtx, scanID, status, scan.EndedAt, scan.Online); err != nil {
		o.logger.Error("failed to finalize scan record",
			zap.String("scan_id", scanID), zap.Error(err))
	}

	scansTotal.WithLabelValues(status).Inc()
	scanDuration.Observe(ended.Sub(started).Seconds())

	o.publish(finCtx, TopicScanCompleted, ScanCompletedPayload{
		ScanID:     scanID,
		Subnet:     scan.Subnet,
		Status:     status,
		Total:      scan.Total,
		Online:     scan.Online,
		DurationMs: ended.Sub(started).Milliseconds(),
	})
	o.logger.Info("scan finished",
		zap.String("scan_id", scanID),
		zap.String("status", status),
		zap.Int("online", scan.Online),
		zap.Duration("duration", ended.Sub(started)),
	)

	if status == models.ScanStatusFailed {
		return scan, sweepErr
	}
	return scan, nil
}

// enrich builds a device snapshot from an ICMP responder, attaching MAC,
// vendor, and hostname where available. Enrichment is best-effort: a
// missing ARP entry or failed lookup never drops the device.
func (o *Orchestrator) enrich(ctx context.Context, hr HostResult, arpTable map[string]string) models.Device {
	d := models.Device{
		IPAddress:       hr.IP,
		Online:          true,
		ResponseTimeMs:  int(hr.RTT.Milliseconds()),
		DiscoveryMethod: models.DiscoveryICMP,
		Status:          models.DeviceStatusOnline,
	}
	if mac, ok := arpTable[hr.IP]; ok {
		d.MACAddress = mac
		d.Manufacturer = o.vendors.Lookup(mac)
	}
	d.Hostname = o.resolver.Resolve(ctx, hr.IP)
	return d
}

// enrichARPOnly builds a snapshot for a host known only from the neighbor
// table. No ICMP response means no measured latency.
func (o *Orchestrator) enrichARPOnly(ctx context.Context, ip, mac string) models.Device {
	return models.Device{
		IPAddress:       ip,
		Online:          true,
		MACAddress:      mac,
		Manufacturer:    o.vendors.Lookup(mac),
		Hostname:        o.resolver.Resolve(ctx, ip),
		DiscoveryMethod: models.DiscoveryARP,
		Status:          models.DeviceStatusOnline,
	}
}

// recordDevice persists and announces a device. Persistence failures are
// logged and swallowed: losing one row must not abort a running scan.
func (o *Orchestrator) recordDevice(ctx context.Context, scanID string, d models.Device) {
	if err := o.scans.AddDevice(ctx, scanID, d); err != nil {
		o.logger.Warn("failed to persist device",
			zap.String("scan_id", scanID),
			zap.String("ip", d.IPAddress),
			zap.Error(err),
		)
	}
	devicesFoundTotal.WithLabelValues(string(d.DiscoveryMethod)).Inc()
	o.publish(ctx, TopicDeviceFound, DeviceFoundPayload{ScanID: scanID, Device: d})
}

func (o *Orchestrator) publish(ctx context.Context, topic string, payload any) {
	o.bus.PublishAsync(ctx, plugin.Event{
		Topic:     topic,
		Source:    "discovery",
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	})
}

// sortedARPOnly returns neighbor-table IPs inside the scanned range that
// the sweep did not already report, in ascending address order so output
// is deterministic regardless of map iteration.
func sortedARPOnly(arpTable map[string]string, seen map[string]bool, rng *HostRange) []string {
	var ips []string
	for ip := range arpTable {
		if seen[ip] || !rng.Contains(ip) {
			continue
		}
		ips = append(ips, ip)
	}
	sort.Slice(ips, func(i, j int) bool {
		a := net.ParseIP(ips[i]).To4()
		b := net.ParseIP(ips[j]).To4()
		return ipToUint32(a) < ipToUint32(b)
	})
	return ips
}

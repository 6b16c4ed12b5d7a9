package discovery

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/msptoolkit/netscout/pkg/models"
	"github.com/msptoolkit/netscout/pkg/plugin"
)

// ErrScanNotFound is returned when a scan ID does not exist in the store.
var ErrScanNotFound = errors.New("scan not found")

// ScanStore persists scan lifecycle records and per-scan device snapshots.
// Devices are append-only: a rescan creates a new scan row with fresh
// snapshots instead of mutating old ones.
type ScanStore struct {
	store plugin.Store
}

// NewScanStore wraps the shared store with scan persistence operations.
func NewScanStore(store plugin.Store) *ScanStore {
	return &ScanStore{store: store}
}

// CreateScan inserts a new scan record in the running state.
func (s *ScanStore) CreateScan(ctx context.Context, scan models.ScanResult) error {
	_, err := s.store.DB().ExecContext(ctx, `
		INSERT INTO scans (id, subnet, started_at, status, total, online)
		VALUES (?, ?, ?, ?, ?, 0)`,
		scan.ID, scan.Subnet, scan.StartedAt, scan.Status, scan.Total,
	)
	if err != nil {
		return fmt.Errorf("create scan %s: %w", scan.ID, err)
	}
	return nil
}

// FinishScan marks a scan as reaching a terminal state and records counts.
func (s *ScanStore) FinishScan(ctx context.Context, id, status, endedAt string, online int) error {
	res, err := s.store.DB().ExecContext(ctx, `
		UPDATE scans SET status = ?, ended_at = ?, online = ? WHERE id = ?`,
		status, endedAt, online, id,
	)
	if err != nil {
		return fmt.Errorf("finish scan %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrScanNotFound
	}
	return nil
}

// AddDevice appends a device snapshot to a scan.
func (s *ScanStore) AddDevice(ctx context.Context, scanID string, d models.Device) error {
	_, err := s.store.DB().ExecContext(ctx, `
		INSERT INTO scan_devices
			(scan_id, ip_address, hostname, mac_address, manufacturer,
			 response_time_ms, discovery_method, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		scanID, d.IPAddress, d.Hostname, d.MACAddress, d.Manufacturer,
		d.ResponseTimeMs, d.DiscoveryMethod, d.Status,
	)
	if err != nil {
		return fmt.Errorf("add device %s to scan %s: %w", d.IPAddress, scanID, err)
	}
	return nil
}

// GetScan returns a scan record without its devices.
func (s *ScanStore) GetScan(ctx context.Context, id string) (*models.ScanResult, error) {
	row := s.store.DB().QueryRowContext(ctx, `
		SELECT id, subnet, started_at, COALESCE(ended_at, ''), status, total, online
		FROM scans WHERE id = ?`, id)

	var scan models.ScanResult
	err := row.Scan(&scan.ID, &scan.Subnet, &scan.StartedAt, &scan.EndedAt,
		&scan.Status, &scan.Total, &scan.Online)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrScanNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get scan %s: %w", id, err)
	}
	return &scan, nil
}

// ListScans returns the most recent scans, newest first.
func (s *ScanStore) ListScans(ctx context.Context, limit int) ([]models.ScanResult, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.store.DB().QueryContext(ctx, `
		SELECT id, subnet, started_at, COALESCE(ended_at, ''), status, total, online
		FROM scans ORDER BY started_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list scans: %w", err)
	}
	defer rows.Close()

	scans := make([]models.ScanResult, 0, limit)
	for rows.Next() {
		var scan models.ScanResult
		if err := rows.Scan(&scan.ID, &scan.Subnet, &scan.StartedAt, &scan.EndedAt,
			&scan.Status, &scan.Total, &scan.Online); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		scans = append(scans, scan)
	}
	return scans, rows.Err()
}

// ListDevices returns all device snapshots for a scan in insertion order,
// which is the order devices were discovered.
func (s *ScanStore) ListDevices(ctx context.Context, scanID string) ([]models.Device, error) {
	if _, err := s.GetScan(ctx, scanID); err != nil {
		return nil, err
	}

	rows, err := s.store.DB().QueryContext(ctx, `
		SELECT ip_address, hostname, mac_address, manufacturer,
		       response_time_ms, discovery_method, status
		FROM scan_devices WHERE scan_id = ? ORDER BY id`, scanID)
	if err != nil {
		return nil, fmt.Errorf("list devices for scan %s: %w", scanID, err)
	}
	defer rows.Close()

	var devices []models.Device
	for rows.Next() {
		var d models.Device
		if err := rows.Scan(&d.IPAddress, &d.Hostname, &d.MACAddress, &d.Manufacturer,
			&d.ResponseTimeMs, &d.DiscoveryMethod, &d.Status); err != nil {
			return nil, fmt.Errorf("device row: %w", err)
		}
		d.Online = d.Status == models.DeviceStatusOnline
		devices = append(devices, d)
	}
	return devices, rows.Err()
}

// DeleteScan removes a scan and (via foreign key cascade) its devices.
func (s *ScanStore) DeleteScan(ctx context.Context, id string) error {
	res, err := s.store.DB().ExecContext(ctx, `DELETE FROM scans WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete scan %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrScanNotFound
	}
	return nil
}

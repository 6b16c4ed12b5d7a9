package discovery

import "github.com/msptoolkit/netscout/pkg/models"

// Event topics published by the discovery module. Other modules and the
// WebSocket stream subscribe to these to follow scan progress live.
const (
	TopicScanStarted   = "discovery.scan.started"
	TopicScanProgress  = "discovery.scan.progress"
	TopicScanCompleted = "discovery.scan.completed"
	TopicDeviceFound   = "discovery.device.found"
)

// ScanStartedPayload is published once when a scan begins probing.
type ScanStartedPayload struct {
	ScanID string `json:"scan_id"`
	Subnet string `json:"subnet"`
	Hosts  int    `json:"hosts"`
}

// ScanProgressPayload is published after each completed probe batch.
type ScanProgressPayload struct {
	ScanID  string `json:"scan_id"`
	Scanned int    `json:"scanned"`
	Total   int    `json:"total"`
	Online  int    `json:"online"`
}

// ScanCompletedPayload is published once when a scan reaches a terminal
// state (completed, cancelled, or failed).
type ScanCompletedPayload struct {
	ScanID     string `json:"scan_id"`
	Subnet     string `json:"subnet"`
	Status     string `json:"status"`
	Total      int    `json:"total"`
	Online     int    `json:"online"`
	DurationMs int64  `json:"duration_ms"`
}

// DeviceFoundPayload is published for every responding device.
type DeviceFoundPayload struct {
	ScanID string        `json:"scan_id"`
	Device models.Device `json:"device"`
}

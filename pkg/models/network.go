package models

// Adapter is a read-only snapshot of a local network interface,
// refreshed on demand.
type Adapter struct {
	Name       string   `json:"name" example:"eth0"`
	Index      int      `json:"index"`
	Type       string   `json:"type" example:"ethernet"`
	MTU        int      `json:"mtu" example:"1500"`
	MACAddress string   `json:"mac_address,omitempty" example:"00:1A:2B:3C:4D:5E"`
	Addresses  []string `json:"addresses"` // CIDR form, e.g. "192.168.1.10/24"
	IsUp       bool     `json:"is_up"`
	IsLoopback bool     `json:"is_loopback"`
}

// ScanResult holds the lifecycle record of a discovery scan.
type ScanResult struct {
	ID        string   `json:"id" example:"a1b2c3d4-e5f6-7890-abcd-ef1234567890"`
	Subnet    string   `json:"subnet" example:"192.168.1.0/24"`
	StartedAt string   `json:"started_at" example:"2026-08-25T10:30:00Z"`
	EndedAt   string   `json:"ended_at,omitempty" example:"2026-08-25T10:32:15Z"`
	Status    string   `json:"status" example:"completed"`
	Devices   []Device `json:"devices,omitempty"`
	Total     int      `json:"total" example:"254"`
	Online    int      `json:"online" example:"12"`
}

// Scan status values stored in ScanResult.Status.
const (
	ScanStatusRunning   = "running"
	ScanStatusCompleted = "completed"
	ScanStatusCancelled = "cancelled"
	ScanStatusFailed    = "failed"
)

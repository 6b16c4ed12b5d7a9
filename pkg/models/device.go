package models

// DeviceStatus represents the reachability state of a device at scan time.
type DeviceStatus string

const (
	DeviceStatusOnline  DeviceStatus = "online"
	DeviceStatusOffline DeviceStatus = "offline"
	DeviceStatusUnknown DeviceStatus = "unknown"
)

// DiscoveryMethod indicates how a device was discovered.
type DiscoveryMethod string

const (
	DiscoveryICMP DiscoveryMethod = "icmp"
	DiscoveryARP  DiscoveryMethod = "arp"
)

// HostnameUnknown is the sentinel rendered when reverse DNS yields nothing.
const HostnameUnknown = "unknown"

// ManufacturerUnknown is the sentinel returned for unrecognized OUI prefixes.
const ManufacturerUnknown = "Unknown"

// Device is a point-in-time snapshot of a responding host, produced once
// per scanned address. Records are immutable after emission; a rescan
// produces fresh snapshots rather than mutating old ones.
type Device struct {
	IPAddress       string          `json:"ip_address" example:"192.168.1.42"`
	Online          bool            `json:"online" example:"true"`
	ResponseTimeMs  int             `json:"response_time_ms" example:"3"`
	MACAddress      string          `json:"mac_address,omitempty" example:"00:1A:2B:3C:4D:5E"`
	Manufacturer    string          `json:"manufacturer,omitempty" example:"Dell Inc."`
	Hostname        string          `json:"hostname,omitempty" example:"web-server-01"`
	DiscoveryMethod DiscoveryMethod `json:"discovery_method" example:"icmp"`
	Status          DeviceStatus    `json:"status" example:"online"`
}

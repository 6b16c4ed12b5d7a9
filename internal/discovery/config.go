package discovery

import "time"

// Config holds the discovery module configuration.
type Config struct {
	ScanTimeout    time.Duration `mapstructure:"scan_timeout"`
	PingTimeout    time.Duration `mapstructure:"ping_timeout"`
	PingCount      int           `mapstructure:"ping_count"`
	BatchSize      int           `mapstructure:"batch_size"`
	DNSTimeout     time.Duration `mapstructure:"dns_timeout"`
	ARPEnabled     bool          `mapstructure:"arp_enabled"`
	IncludeARPOnly bool          `mapstructure:"include_arp_only"`
}

// DefaultConfig returns the default configuration for the discovery module.
func DefaultConfig() Config {
	return Config{
		ScanTimeout:    5 * time.Minute,
		PingTimeout:    1500 * time.Millisecond,
		PingCount:      1,
		BatchSize:      25,
		DNSTimeout:     2 * time.Second,
		ARPEnabled:     true,
		IncludeARPOnly: true,
	}
}

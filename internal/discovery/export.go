package discovery

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/msptoolkit/netscout/pkg/models"
)

// csvHeader is the fixed column order for scan exports.
var csvHeader = []string{"ip", "hostname", "mac", "vendor", "status", "latency_ms", "discovered_via"}

// WriteCSV renders device snapshots as CSV, one row per device, preceded
// by a header row. Empty hostnames are rendered as "unknown" to match the
// API's display convention.
func WriteCSV(w io.Writer, devices []models.Device) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, d := range devices {
		hostname := d.Hostname
		if hostname == "" {
			hostname = models.HostnameUnknown
		}
		record := []string{
			d.IPAddress,
			hostname,
			d.MACAddress,
			d.Manufacturer,
			string(d.Status),
			strconv.Itoa(d.ResponseTimeMs),
			string(d.DiscoveryMethod),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row for %s: %w", d.IPAddress, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

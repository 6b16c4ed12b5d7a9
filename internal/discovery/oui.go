package discovery

import (
	"strings"

	"github.com/msptoolkit/netscout/pkg/models"
)

// OUITable maps MAC address prefixes (first three octets) to manufacturer
// names. The table is built once at construction and never mutated, so
// Lookup is safe for concurrent use and fully deterministic.
type OUITable struct {
	vendors map[string]string
}

// NewOUITable builds the lookup table from the bundled vendor data.
func NewOUITable() *OUITable {
	return &OUITable{vendors: ouiVendors}
}

// Lookup returns the manufacturer for a MAC address, or "Unknown" for
// unrecognized prefixes and malformed input.
func (t *OUITable) Lookup(mac string) string {
	prefix := normalizeMAC(mac)
	if prefix == "" {
		return models.ManufacturerUnknown
	}
	if vendor, ok := t.vendors[prefix]; ok {
		return vendor
	}
	return models.ManufacturerUnknown
}

// normalizeMAC extracts the OUI prefix as "AA:BB:CC". Accepts colon,
// dash, and dot separators. Returns "" for anything that does not look
// like a MAC address.
func normalizeMAC(mac string) string {
	cleaned := strings.ToUpper(mac)
	cleaned = strings.NewReplacer("-", "", ":", "", ".", "").Replace(cleaned)
	if len(cleaned) < 6 {
		return ""
	}
	for _, c := range cleaned[:6] {
		if (c < '0' || c > '9') && (c < 'A' || c > 'F') {
			return ""
		}
	}
	return cleaned[0:2] + ":" + cleaned[2:4] + ":" + cleaned[4:6]
}

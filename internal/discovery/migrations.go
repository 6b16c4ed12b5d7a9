package discovery

import (
	"database/sql"

	"github.com/msptoolkit/netscout/pkg/plugin"
)

// migrations returns the discovery module's schema migrations, applied by
// the shared store in ascending version order.
func migrations() []plugin.Migration {
	return []plugin.Migration{
		{
			Version:     1,
			Description: "create scans table",
			Up: func(tx *sql.Tx) error {
				_, err := tx.Exec(`
					CREATE TABLE IF NOT EXISTS scans (
						id         TEXT PRIMARY KEY,
						subnet     TEXT NOT NULL,
						started_at TEXT NOT NULL,
						ended_at   TEXT,
						status     TEXT NOT NULL,
						total      INTEGER NOT NULL DEFAULT 0,
						online     INTEGER NOT NULL DEFAULT 0
					)
				`)
				return err
			},
		},
		{
			Version:     2,
			Description: "create scan_devices table",
			Up: func(tx *sql.Tx) error {
				_, err := tx.Exec(`
					CREATE TABLE IF NOT EXISTS scan_devices (
						id               INTEGER PRIMARY KEY AUTOINCREMENT,
						scan_id          TEXT NOT NULL REFERENCES scans(id) ON DELETE CASCADE,
						ip_address       TEXT NOT NULL,
						hostname         TEXT NOT NULL DEFAULT '',
						mac_address      TEXT NOT NULL DEFAULT '',
						manufacturer     TEXT NOT NULL DEFAULT '',
						response_time_ms INTEGER NOT NULL DEFAULT 0,
						discovery_method TEXT NOT NULL,
						status           TEXT NOT NULL
					)
				`)
				return err
			},
		},
		{
			Version:     3,
			Description: "index scan_devices by scan",
			Up: func(tx *sql.Tx) error {
				_, err := tx.Exec(`
					CREATE INDEX IF NOT EXISTS idx_scan_devices_scan_id
					ON scan_devices(scan_id)
				`)
				return err
			},
		},
	}
}

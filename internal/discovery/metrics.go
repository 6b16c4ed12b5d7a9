package discovery

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	scansTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "netscout_discovery_scans_total",
			Help: "Total discovery scans by terminal status.",
		},
		[]string{"status"},
	)

	devicesFoundTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "netscout_discovery_devices_found_total",
			Help: "Total devices discovered, by discovery method.",
		},
		[]string{"method"},
	)

	scanDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "netscout_discovery_scan_duration_seconds",
			Help:    "Wall-clock duration of discovery scans.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10), // 1s .. ~17m
		},
	)

	activeScans = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "netscout_discovery_active_scans",
			Help: "Number of scans currently running.",
		},
	)
)

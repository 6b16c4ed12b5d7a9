package discovery

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/msptoolkit/netscout/internal/server"
	"github.com/msptoolkit/netscout/pkg/models"
	"github.com/msptoolkit/netscout/pkg/plugin"
)

// Routes returns the module's HTTP routes, mounted under /api/v1/discovery/.
func (m *Module) Routes() []plugin.Route {
	return []plugin.Route{
		{Method: http.MethodPost, Path: "/scan", Handler: m.handleStartScan},
		{Method: http.MethodGet, Path: "/scans", Handler: m.handleListScans},
		{Method: http.MethodGet, Path: "/scans/{id}", Handler: m.handleGetScan},
		{Method: http.MethodGet, Path: "/scans/{id}/devices", Handler: m.handleListDevices},
		{Method: http.MethodGet, Path: "/scans/{id}/export", Handler: m.handleExportScan},
		{Method: http.MethodDelete, Path: "/scans/{id}", Handler: m.handleDeleteScan},
		{Method: http.MethodGet, Path: "/adapters", Handler: m.handleListAdapters},
	}
}

// ScanRequest is the body for POST /api/v1/discovery/scan. Either Subnet
// (CIDR notation) or BaseIP+Prefix must be provided.
type ScanRequest struct {
	Subnet string `json:"subnet,omitempty" example:"192.168.1.0/24"`
	BaseIP string `json:"base_ip,omitempty" example:"192.168.1.0"`
	Prefix int    `json:"prefix,omitempty" example:"24"`
}

// ScanAccepted is the 202 response for POST /api/v1/discovery/scan.
type ScanAccepted struct {
	ID     string `json:"id"`
	Subnet string `json:"subnet"`
	Status string `json:"status" example:"running"`
	Hosts  int    `json:"hosts"`
}

// handleStartScan validates the requested range and launches a scan in
// the background, responding 202 with the scan ID.
func (m *Module) handleStartScan(w http.ResponseWriter, r *http.Request) {
	var req ScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		server.BadRequest(w, "invalid JSON body: "+err.Error(), r.URL.Path)
		return
	}

	var (
		rng *HostRange
		err error
	)
	switch {
	case req.Subnet != "":
		rng, err = ParseCIDRRange(req.Subnet)
	case req.BaseIP != "":
		rng, err = ParseHostRange(req.BaseIP, req.Prefix)
	default:
		server.BadRequest(w, "either subnet or base_ip+prefix is required", r.URL.Path)
		return
	}
	if err != nil {
		server.BadRequest(w, err.Error(), r.URL.Path)
		return
	}
	if err := rng.CheckScanSize(); err != nil {
		server.BadRequest(w, err.Error(), r.URL.Path)
		return
	}

	scanID := uuid.NewString()
	m.launchScan(scanID, rng.String())

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Location", fmt.Sprintf("/api/v1/discovery/scans/%s", scanID))
	w.WriteHeader(http.StatusAccepted)
	_ = json.NewEncoder(w).Encode(ScanAccepted{
		ID:     scanID,
		Subnet: rng.String(),
		Status: models.ScanStatusRunning,
		Hosts:  rng.HostCount(),
	})
}

// handleListScans returns recent scans, newest first. Supports ?limit=N.
func (m *Module) handleListScans(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 500 {
			server.BadRequest(w, "limit must be an integer between 1 and 500", r.URL.Path)
			return
		}
		limit = n
	}

	scans, err := m.scans.ListScans(r.Context(), limit)
	if err != nil {
		m.logger.Error("failed to list scans", zap.Error(err))
		server.InternalError(w, "failed to list scans", r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, scans)
}

// handleGetScan returns a single scan record without its devices.
func (m *Module) handleGetScan(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	scan, err := m.scans.GetScan(r.Context(), id)
	if errors.Is(err, ErrScanNotFound) {
		server.NotFound(w, fmt.Sprintf("scan %q not found", id), r.URL.Path)
		return
	}
	if err != nil {
		m.logger.Error("failed to get scan", zap.String("scan_id", id), zap.Error(err))
		server.InternalError(w, "failed to get scan", r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, scan)
}

// handleListDevices returns all device snapshots for a scan.
func (m *Module) handleListDevices(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	devices, err := m.scans.ListDevices(r.Context(), id)
	if errors.Is(err, ErrScanNotFound) {
		server.NotFound(w, fmt.Sprintf("scan %q not found", id), r.URL.Path)
		return
	}
	if err != nil {
		m.logger.Error("failed to list devices", zap.String("scan_id", id), zap.Error(err))
		server.InternalError(w, "failed to list devices", r.URL.Path)
		return
	}
	if devices == nil {
		devices = []models.Device{}
	}
	writeJSON(w, http.StatusOK, devices)
}

// handleExportScan streams a scan's devices as a CSV download.
func (m *Module) handleExportScan(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	devices, err := m.scans.ListDevices(r.Context(), id)
	if errors.Is(err, ErrScanNotFound) {
		server.NotFound(w, fmt.Sprintf("scan %q not found", id), r.URL.Path)
		return
	}
	if err != nil {
		m.logger.Error("failed to export scan", zap.String("scan_id", id), zap.Error(err))
		server.InternalError(w, "failed to export scan", r.URL.Path)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="netscout-scan-%s.csv"`, id))
	if err := WriteCSV(w, devices); err != nil {
		// Headers are already sent; all we can do is log.
		m.logger.Error("failed to write CSV export",
			zap.String("scan_id", id), zap.Error(err))
	}
}

// handleDeleteScan cancels a running scan, or deletes a finished scan's
// stored record.
func (m *Module) handleDeleteScan(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if m.cancelScan(id) {
		writeJSON(w, http.StatusAccepted, map[string]string{
			"id":     id,
			"status": "cancelling",
		})
		return
	}

	err := m.scans.DeleteScan(r.Context(), id)
	if errors.Is(err, ErrScanNotFound) {
		server.NotFound(w, fmt.Sprintf("scan %q not found", id), r.URL.Path)
		return
	}
	if err != nil {
		m.logger.Error("failed to delete scan", zap.String("scan_id", id), zap.Error(err))
		server.InternalError(w, "failed to delete scan", r.URL.Path)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleListAdapters returns the local network adapters. Loopback and
// down interfaces are excluded unless ?all=true.
func (m *Module) handleListAdapters(w http.ResponseWriter, r *http.Request) {
	adapters, err := m.adapters.List(r.Context())
	if err != nil {
		m.logger.Error("failed to list adapters", zap.Error(err))
		server.InternalError(w, "failed to list network adapters", r.URL.Path)
		return
	}

	if r.URL.Query().Get("all") != "true" {
		filtered := make([]models.Adapter, 0, len(adapters))
		for _, a := range adapters {
			if a.IsUp && !a.IsLoopback {
				filtered = append(filtered, a)
			}
		}
		adapters = filtered
	}
	writeJSON(w, http.StatusOK, adapters)
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

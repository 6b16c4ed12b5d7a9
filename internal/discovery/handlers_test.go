package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gnet "github.com/shirou/gopsutil/v3/net"
	"go.uber.org/zap"

	"github.com/msptoolkit/netscout/pkg/models"
)

// newTestModule builds a module with fake network collaborators and a mux
// with routes mounted the way the server mounts them.
func newTestModule(t *testing.T, sw PingSweeper) (*Module, http.Handler) {
	t.Helper()

	m := New()
	m.cfg = DefaultConfig()
	m.logger = zap.NewNop()
	bus := &recordingBus{}
	m.bus = bus
	m.scans = newTestScanStore(t)
	m.adapters = &AdapterInventory{
		logger: zap.NewNop(),
		interfaces: func(context.Context) (gnet.InterfaceStatList, error) {
			return gnet.InterfaceStatList{
				{Index: 1, Name: "lo", Flags: []string{"up", "loopback"}},
				{Index: 2, Name: "eth0", Flags: []string{"up", "broadcast"},
					Addrs: []gnet.InterfaceAddr{{Addr: "192.168.1.10/24"}}},
				{Index: 3, Name: "eth1", Flags: []string{"broadcast"}},
			}, nil
		},
	}
	m.orch = NewOrchestrator(m.cfg, sw, &fakeARP{}, &fakeResolver{}, NewOUITable(),
		m.scans, bus, zap.NewNop())
	m.baseCtx, m.baseCancel = context.WithCancel(context.Background())
	t.Cleanup(m.baseCancel)

	mux := http.NewServeMux()
	for _, rt := range m.Routes() {
		mux.HandleFunc(fmt.Sprintf("%s /api/v1/discovery%s", rt.Method, rt.Path), rt.Handler)
	}
	return m, mux
}

func TestStartScanAccepted(t *testing.T) {
	sw := &fakeSweeper{batches: [][]HostResult{{{IP: "192.168.1.1", RTT: 2 * time.Millisecond}}}}
	m, mux := newTestModule(t, sw)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/discovery/scan",
		strings.NewReader(`{"subnet":"192.168.1.0/29"}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202: %s", rec.Code, rec.Body.String())
	}
	var accepted ScanAccepted
	if err := json.Unmarshal(rec.Body.Bytes(), &accepted); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if accepted.ID == "" || accepted.Status != models.ScanStatusRunning || accepted.Hosts != 6 {
		t.Errorf("response = %+v", accepted)
	}
	if loc := rec.Header().Get("Location"); loc != "/api/v1/discovery/scans/"+accepted.ID {
		t.Errorf("Location = %q", loc)
	}

	// The scan runs in the background; wait for it, then it must be
	// visible as completed.
	m.wg.Wait()

	req = httptest.NewRequest(http.MethodGet, "/api/v1/discovery/scans/"+accepted.ID, nil)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET scan status = %d: %s", rec.Code, rec.Body.String())
	}
	var scan models.ScanResult
	if err := json.Unmarshal(rec.Body.Bytes(), &scan); err != nil {
		t.Fatalf("decode scan: %v", err)
	}
	if scan.Status != models.ScanStatusCompleted || scan.Online != 1 {
		t.Errorf("scan = %+v, want completed with 1 online", scan)
	}
}

func TestStartScanWithBaseIPAndPrefix(t *testing.T) {
	m, mux := newTestModule(t, &fakeSweeper{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/discovery/scan",
		strings.NewReader(`{"base_ip":"10.1.2.3","prefix":24}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202: %s", rec.Code, rec.Body.String())
	}
	var accepted ScanAccepted
	if err := json.Unmarshal(rec.Body.Bytes(), &accepted); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if accepted.Subnet != "10.1.2.0/24" {
		t.Errorf("Subnet = %q, want normalized 10.1.2.0/24", accepted.Subnet)
	}
	m.wg.Wait()
}

func TestStartScanRejectsBadInput(t *testing.T) {
	_, mux := newTestModule(t, &fakeSweeper{})

	tests := []struct {
		name string
		body string
	}{
		{"invalid_json", `{`},
		{"missing_fields", `{}`},
		{"garbage_subnet", `{"subnet":"not-a-subnet"}`},
		{"prefix_31", `{"base_ip":"192.168.1.0","prefix":31}`},
		{"too_large", `{"subnet":"10.0.0.0/8"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/discovery/scan",
				strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400: %s", rec.Code, rec.Body.String())
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/problem+json" {
				t.Errorf("Content-Type = %q, want problem+json", ct)
			}
		})
	}
}

func TestGetScanNotFound(t *testing.T) {
	_, mux := newTestModule(t, &fakeSweeper{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/discovery/scans/nope", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestListScansAndDevices(t *testing.T) {
	m, mux := newTestModule(t, nil)
	ctx := context.Background()

	if err := m.scans.CreateScan(ctx, testScan("s1", "2026-08-25T10:00:00Z")); err != nil {
		t.Fatalf("CreateScan() error: %v", err)
	}
	if err := m.scans.AddDevice(ctx, "s1", models.Device{
		IPAddress: "192.168.1.1", DiscoveryMethod: models.DiscoveryICMP,
		Status: models.DeviceStatusOnline,
	}); err != nil {
		t.Fatalf("AddDevice() error: %v", err)
	}

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/discovery/scans", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /scans status = %d", rec.Code)
	}
	var scans []models.ScanResult
	if err := json.Unmarshal(rec.Body.Bytes(), &scans); err != nil {
		t.Fatalf("decode scans: %v", err)
	}
	if len(scans) != 1 || scans[0].ID != "s1" {
		t.Errorf("scans = %+v", scans)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/discovery/scans/s1/devices", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET devices status = %d", rec.Code)
	}
	var devices []models.Device
	if err := json.Unmarshal(rec.Body.Bytes(), &devices); err != nil {
		t.Fatalf("decode devices: %v", err)
	}
	if len(devices) != 1 || devices[0].IPAddress != "192.168.1.1" {
		t.Errorf("devices = %+v", devices)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/discovery/scans?limit=0", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("limit=0 status = %d, want 400", rec.Code)
	}
}

func TestExportScanCSV(t *testing.T) {
	m, mux := newTestModule(t, nil)
	ctx := context.Background()

	if err := m.scans.CreateScan(ctx, testScan("s1", "2026-08-25T10:00:00Z")); err != nil {
		t.Fatalf("CreateScan() error: %v", err)
	}
	if err := m.scans.AddDevice(ctx, "s1", models.Device{
		IPAddress: "192.168.1.1", Hostname: "gateway.lan",
		DiscoveryMethod: models.DiscoveryICMP, Status: models.DeviceStatusOnline,
		ResponseTimeMs: 3,
	}); err != nil {
		t.Fatalf("AddDevice() error: %v", err)
	}

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/discovery/scans/s1/export", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("Content-Type = %q, want text/csv", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "netscout-scan-s1.csv") {
		t.Errorf("Content-Disposition = %q", cd)
	}
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("csv lines = %d, want header + 1 row", len(lines))
	}
	if !strings.HasPrefix(lines[1], "192.168.1.1,gateway.lan,") {
		t.Errorf("csv row = %q", lines[1])
	}
}

func TestDeleteScanCancelsRunning(t *testing.T) {
	m, mux := newTestModule(t, nil)

	cancelled := false
	m.mu.Lock()
	m.active["s1"] = func() { cancelled = true }
	m.mu.Unlock()

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/discovery/scans/s1", nil))

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", rec.Code)
	}
	if !cancelled {
		t.Error("cancel func was not invoked")
	}
}

func TestDeleteScanRemovesStored(t *testing.T) {
	m, mux := newTestModule(t, nil)

	if err := m.scans.CreateScan(context.Background(), testScan("s1", "2026-08-25T10:00:00Z")); err != nil {
		t.Fatalf("CreateScan() error: %v", err)
	}

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/discovery/scans/s1", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/discovery/scans/s1", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", rec.Code)
	}
}

func TestListAdaptersFiltersByDefault(t *testing.T) {
	_, mux := newTestModule(t, nil)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/discovery/adapters", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var adapters []models.Adapter
	if err := json.Unmarshal(rec.Body.Bytes(), &adapters); err != nil {
		t.Fatalf("decode adapters: %v", err)
	}
	if len(adapters) != 1 || adapters[0].Name != "eth0" {
		t.Errorf("adapters = %+v, want only eth0 (up, non-loopback)", adapters)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/discovery/adapters?all=true", nil))
	if err := json.Unmarshal(rec.Body.Bytes(), &adapters); err != nil {
		t.Fatalf("decode all adapters: %v", err)
	}
	if len(adapters) != 3 {
		t.Errorf("all adapters = %d, want 3", len(adapters))
	}
}

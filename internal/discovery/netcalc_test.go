package discovery

import (
	"errors"
	"testing"
)

func TestParseHostRangeBounds(t *testing.T) {
	tests := []struct {
		name      string
		base      string
		prefix    int
		wantCount int
		wantFirst string
		wantLast  string
		wantNet   string
		wantBcast string
	}{
		{"slash30", "192.168.1.0", 30, 2, "192.168.1.1", "192.168.1.2", "192.168.1.0", "192.168.1.3"},
		{"slash29", "192.168.1.0", 29, 6, "192.168.1.1", "192.168.1.6", "192.168.1.0", "192.168.1.7"},
		{"slash24", "192.168.1.0", 24, 254, "192.168.1.1", "192.168.1.254", "192.168.1.0", "192.168.1.255"},
		{"slash16", "10.20.0.0", 16, 65534, "10.20.0.1", "10.20.255.254", "10.20.0.0", "10.20.255.255"},
		{"base_not_aligned", "192.168.1.77", 24, 254, "192.168.1.1", "192.168.1.254", "192.168.1.0", "192.168.1.255"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := ParseHostRange(tt.base, tt.prefix)
			if err != nil {
				t.Fatalf("ParseHostRange(%s, %d): %v", tt.base, tt.prefix, err)
			}
			if got := r.HostCount(); got != tt.wantCount {
				t.Errorf("HostCount() = %d, want %d", got, tt.wantCount)
			}
			if r.Network.String() != tt.wantNet {
				t.Errorf("Network = %s, want %s", r.Network, tt.wantNet)
			}
			if r.Broadcast.String() != tt.wantBcast {
				t.Errorf("Broadcast = %s, want %s", r.Broadcast, tt.wantBcast)
			}
			if r.FirstUsable.String() != tt.wantFirst {
				t.Errorf("FirstUsable = %s, want %s", r.FirstUsable, tt.wantFirst)
			}
			if r.LastUsable.String() != tt.wantLast {
				t.Errorf("LastUsable = %s, want %s", r.LastUsable, tt.wantLast)
			}

			// network < firstUsable <= lastUsable < broadcast
			net32 := ipToUint32(r.Network.To4())
			first := ipToUint32(r.FirstUsable.To4())
			last := ipToUint32(r.LastUsable.To4())
			bcast := ipToUint32(r.Broadcast.To4())
			if !(net32 < first && first <= last && last < bcast) {
				t.Errorf("range ordering violated: %d < %d <= %d < %d", net32, first, last, bcast)
			}
		})
	}
}

func TestParseHostRangeRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		base    string
		prefix  int
		wantErr error
	}{
		{"garbage_address", "not-an-ip", 24, ErrInvalidAddress},
		{"ipv6_address", "fe80::1", 64, ErrInvalidAddress},
		{"empty_address", "", 24, ErrInvalidAddress},
		{"prefix_zero", "10.0.0.0", 0, ErrInvalidPrefix},
		{"prefix_31", "10.0.0.0", 31, ErrInvalidPrefix},
		{"prefix_32", "10.0.0.1", 32, ErrInvalidPrefix},
		{"prefix_negative", "10.0.0.0", -1, ErrInvalidPrefix},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseHostRange(tt.base, tt.prefix)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ParseHostRange(%q, %d) error = %v, want %v", tt.base, tt.prefix, err, tt.wantErr)
			}
		})
	}
}

func TestCheckScanSizeGuard(t *testing.T) {
	// /15 parses fine but is too large to scan.
	r, err := ParseHostRange("10.0.0.0", 15)
	if err != nil {
		t.Fatalf("parse /15: %v", err)
	}
	if err := r.CheckScanSize(); !errors.Is(err, ErrRangeTooLarge) {
		t.Errorf("CheckScanSize(/15) = %v, want ErrRangeTooLarge", err)
	}

	// /16 is the largest scannable range.
	r, err = ParseHostRange("10.0.0.0", 16)
	if err != nil {
		t.Fatalf("parse /16: %v", err)
	}
	if err := r.CheckScanSize(); err != nil {
		t.Errorf("CheckScanSize(/16) = %v, want nil", err)
	}
}

func TestHostsEnumeration(t *testing.T) {
	r, err := ParseHostRange("192.168.1.0", 30)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	hosts := r.Hosts()
	want := []string{"192.168.1.1", "192.168.1.2"}
	if len(hosts) != len(want) {
		t.Fatalf("got %d hosts, want %d", len(hosts), len(want))
	}
	for i := range want {
		if hosts[i] != want[i] {
			t.Errorf("hosts[%d] = %s, want %s", i, hosts[i], want[i])
		}
	}
}

func TestHostsCrossOctetBoundary(t *testing.T) {
	r, err := ParseHostRange("10.0.0.0", 23)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	hosts := r.Hosts()
	if len(hosts) != 510 {
		t.Fatalf("got %d hosts, want 510", len(hosts))
	}
	if hosts[254] != "10.0.0.255" {
		t.Errorf("hosts[254] = %s, want 10.0.0.255", hosts[254])
	}
	if hosts[255] != "10.0.1.0" {
		t.Errorf("hosts[255] = %s, want 10.0.1.0", hosts[255])
	}
	if hosts[509] != "10.0.1.254" {
		t.Errorf("hosts[509] = %s, want 10.0.1.254", hosts[509])
	}
}

func TestContains(t *testing.T) {
	r, err := ParseHostRange("192.168.1.0", 29)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	tests := []struct {
		ip   string
		want bool
	}{
		{"192.168.1.0", false}, // network
		{"192.168.1.1", true},
		{"192.168.1.6", true},
		{"192.168.1.7", false}, // broadcast
		{"192.168.1.8", false},
		{"10.0.0.1", false},
		{"bogus", false},
	}
	for _, tt := range tests {
		if got := r.Contains(tt.ip); got != tt.want {
			t.Errorf("Contains(%s) = %v, want %v", tt.ip, got, tt.want)
		}
	}
}

func TestParseCIDRRange(t *testing.T) {
	r, err := ParseCIDRRange("172.16.4.0/28")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if r.String() != "172.16.4.0/28" {
		t.Errorf("String() = %s, want 172.16.4.0/28", r.String())
	}
	if _, err := ParseCIDRRange("172.16.4.0"); !errors.Is(err, ErrInvalidAddress) {
		t.Error("missing prefix accepted")
	}
}

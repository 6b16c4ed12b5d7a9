package discovery

import (
	"errors"
	"fmt"
	"net"
)

// Validation errors returned by ParseHostRange. Handlers map these to
// HTTP 400 problem responses before any probing starts.
var (
	ErrInvalidAddress = errors.New("invalid IPv4 address")
	ErrInvalidPrefix  = errors.New("prefix length must be between 1 and 30")
	ErrRangeTooLarge  = errors.New("subnet too large: maximum /16 (65534 hosts)")
)

// maxScanHosts bounds worst-case scan time. Prefixes shorter than /16
// exceed it and are rejected before any network I/O.
const maxScanHosts = 65534

// HostRange is the scannable address space derived from a CIDR block,
// computed once per scan.
type HostRange struct {
	Network     net.IP
	Broadcast   net.IP
	FirstUsable net.IP
	LastUsable  net.IP
	Prefix      int
}

// ParseHostRange validates a base IPv4 address and prefix length and
// computes the usable host range. Prefixes 0, 31, and 32 are rejected:
// /31 and /32 have no usable hosts under broadcast addressing and the
// scanner does not special-case point-to-point links.
func ParseHostRange(baseIP string, prefix int) (*HostRange, error) {
	ip := net.ParseIP(baseIP)
	if ip == nil || ip.To4() == nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAddress, baseIP)
	}
	if prefix < 1 || prefix > 30 {
		return nil, fmt.Errorf("%w: got /%d", ErrInvalidPrefix, prefix)
	}

	v4 := ip.To4()
	mask := net.CIDRMask(prefix, 32)
	network := v4.Mask(mask)

	broadcast := make(net.IP, 4)
	for i := range broadcast {
		broadcast[i] = network[i] | ^mask[i]
	}

	return &HostRange{
		Network:     network,
		Broadcast:   broadcast,
		FirstUsable: offsetIP(network, 1),
		LastUsable:  offsetIP(broadcast, -1),
		Prefix:      prefix,
	}, nil
}

// ParseCIDRRange is ParseHostRange for "a.b.c.d/n" notation.
func ParseCIDRRange(cidr string) (*HostRange, error) {
	ip, ipNet, err := net.ParseCIDR(cidr)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAddress, cidr)
	}
	ones, _ := ipNet.Mask.Size()
	return ParseHostRange(ip.String(), ones)
}

// HostCount returns the number of usable host addresses in the range.
func (r *HostRange) HostCount() int {
	return 1<<(32-r.Prefix) - 2
}

// CheckScanSize returns ErrRangeTooLarge when the range exceeds the
// scan guard. Kept separate from parsing so callers can still compute
// ranges for display without the guard.
func (r *HostRange) CheckScanSize() error {
	if r.HostCount() > maxScanHosts {
		return fmt.Errorf("%w: /%d has %d hosts", ErrRangeTooLarge, r.Prefix, r.HostCount())
	}
	return nil
}

// Hosts returns all usable host addresses in range order
// (network+1 through broadcast-1).
func (r *HostRange) Hosts() []string {
	count := r.HostCount()
	hosts := make([]string, 0, count)
	for i := 1; i <= count; i++ {
		hosts = append(hosts, offsetIP(r.Network, i).String())
	}
	return hosts
}

// Contains reports whether ip falls inside the usable host range.
func (r *HostRange) Contains(ip string) bool {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return false
	}
	v4 := parsed.To4()
	if v4 == nil {
		return false
	}
	n := ipToUint32(v4)
	return n > ipToUint32(r.Network) && n < ipToUint32(r.Broadcast)
}

// String renders the range in CIDR notation.
func (r *HostRange) String() string {
	return fmt.Sprintf("%s/%d", r.Network, r.Prefix)
}

// offsetIP returns base+offset as a new 4-byte IP.
func offsetIP(base net.IP, offset int) net.IP {
	v4 := base.To4()
	n := ipToUint32(v4)
	n = uint32(int64(n) + int64(offset))
	out := make(net.IP, 4)
	out[0] = byte(n >> 24)
	out[1] = byte(n >> 16)
	out[2] = byte(n >> 8)
	out[3] = byte(n)
	return out
}

func ipToUint32(v4 net.IP) uint32 {
	return uint32(v4[0])<<24 | uint32(v4[1])<<16 | uint32(v4[2])<<8 | uint32(v4[3])
}

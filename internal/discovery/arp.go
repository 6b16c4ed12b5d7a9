package discovery

import (
	"bufio"
	"bytes"
	"context"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"go.uber.org/zap"
)

// ARPReader reads the system ARP table to get IP-to-MAC mappings.
// Only dynamic (learned) entries are kept: static and broadcast rows say
// nothing about live neighbors. Every failure mode degrades to an empty
// map -- ARP enrichment is best-effort and must never abort a scan.
type ARPReader struct {
	logger *zap.Logger
}

// NewARPReader creates a new ARP table reader.
func NewARPReader(logger *zap.Logger) *ARPReader {
	return &ARPReader{logger: logger}
}

// ReadTable returns a map of IP address to MAC address from the system ARP
// cache. MACs are normalized to colon-separated uppercase hex.
func (r *ARPReader) ReadTable(ctx context.Context) map[string]string {
	switch runtime.GOOS {
	case "linux":
		return r.readLinuxARP()
	case "windows":
		return r.readWindowsARP(ctx)
	case "darwin":
		return r.readDarwinARP(ctx)
	default:
		r.logger.Warn("ARP table reading not supported on this platform",
			zap.String("os", runtime.GOOS))
		return map[string]string{}
	}
}

// readLinuxARP parses /proc/net/arp.
// Format: IP address  HW type  Flags  HW address  Mask  Device
func (r *ARPReader) readLinuxARP() map[string]string {
	out, err := os.ReadFile("/proc/net/arp")
	if err != nil {
		r.logger.Debug("failed to read /proc/net/arp", zap.Error(err))
		return map[string]string{}
	}
	return parseLinuxARPOutput(string(out))
}

// readWindowsARP parses `arp -a` output on Windows.
// Format: Internet Address  Physical Address  Type
func (r *ARPReader) readWindowsARP(ctx context.Context) map[string]string {
	out, err := exec.CommandContext(ctx, "arp", "-a").Output()
	if err != nil {
		r.logger.Debug("failed to run arp -a", zap.Error(err))
		return map[string]string{}
	}
	return parseWindowsARPOutput(string(bytes.TrimSpace(out)))
}

// readDarwinARP parses `arp -an` output on macOS.
// Format: ? (ip) at mac on iface ifscope [ethernet]
func (r *ARPReader) readDarwinARP(ctx context.Context) map[string]string {
	out, err := exec.CommandContext(ctx, "arp", "-an").Output()
	if err != nil {
		r.logger.Debug("failed to run arp -an", zap.Error(err))
		return map[string]string{}
	}
	return parseDarwinARPOutput(string(out))
}

// ParseARPOutput parses platform-specific ARP output. Exported for testing.
func ParseARPOutput(output, platform string) map[string]string {
	switch platform {
	case "linux":
		return parseLinuxARPOutput(output)
	case "windows":
		return parseWindowsARPOutput(output)
	case "darwin":
		return parseDarwinARPOutput(output)
	default:
		return map[string]string{}
	}
}

func parseLinuxARPOutput(output string) map[string]string {
	table := make(map[string]string)
	scanner := bufio.NewScanner(strings.NewReader(output))
	scanner.Scan() // Skip header.
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 4 {
			continue
		}
		// Flags 0x2 = ATF_COM (complete, learned dynamically). Anything
		// else is incomplete or statically published.
		if fields[2] != "0x2" {
			continue
		}
		mac := strings.ToUpper(fields[3])
		if excludedMAC(mac) {
			continue
		}
		table[fields[0]] = mac
	}
	return table
}

func parseWindowsARPOutput(output string) map[string]string {
	table := make(map[string]string)
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		fields := strings.Fields(strings.TrimSpace(scanner.Text()))
		if len(fields) < 3 {
			continue
		}
		// Rows look like: 192.168.1.1  aa-bb-cc-dd-ee-ff  dynamic
		ip := fields[0]
		if ip == "" || ip[0] < '0' || ip[0] > '9' {
			continue
		}
		if !strings.EqualFold(fields[2], "dynamic") {
			continue
		}
		mac := strings.ToUpper(strings.ReplaceAll(fields[1], "-", ":"))
		if excludedMAC(mac) {
			continue
		}
		table[ip] = mac
	}
	return table
}

func parseDarwinARPOutput(output string) map[string]string {
	table := make(map[string]string)
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := scanner.Text()
		// Format: ? (ip) at mac on iface ...
		parenStart := strings.Index(line, "(")
		parenEnd := strings.Index(line, ")")
		if parenStart < 0 || parenEnd < 0 || parenEnd <= parenStart {
			continue
		}
		ip := line[parenStart+1 : parenEnd]

		atIdx := strings.Index(line[parenEnd:], " at ")
		if atIdx < 0 {
			continue
		}
		fields := strings.Fields(line[parenEnd+atIdx+4:])
		if len(fields) == 0 {
			continue
		}
		// macOS marks static entries with "permanent".
		if strings.Contains(line, "permanent") {
			continue
		}
		mac := strings.ToUpper(fields[0])
		if mac == "(INCOMPLETE)" || excludedMAC(mac) {
			continue
		}
		table[ip] = normalizeMACOctets(mac)
	}
	return table
}

// excludedMAC reports whether a MAC must never be attributed to a device:
// the broadcast address and the incomplete-entry placeholder.
func excludedMAC(mac string) bool {
	return mac == "FF:FF:FF:FF:FF:FF" || mac == "00:00:00:00:00:00"
}

// normalizeMACOctets pads single-digit octets: macOS prints "0:1a:2b:..."
// rather than "00:1A:2B:...".
func normalizeMACOctets(mac string) string {
	parts := strings.Split(mac, ":")
	for i, p := range parts {
		if len(p) == 1 {
			parts[i] = "0" + p
		}
	}
	return strings.Join(parts, ":")
}

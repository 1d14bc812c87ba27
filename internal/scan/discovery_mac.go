package scan

import (
	"context"
	"os"
	"os/exec"
	"strings"

	"github.com/endobit/oui"
	osutils "github.com/projectdiscovery/utils/os"
)

// lookupMAC resolves the neighbor-table entry for host. The reachability
// probe that just ran has already nudged the OS into populating the table.
// Returns "" when no entry parses.
func lookupMAC(ctx context.Context, host string) string {
	if osutils.IsLinux() {
		if mac := macFromProcARP(host); mac != "" {
			return mac
		}
		if mac := macFromCommand(ctx, host, "ip", "neigh", "show", host); mac != "" {
			return mac
		}
	}
	if osutils.IsWindows() {
		return macFromCommand(ctx, host, "arp", "-a", host)
	}
	return macFromCommand(ctx, host, "arp", "-n", host)
}

// macFromProcARP reads the kernel neighbor table directly, avoiding a
// subprocess on Linux. Incomplete entries show an all-zero address.
func macFromProcARP(host string) string {
	data, err := os.ReadFile("/proc/net/arp")
	if err != nil {
		return ""
	}
	lines := strings.Split(string(data), "\n")
	for _, line := range lines[1:] {
		fields := whitespacePattern.Split(strings.TrimSpace(line), -1)
		if len(fields) < 4 || fields[0] != host {
			continue
		}
		if fields[3] == "00:00:00:00:00:00" {
			continue
		}
		if mac := normaliseMAC(fields[3]); mac != "" {
			return mac
		}
	}
	return ""
}

// macFromCommand shells out to the platform neighbor-table utility and
// scans its output for the line matching host. The MAC regex, not column
// offsets, does the extraction, so localized output formats still parse.
func macFromCommand(ctx context.Context, host, name string, args ...string) string {
	output, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		return ""
	}
	for _, line := range strings.Split(string(output), "\n") {
		if !strings.Contains(line, host) {
			continue
		}
		if mac := normaliseMAC(line); mac != "" {
			return mac
		}
	}
	return ""
}

// manufacturer resolves the IEEE OUI registry name for a MAC. Used for
// debug diagnostics only; the classifier keeps its own fixed vendor table
// so its output set stays closed.
func manufacturer(mac string) string {
	if mac == "" || mac == UnknownMAC {
		return ""
	}
	return oui.Vendor(strings.ToLower(mac))
}

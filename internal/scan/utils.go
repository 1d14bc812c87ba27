package scan

import (
	"regexp"
	"strings"
)

var (
	macPattern        = regexp.MustCompile(`(?i)([0-9a-f]{1,2}[:-]){5}([0-9a-f]{1,2})`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// normaliseMAC extracts the first well-formed 6-octet hex sequence from raw
// neighbor-table output and canonicalises it to uppercase colon form.
// Single-digit octets (BSD arp output) are zero-padded.
func normaliseMAC(raw string) string {
	if raw == "" {
		return ""
	}
	raw = strings.ToUpper(strings.ReplaceAll(raw, "-", ":"))
	match := macPattern.FindString(raw)
	if match == "" {
		return ""
	}
	parts := strings.Split(match, ":")
	if len(parts) != 6 {
		return ""
	}
	for i := range parts {
		if len(parts[i]) == 1 {
			parts[i] = "0" + parts[i]
		}
	}
	return strings.Join(parts, ":")
}

// macVendorPrefix reduces a MAC to its uppercase 6-hex-digit OUI prefix, or
// "" when the input is too short to carry one.
func macVendorPrefix(mac string) string {
	cleaned := strings.ToUpper(strings.NewReplacer(":", "", "-", "", ".", "").Replace(mac))
	if len(cleaned) < 6 {
		return ""
	}
	cleaned = cleaned[:6]
	for _, r := range cleaned {
		isHex := (r >= '0' && r <= '9') || (r >= 'A' && r <= 'F')
		if !isHex {
			return ""
		}
	}
	return cleaned
}

// firstNonEmpty returns the first non-blank candidate, trimmed of the
// trailing dot that PTR answers carry.
func firstNonEmpty(candidates ...string) string {
	for _, c := range candidates {
		c = strings.TrimSuffix(strings.TrimSpace(c), ".")
		if c != "" {
			return c
		}
	}
	return ""
}

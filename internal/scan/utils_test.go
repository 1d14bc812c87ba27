package scan

import "testing"

func TestNormaliseMAC(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"hyphen form", "8c-85-90-12-34-56", "8C:85:90:12:34:56"},
		{"already canonical", "AA:BB:CC:00:11:22", "AA:BB:CC:00:11:22"},
		{"embedded in arp output", "? (10.0.0.5) at aa:bb:cc:0:11:22 [ether] on en0", "AA:BB:CC:00:11:22"},
		{"single-digit octets padded", "a:b:c:1:2:3", "0A:0B:0C:01:02:03"},
		{"garbage", "invalid", ""},
		{"empty", "", ""},
		{"too few octets", "aa:bb:cc:dd", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normaliseMAC(tt.in); got != tt.want {
				t.Fatalf("normaliseMAC(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestMACVendorPrefix(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"AA:BB:CC:00:11:22", "AABBCC"},
		{"b8-27-eb-01-02-03", "B827EB"},
		{"dca6.3201.0203", "DCA632"},
		{UnknownMAC, ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := macVendorPrefix(tt.in); got != tt.want {
			t.Fatalf("macVendorPrefix(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFirstNonEmpty(t *testing.T) {
	if got := firstNonEmpty("", "  ", "host.local.", "other"); got != "host.local" {
		t.Fatalf("expected trimmed first candidate, got %q", got)
	}
	if got := firstNonEmpty("", "   "); got != "" {
		t.Fatalf("expected empty result, got %q", got)
	}
}

package scan

import "strings"

type keywordRule struct {
	keywords []string
	label    string
}

// hostnameRules are evaluated in order; the first keyword hit wins, so the
// table order is the tie-break between overlapping keyword sets.
var hostnameRules = []keywordRule{
	{[]string{"router", "gateway", "fritzbox", "dlink", "asus", "tp-link"}, "Router"},
	{[]string{"printer", "canon", "hp", "epson", "brother"}, "Printer"},
	{[]string{"phone", "android", "iphone", "samsung", "huawei", "xiaomi"}, "Mobile Device"},
	{[]string{"laptop", "notebook", "pc", "desktop", "macbook", "imac"}, "Computer"},
	{[]string{"tv", "smart", "lg", "samsung-tv", "chromecast", "firetv"}, "Smart TV"},
	{[]string{"raspberry", "pi"}, "Raspberry Pi"},
	{[]string{"camera", "webcam", "cctv"}, "Camera"},
	{[]string{"ap", "access point", "wifi"}, "Wireless AP"},
}

// macVendors maps OUI prefixes to vendor labels. The table is deliberately
// fixed rather than backed by the full OUI registry: the classifier's output
// set stays closed and deterministic.
var macVendors = map[string]string{
	"005056": "VMware",
	"080027": "VirtualBox",
	"000C29": "VMware",
	"001B21": "Intel",
	"00E04C": "Realtek",
	"B827EB": "Raspberry Pi",
	"DCA632": "Raspberry Pi",
	"00163E": "Xen Virtual",
	"525400": "QEMU/KVM",
	"FCFBFB": "Ubiquiti",
	"001A11": "Apple",
	"F0D1A9": "Samsung",
}

var raspberryPiPrefixes = map[string]struct{}{
	"B827EB": {},
	"DCA632": {},
}

// Classify maps a hostname and MAC address to a device-type label. Pure and
// total: identical inputs always yield the same label, and there is always
// one. Hostname keywords win over the vendor table; the Raspberry Pi
// prefixes are special-cased last so they resolve even when the generic
// vendor path did not.
func Classify(hostname, mac string) string {
	lower := strings.ToLower(hostname)
	for _, rule := range hostnameRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(lower, keyword) {
				return rule.label
			}
		}
	}

	prefix := macVendorPrefix(mac)
	if vendor, ok := macVendors[prefix]; ok {
		lowerVendor := strings.ToLower(vendor)
		if strings.Contains(lowerVendor, "vmware") || strings.Contains(lowerVendor, "virtual") {
			return "Virtual Machine"
		}
		return vendor
	}

	if _, ok := raspberryPiPrefixes[prefix]; ok || strings.Contains(lower, "raspberry") {
		return "Raspberry Pi"
	}
	return "Unknown Device"
}

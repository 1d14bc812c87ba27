package scan

import (
	"fmt"
	"net"

	"github.com/projectdiscovery/mapcidr"
)

// resolveTargets expands a subnet expression into the ordered list of host
// addresses to probe. A bare IPv4 address yields itself; a CIDR block yields
// every usable host address, excluding network and broadcast (all addresses
// for /31 and /32, where no broadcast convention applies).
func resolveTargets(subnet string) ([]string, error) {
	if ip := net.ParseIP(subnet); ip != nil {
		ipv4 := ip.To4()
		if ipv4 == nil {
			return nil, fmt.Errorf("%w: only IPv4 addresses are supported: %s", ErrInvalidRange, subnet)
		}
		return []string{ipv4.String()}, nil
	}

	ip, ipNet, err := net.ParseCIDR(subnet)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRange, subnet)
	}
	if ip.To4() == nil {
		return nil, fmt.Errorf("%w: only IPv4 CIDR ranges are supported: %s", ErrInvalidRange, subnet)
	}

	addresses, err := mapcidr.IPAddresses(ipNet.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRange, subnet)
	}

	ones, _ := ipNet.Mask.Size()
	targets := make([]string, 0, len(addresses))
	for _, addr := range addresses {
		parsed := net.ParseIP(addr)
		if parsed == nil {
			continue
		}
		if ones < 31 && isNetworkOrBroadcast(parsed, ipNet) {
			continue
		}
		targets = append(targets, parsed.String())
	}
	return targets, nil
}

func isNetworkOrBroadcast(ip net.IP, network *net.IPNet) bool {
	if ip.Equal(network.IP) {
		return true
	}
	broadcast := make(net.IP, len(network.IP))
	copy(broadcast, network.IP)
	for i := range broadcast {
		broadcast[i] |= ^network.Mask[i]
	}
	return ip.Equal(broadcast)
}

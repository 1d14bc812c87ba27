package scan

import (
	"fmt"
	"net"
	"time"

	"github.com/projectdiscovery/gologger"
)

// DetectNetwork determines the local IPv4 address and the CIDR block of the
// attached network segment. Strategies are tried in order: interface
// enumeration, then a connectionless outbound dial to let the OS pick a
// source address (assuming /24). When both fail the degenerate
// "0.0.0.0"/"0.0.0.0/24" pair is returned together with ErrNoNetwork; the
// values are still usable and simply produce an empty scan.
func DetectNetwork() (string, string, error) {
	if ip, ipNet, ok := primaryInterfaceNetwork(); ok {
		prefix := maskToPrefix(ipNet.Mask)
		network := ip.Mask(ipNet.Mask)
		cidr := fmt.Sprintf("%s/%d", network, prefix)
		gologger.Debug().Msgf("detected local network %s via interface enumeration (local ip %s)", cidr, ip)
		return ip.String(), cidr, nil
	}

	if ip, ok := outboundSourceAddress(); ok {
		mask := prefixToMask(24)
		cidr := fmt.Sprintf("%s/24", ip.Mask(mask))
		gologger.Debug().Msgf("detected local network %s via outbound dial fallback", cidr)
		return ip.String(), cidr, nil
	}

	return "0.0.0.0", "0.0.0.0/24", ErrNoNetwork
}

// primaryInterfaceNetwork returns the first usable IPv4 address and its
// subnet from the system's interfaces. Private addresses win over public
// ones so that a VPN or WAN-facing interface does not shadow the LAN.
func primaryInterfaceNetwork() (net.IP, *net.IPNet, bool) {
	interfaces, err := net.Interfaces()
	if err != nil {
		return nil, nil, false
	}

	var fallbackIP net.IP
	var fallbackNet *net.IPNet

	for _, iface := range interfaces {
		if iface.Flags&net.FlagLoopback != 0 || iface.Flags&net.FlagUp == 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			ipNet, ok := addr.(*net.IPNet)
			if !ok {
				continue
			}
			ip := ipNet.IP.To4()
			if ip == nil || ip.IsLoopback() {
				continue
			}
			if ip.IsPrivate() {
				return ip, ipNet, true
			}
			if fallbackIP == nil {
				fallbackIP = ip
				fallbackNet = ipNet
			}
		}
	}

	if fallbackIP != nil {
		return fallbackIP, fallbackNet, true
	}
	return nil, nil, false
}

// outboundSourceAddress asks the OS which source address it would use for
// internet-bound traffic. UDP dial allocates a route without sending a
// single packet.
func outboundSourceAddress() (net.IP, bool) {
	conn, err := net.DialTimeout("udp", "8.8.8.8:80", 2*time.Second)
	if err != nil {
		return nil, false
	}
	defer conn.Close()

	localAddr, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok {
		return nil, false
	}
	ip := localAddr.IP.To4()
	if ip == nil {
		return nil, false
	}
	return ip, true
}

// maskToPrefix counts the set bits of a dotted-quad subnet mask.
func maskToPrefix(mask net.IPMask) int {
	ones, _ := mask.Size()
	if ones == 0 && len(mask) > 0 {
		// Non-canonical masks fall outside mask.Size; count manually.
		for _, octet := range mask {
			for octet != 0 {
				ones += int(octet & 1)
				octet >>= 1
			}
		}
	}
	return ones
}

// prefixToMask is the inverse of maskToPrefix for IPv4 prefixes.
func prefixToMask(prefix int) net.IPMask {
	return net.CIDRMask(prefix, 32)
}

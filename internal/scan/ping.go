package scan

import (
	"context"
	"net"
	"runtime"
	"strconv"
	"time"

	ping "github.com/go-ping/ping"
)

const (
	pingTimeout     = time.Second
	tcpProbeTimeout = 500 * time.Millisecond
)

// tcpFallbackPorts are tried in deep mode when ICMP goes unanswered. Hosts
// that filter echo requests commonly still expose one of these.
var tcpFallbackPorts = []int{80, 443, 22, 445}

// pingHost sends a single ICMP echo with a short timeout. A reply carrying a
// TTL, or any completed echo, counts as reachable.
func pingHost(ctx context.Context, host string) (bool, error) {
	pinger, err := ping.NewPinger(host)
	if err != nil {
		return false, err
	}

	// Windows has no unprivileged ICMP sockets.
	pinger.SetPrivileged(runtime.GOOS == "windows")
	pinger.Count = 1
	pinger.Timeout = pingTimeout

	var ttl int
	pinger.OnRecv = func(pkt *ping.Packet) {
		if pkt.Ttl > 0 {
			ttl = pkt.Ttl
		}
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- pinger.Run()
	}()

	select {
	case <-ctx.Done():
		pinger.Stop()
		return false, ctx.Err()
	case err := <-errCh:
		if err != nil {
			return false, err
		}
	}

	stats := pinger.Statistics()
	return ttl > 0 || stats.PacketsRecv > 0, nil
}

// probeTCP reports whether any of the given ports accepts a connection.
func probeTCP(ctx context.Context, host string, ports []int) bool {
	dialer := &net.Dialer{Timeout: tcpProbeTimeout}
	for _, port := range ports {
		select {
		case <-ctx.Done():
			return false
		default:
		}
		conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(host, strconv.Itoa(port)))
		if err != nil {
			continue
		}
		_ = conn.Close()
		return true
	}
	return false
}

// reachable runs the mode-appropriate liveness checks for one host.
func reachable(ctx context.Context, host string, deep bool) bool {
	ok, err := pingHost(ctx, host)
	if err == nil && ok {
		return true
	}
	if ctx.Err() != nil {
		return false
	}
	if deep {
		return probeTCP(ctx, host, tcpFallbackPorts)
	}
	return false
}

package scan

import (
	"context"
	"strings"
	"sync"

	"github.com/grandcat/zeroconf"
)

// Service types browsed while a scan runs. A short list keeps the multicast
// chatter low; the generic dns-sd meta-query already surfaces most devices.
var mdnsServiceTypes = []string{
	"_services._dns-sd._udp",
	"_workstation._tcp",
	"_device-info._tcp",
	"_http._tcp",
	"_smb._tcp",
	"_printer._tcp",
	"_airplay._tcp",
	"_googlecast._tcp",
}

// mdnsTable collects mDNS instance and host names per IPv4 address for the
// lifetime of one scan session. Probes consult it instead of issuing their
// own multicast browse, which would cost seconds per host.
type mdnsTable struct {
	mu    sync.RWMutex
	names map[string]string
}

func newMDNSTable() *mdnsTable {
	return &mdnsTable{names: make(map[string]string)}
}

// run browses for the configured service types until ctx expires. Errors
// are swallowed: a network without mDNS responders is not a failure.
func (t *mdnsTable) run(ctx context.Context) {
	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return
	}

	var wg sync.WaitGroup
	for _, serviceType := range mdnsServiceTypes {
		entries := make(chan *zeroconf.ServiceEntry, 16)
		wg.Add(1)
		go func(entries <-chan *zeroconf.ServiceEntry) {
			defer wg.Done()
			for entry := range entries {
				t.record(entry)
			}
		}(entries)

		// Browse closes the entries channel once ctx is done.
		if err := resolver.Browse(ctx, serviceType, "local.", entries); err != nil {
			continue
		}
	}
	wg.Wait()
}

func (t *mdnsTable) record(entry *zeroconf.ServiceEntry) {
	name := firstNonEmpty(entry.HostName, entry.Instance)
	if name == "" {
		return
	}
	name = strings.TrimSuffix(name, ".local")

	t.mu.Lock()
	defer t.mu.Unlock()
	for _, ipv4 := range entry.AddrIPv4 {
		key := ipv4.String()
		if _, exists := t.names[key]; !exists {
			t.names[key] = name
		}
	}
}

// lookup returns the collected name for ip, or "".
func (t *mdnsTable) lookup(ip string) string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.names[ip]
}

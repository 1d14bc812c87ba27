package scan

import (
	"context"
	"sync"
	"time"

	"github.com/projectdiscovery/gologger"
)

// probeHost resolves the identity of one address: reachability first, then
// hostname and MAC lookups in parallel, then classification. Returns nil
// when the host is down or the context was cancelled before a record could
// be assembled. Internal lookup failures degrade to fallback field values
// and are never surfaced as errors.
func probeHost(ctx context.Context, host string, deep bool, mdns *mdnsTable) *DeviceRecord {
	if !reachable(ctx, host, deep) {
		return nil
	}
	if ctx.Err() != nil {
		return nil
	}

	infoCtx, cancel := context.WithTimeout(ctx, 4*time.Second)
	defer cancel()

	var ptrName, netbiosName, mac string
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		ptrName = lookupHostname(infoCtx, host)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		netbiosName = lookupNetBIOSName(infoCtx, host)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		mac = lookupMAC(infoCtx, host)
	}()

	wg.Wait()

	var mdnsName string
	if mdns != nil {
		mdnsName = mdns.lookup(host)
	}

	// Name preference: PTR record, then mDNS, then NetBIOS; the IP itself
	// when nothing resolved, so the field is never blank.
	hostname := firstNonEmpty(ptrName, mdnsName, netbiosName, host)

	if mac == "" {
		mac = UnknownMAC
	} else if vendor := manufacturer(mac); vendor != "" {
		gologger.Debug().Msgf("%s: mac %s registered to %s", host, mac, vendor)
	}

	return &DeviceRecord{
		IP:         host,
		Hostname:   hostname,
		MAC:        mac,
		DeviceType: Classify(hostname, mac),
		ScanTime:   time.Now().Format("15:04:05"),
	}
}

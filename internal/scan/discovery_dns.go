package scan

import (
	"context"
	"net"
	"time"
)

// lookupHostname resolves a PTR record for the address. The system resolver
// is preferred so /etc/hosts and the host's DNS configuration apply. Reverse
// lookups routinely fail on home networks without PTR zones, so any failure
// simply yields "".
func lookupHostname(ctx context.Context, host string) string {
	resolver := &net.Resolver{PreferGo: false}

	lookupCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	names, err := resolver.LookupAddr(lookupCtx, host)
	if err != nil || len(names) == 0 {
		return ""
	}
	return firstNonEmpty(names...)
}

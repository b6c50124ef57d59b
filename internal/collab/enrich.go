package collab

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"
)

// LivenessProbe checks whether a discovered name is actually serving
// something, beyond merely resolving. Kept thin and out of scope for the
// core engine.
type LivenessProbe interface {
	Probe(ctx context.Context, name string) (bool, error)
}

// HTTPLivenessProbe is a minimal HEAD-request liveness check.
type HTTPLivenessProbe struct {
	Client *http.Client
}

// Probe issues an HTTP HEAD to name and reports whether it returned any
// response at all (status code is not inspected; a name that merely
// answers is "alive" for this narrow contract).
func (p HTTPLivenessProbe) Probe(ctx context.Context, name string) (bool, error) {
	client := p.Client
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, "http://"+name, nil)
	if err != nil {
		return false, fmt.Errorf("collab: build liveness request for %s: %w", name, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return false, nil //nolint:nilerr // unreachable host is "not alive", not a probe failure
	}
	defer resp.Body.Close()
	return true, nil
}

// EnrichedRecord is the output of RecordEnricher: a discovered name plus
// whatever additional DNS records the enricher chose to resolve for it.
type EnrichedRecord struct {
	Name  string
	IPs   []net.IP
	CNAME string
}

// RecordEnricher fetches supplementary records for a discovered name.
// Kept thin: recursive enrichment stays out of scope for the core engine.
type RecordEnricher interface {
	Enrich(ctx context.Context, name string) (EnrichedRecord, error)
}

// ResolverRecordEnricher implements RecordEnricher via the host resolver.
type ResolverRecordEnricher struct {
	Resolver *net.Resolver
}

// Enrich resolves name's A records and, if present, its CNAME target.
func (e ResolverRecordEnricher) Enrich(ctx context.Context, name string) (EnrichedRecord, error) {
	resolver := e.Resolver
	if resolver == nil {
		resolver = net.DefaultResolver
	}

	out := EnrichedRecord{Name: name}
	addrs, err := resolver.LookupIPAddr(ctx, name)
	if err != nil {
		return out, fmt.Errorf("collab: lookup %s: %w", name, err)
	}
	for _, a := range addrs {
		if v4 := a.IP.To4(); v4 != nil {
			out.IPs = append(out.IPs, v4)
		}
	}

	if cname, err := resolver.LookupCNAME(ctx, name); err == nil {
		out.CNAME = cname
	}
	return out, nil
}

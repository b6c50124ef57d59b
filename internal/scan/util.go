package scan

import "net"

// parseIPv4 parses a dotted-quad resolver address. Config.Validate rejects
// resolver addresses that are not IPv4; an unparsable address resolves to
// nil, which frame.BuildQuery will reject.
func parseIPv4(s string) net.IP {
	ip := net.ParseIP(s)
	if ip == nil {
		return nil
	}
	return ip.To4()
}

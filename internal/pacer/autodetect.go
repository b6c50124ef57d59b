package pacer

import (
	"fmt"

	"github.com/shirou/gopsutil/v3/net"
)

// autoThrottleFraction is the share of the host's reported interface
// throughput a caller may consume when no explicit bandwidth string was
// given. Conservative by default: this is a courtesy cap, not a tuned
// value.
const autoThrottleFraction = 0.1

// AutoDetectMaxBytesPerSec estimates a safe max_bytes_per_sec for iface from
// its cumulative bytes-sent counter, scaled down by autoThrottleFraction as
// a conservative one-shot cap. Used only when the caller does not supply an
// explicit bandwidth string.
func AutoDetectMaxBytesPerSec(iface string, sample func() (map[string]int64, error)) (int64, error) {
	counters, err := sample()
	if err != nil {
		return 0, fmt.Errorf("pacer: sample interface counters: %w", err)
	}
	sent, ok := counters[iface]
	if !ok {
		return 0, fmt.Errorf("%w: no counters for interface %q", ErrInvalidBandwidth, iface)
	}
	return int64(float64(sent) * autoThrottleFraction), nil
}

// SampleInterfaceBytesPerSec is the gopsutil-backed sample function:
// cumulative bytes-sent counters per interface, suitable as a rough
// capacity signal (not a true instantaneous rate, but sufficient for a
// one-shot conservative cap at scan start).
func SampleInterfaceBytesPerSec() (map[string]int64, error) {
	counters, err := net.IOCounters(true)
	if err != nil {
		return nil, fmt.Errorf("pacer: gopsutil IOCounters: %w", err)
	}
	out := make(map[string]int64, len(counters))
	for _, c := range counters {
		out[c.Name] = int64(c.BytesSent) //nolint:gosec // counter magnitude is well within int64 range
	}
	return out, nil
}

// Package correlation implements the in-flight query state store: the
// Correlation Table mapping a compact 32-bit index back to the pending
// query it belongs to, and the Index Allocator that hands out and recycles
// those indices.
package correlation

import "time"

// minFlagID and maxFlagID bound the scan-wide tag encoded into the high
// part of every DNS transaction id this package issues.
const (
	minFlagID = 400
	maxFlagID = 655

	startSlot = 10001
	maxSlot   = 60000

	maxFlagID2 = 99

	freeListCap = 50_000

	// Timeout is the age at which a QueryRecord is considered expired.
	Timeout = 5 * time.Second

	// DefaultMaxReturn is the system-wide default cap on timeout_scan results.
	DefaultMaxReturn = 100_000
)

// Record is one entry in the Correlation Table: a query that has been sent
// and is awaiting either a matching response or a timeout.
type Record struct {
	Name       string
	Resolver   string
	SentAt     time.Time
	RetryCount int
	Depth      int
}

// Index returns the 32-bit correlation key for (flagID2, slot).
func Index(flagID2, slot int) int32 {
	return int32(flagID2*maxSlot + slot)
}

// Decompose recovers (flagID2, slot) from a correlation index.
func Decompose(index int32) (flagID2, slot int) {
	return int(index) / maxSlot, int(index) % maxSlot
}

// TID composes the DNS transaction id from the scan's flagID and a query's
// flagID2.
func TID(flagID, flagID2 int) uint16 {
	return uint16(flagID*100 + flagID2) //nolint:gosec // flagID/flagID2 are bounds-checked by construction
}

// SplitTID decomposes a DNS transaction id into (flagIDHi, flagID2).
func SplitTID(tid uint16) (flagIDHi, flagID2 int) {
	return int(tid) / 100, int(tid) % 100
}

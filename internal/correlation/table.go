package correlation

import (
	"errors"
	"sync"
	"time"
)

// ErrIndexInUse is returned by Append when the given index is already live.
var ErrIndexInUse = errors.New("correlation: index already in use")

// Entry pairs a correlation index with the record it maps to, as returned
// by TimeoutScan.
type Entry struct {
	Index  int32
	Record Record
}

// Table is the in-flight query state store. A single reader-writer mutex
// guards both the index→Record map and the FIFO order slice; writers hold
// it briefly for append/delete/timeout-scan, readers hold it only for the
// IsEmpty and Len probes.
type Table struct {
	mu      sync.RWMutex
	records map[int32]Record
	order   []int32
}

// NewTable creates an empty Correlation Table.
func NewTable() *Table {
	return &Table{records: make(map[int32]Record)}
}

// Append registers record at index. index must not already be present.
func (t *Table) Append(index int32, record Record) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.records[index]; ok {
		return ErrIndexInUse
	}
	t.records[index] = record
	t.order = append(t.order, index)
	return nil
}

// Delete removes and returns the record at index, if present.
func (t *Table) Delete(index int32) (Record, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	rec, ok := t.records[index]
	if !ok {
		return Record{}, false
	}
	delete(t.records, index)
	t.removeFromOrder(index)
	return rec, true
}

// removeFromOrder splices index out of the FIFO order slice. Callers must
// hold the write lock.
func (t *Table) removeFromOrder(index int32) {
	for i, v := range t.order {
		if v == index {
			t.order = append(t.order[:i], t.order[i+1:]...)
			return
		}
	}
}

// TimeoutScan returns, in FIFO insertion order, every entry whose sent_at
// is older than timeout, capped at maxReturn. Returned entries are removed
// from the table. Because sent_at is monotone non-decreasing across
// inserts and the walk starts at the head, the scan stops at the first
// live entry rather than continuing past it.
func (t *Table) TimeoutScan(timeout time.Duration, maxReturn int) []Entry {
	cutoff := time.Now().Add(-timeout)

	t.mu.Lock()
	defer t.mu.Unlock()

	var out []Entry
	consumed := 0
	for consumed < len(t.order) && len(out) < maxReturn {
		index := t.order[consumed]
		rec, ok := t.records[index]
		if !ok {
			// Stale order entry from a prior delete race; skip it.
			consumed++
			continue
		}
		if rec.SentAt.After(cutoff) {
			break
		}
		out = append(out, Entry{Index: index, Record: rec})
		delete(t.records, index)
		consumed++
	}
	t.order = t.order[consumed:]
	return out
}

// IsEmpty reports whether no live queries remain.
func (t *Table) IsEmpty() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.records) == 0
}

// Len returns the current number of live queries.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.records)
}

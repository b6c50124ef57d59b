package discovery

import "sync"

// Store is a thread-safe, unbounded sequence of discovered names. A plain
// mutex guards the backing slice; appends happen from the single Receive &
// Dispatch consumer, so contention is never meaningful, but the store may
// still be read concurrently from a progress reporter.
type Store struct {
	mu    sync.Mutex
	names []Name
}

// NewStore creates an empty discovery store.
func NewStore() *Store {
	return &Store{}
}

// Add appends one discovered name.
func (s *Store) Add(n Name) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.names = append(s.names, n)
}

// Snapshot returns a copy of everything discovered so far. Safe to call
// while the scan is still running or after the scan has stopped (the
// normal, frozen-result case).
func (s *Store) Snapshot() []Name {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Name, len(s.names))
	copy(out, s.names)
	return out
}

// Summarize computes the {total, unique_rdata, by_record_type} result
// contract over the store's current contents.
func (s *Store) Summarize() Summary {
	names := s.Snapshot()
	return Summarize(names)
}

// Summarize computes a Summary over an arbitrary slice of names, so callers
// that have already filtered a snapshot (e.g. wildcard suppression) can
// summarize the filtered set without re-reading the store.
func Summarize(names []Name) Summary {
	sum := Summary{
		Total:        len(names),
		ByRecordType: make(map[RecordType]int),
	}
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		sum.ByRecordType[n.RecordType]++
		if _, ok := seen[n.RDataText]; !ok {
			seen[n.RDataText] = struct{}{}
			sum.UniqueRDATA++
		}
	}
	return sum
}

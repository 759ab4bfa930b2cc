package domain

import "sort"

// LedgerVersion is the current format version of the persisted ledger.
const LedgerVersion = 1

// ProcessedSet is the set of source IDs that reached the Recorded state.
// It is a completion record: it holds no target-side IDs.
type ProcessedSet map[string]struct{}

// NewProcessedSet creates a set holding the given IDs.
func NewProcessedSet(ids ...string) ProcessedSet {
	s := make(ProcessedSet, len(ids))
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Contains reports whether id has been processed.
func (s ProcessedSet) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

// Add records id as processed. Empty IDs are ignored.
func (s ProcessedSet) Add(id string) {
	if id == "" {
		return
	}
	s[id] = struct{}{}
}

// Remove forgets id.
func (s ProcessedSet) Remove(id string) {
	delete(s, id)
}

// Len returns the number of processed IDs.
func (s ProcessedSet) Len() int {
	return len(s)
}

// Sorted returns the IDs in ascending order, for reproducible persistence.
func (s ProcessedSet) Sorted() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Clone returns an independent copy of the set.
func (s ProcessedSet) Clone() ProcessedSet {
	c := make(ProcessedSet, len(s))
	for id := range s {
		c[id] = struct{}{}
	}
	return c
}

// IsSupersetOf reports whether every ID of other is also in s.
func (s ProcessedSet) IsSupersetOf(other ProcessedSet) bool {
	for id := range other {
		if !s.Contains(id) {
			return false
		}
	}
	return true
}

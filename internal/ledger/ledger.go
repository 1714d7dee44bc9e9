// Package ledger maintains the bounded set of fingerprints for notes that
// have already been imported, with sqlite-backed persistence.
package ledger

// Ledger is an insertion-ordered set of fingerprints. It is not safe for
// concurrent use; the importer's reentrancy guard ensures a single run
// mutates it at a time.
type Ledger struct {
	order []string
	seen  map[string]struct{}
	dirty bool
}

// DefaultMaxSize bounds the ledger when no capacity is configured.
const DefaultMaxSize = 5000

// New creates an empty ledger.
func New() *Ledger {
	return &Ledger{seen: make(map[string]struct{})}
}

// FromFingerprints builds a ledger from a persisted sequence, preserving
// order and dropping duplicates.
func FromFingerprints(fps []string) *Ledger {
	l := New()
	for _, fp := range fps {
		l.Add(fp)
	}
	l.dirty = false
	return l
}

// Contains reports whether fp has been imported before.
func (l *Ledger) Contains(fp string) bool {
	_, ok := l.seen[fp]
	return ok
}

// Add records fp. Adding a fingerprint that is already present is a no-op
// and does not refresh its age.
func (l *Ledger) Add(fp string) {
	if l.Contains(fp) {
		return
	}
	l.seen[fp] = struct{}{}
	l.order = append(l.order, fp)
	l.dirty = true
}

// EvictToCapacity drops the oldest entries (by insertion order, FIFO — not
// recency of access) until at most maxSize remain. It must only run after
// a batch completes, never between records of the same run.
func (l *Ledger) EvictToCapacity(maxSize int) {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	if len(l.order) <= maxSize {
		return
	}
	evicted := l.order[:len(l.order)-maxSize]
	for _, fp := range evicted {
		delete(l.seen, fp)
	}
	l.order = append([]string(nil), l.order[len(l.order)-maxSize:]...)
	l.dirty = true
}

// Clear empties the ledger. Used for explicit user-triggered history reset.
func (l *Ledger) Clear() {
	if len(l.order) == 0 {
		return
	}
	l.order = nil
	l.seen = make(map[string]struct{})
	l.dirty = true
}

// Len returns the number of stored fingerprints.
func (l *Ledger) Len() int {
	return len(l.order)
}

// Fingerprints returns the stored fingerprints in insertion order.
func (l *Ledger) Fingerprints() []string {
	return append([]string(nil), l.order...)
}

// Dirty reports whether the ledger changed since the last MarkClean.
func (l *Ledger) Dirty() bool {
	return l.dirty
}

// MarkClean resets the dirty flag after a successful flush.
func (l *Ledger) MarkClean() {
	l.dirty = false
}

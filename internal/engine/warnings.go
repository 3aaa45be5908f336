package engine

import "sync"

// WarningTracker remembers which servers have failed at least once since
// the last clear. The flag is sticky: recording a success never removes a
// name. Safe for use from every poll loop.
type WarningTracker struct {
	mu     sync.Mutex
	warned map[string]bool
}

func NewWarningTracker() *WarningTracker {
	return &WarningTracker{warned: make(map[string]bool)}
}

// Record notes the outcome of a poll. Only failures mutate the set.
func (w *WarningTracker) Record(name string, hadError bool) {
	if !hadError {
		return
	}
	w.mu.Lock()
	w.warned[name] = true
	w.mu.Unlock()
}

// IsWarned reports whether the server has failed since the last clear.
func (w *WarningTracker) IsWarned(name string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.warned[name]
}

// ClearAll empties the set.
func (w *WarningTracker) ClearAll() {
	w.mu.Lock()
	w.warned = make(map[string]bool)
	w.mu.Unlock()
}

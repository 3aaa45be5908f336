package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWarningTrackerSticky(t *testing.T) {
	w := NewWarningTracker()
	assert.False(t, w.IsWarned("api"))

	w.Record("api", true)
	assert.True(t, w.IsWarned("api"))

	// Subsequent successes do not clear the flag.
	w.Record("api", false)
	w.Record("api", false)
	assert.True(t, w.IsWarned("api"))
}

func TestWarningTrackerClearAll(t *testing.T) {
	w := NewWarningTracker()
	w.Record("api", true)
	w.Record("db", true)
	w.Record("cache", false)

	w.ClearAll()
	assert.False(t, w.IsWarned("api"))
	assert.False(t, w.IsWarned("db"))
	assert.False(t, w.IsWarned("cache"))
}

package engine

// RingBuffer is a generic fixed-capacity circular buffer. Each instance is
// owned by a single poll loop, so access is not synchronized; readers only
// ever see the copies produced by All.
type RingBuffer[T any] struct {
	items []T
	head  int
	count int
	cap   int
}

// NewRingBuffer creates a new RingBuffer with the given capacity.
func NewRingBuffer[T any](capacity int) *RingBuffer[T] {
	return &RingBuffer[T]{
		items: make([]T, capacity),
		cap:   capacity,
	}
}

// Add inserts an item, overwriting the oldest if full.
func (r *RingBuffer[T]) Add(item T) {
	r.items[r.head] = item
	r.head = (r.head + 1) % r.cap
	if r.count < r.cap {
		r.count++
	}
}

// Len returns the number of items currently in the buffer.
func (r *RingBuffer[T]) Len() int {
	return r.count
}

// All returns a copy of all items in order from oldest to newest.
func (r *RingBuffer[T]) All() []T {
	result := make([]T, r.count)
	start := 0
	if r.count == r.cap {
		start = r.head
	}
	for i := 0; i < r.count; i++ {
		result[i] = r.items[(start+i)%r.cap]
	}
	return result
}

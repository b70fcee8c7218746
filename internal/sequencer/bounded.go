package sequencer

// overflowPolicy decides what a full boundedList does with a new entry.
type overflowPolicy int

const (
	dropOldest overflowPolicy = iota
	rejectNew
)

// boundedList is a capacity-limited slice used as a FIFO queue (pushBack/popFront)
// or a LIFO stack (pushBack/popBack). Index 0 is always the oldest entry.
type boundedList[T any] struct {
	items    []T
	capacity int
	policy   overflowPolicy
}

func newBoundedList[T any](capacity int, policy overflowPolicy) *boundedList[T] {
	return &boundedList[T]{
		items:    make([]T, 0, capacity),
		capacity: capacity,
		policy:   policy,
	}
}

// pushBack appends v. It returns false if v was rejected.
func (l *boundedList[T]) pushBack(v T) bool {
	if len(l.items) >= l.capacity {
		if l.policy == rejectNew {
			return false
		}
		copy(l.items, l.items[1:])
		l.items = l.items[:len(l.items)-1]
	}
	l.items = append(l.items, v)
	return true
}

func (l *boundedList[T]) popFront() (T, bool) {
	var zero T
	if len(l.items) == 0 {
		return zero, false
	}
	v := l.items[0]
	copy(l.items, l.items[1:])
	l.items[len(l.items)-1] = zero
	l.items = l.items[:len(l.items)-1]
	return v, true
}

func (l *boundedList[T]) popBack() (T, bool) {
	var zero T
	if len(l.items) == 0 {
		return zero, false
	}
	last := len(l.items) - 1
	v := l.items[last]
	l.items[last] = zero
	l.items = l.items[:last]
	return v, true
}

func (l *boundedList[T]) back() (T, bool) {
	var zero T
	if len(l.items) == 0 {
		return zero, false
	}
	return l.items[len(l.items)-1], true
}

func (l *boundedList[T]) len() int {
	return len(l.items)
}

func (l *boundedList[T]) clear() {
	clear(l.items)
	l.items = l.items[:0]
}

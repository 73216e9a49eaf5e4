package box3d

// Slice backed stack used for tree traversal. The backing array is kept
// between traversals so repeated queries do not allocate.
type B3GrowableStack[T any] struct {
	items []T
}

func NewB3GrowableStack[T any](capacity int) *B3GrowableStack[T] {
	return &B3GrowableStack[T]{
		items: make([]T, 0, capacity),
	}
}

// Return the stack's length
func (s B3GrowableStack[T]) GetCount() int {
	return len(s.items)
}

// Push a new element onto the stack
func (s *B3GrowableStack[T]) Push(value T) {
	s.items = append(s.items, value)
}

// Remove the top element from the stack and return its value.
// ok is false when the stack is empty.
func (s *B3GrowableStack[T]) Pop() (value T, ok bool) {
	if len(s.items) == 0 {
		return value, false
	}
	value = s.items[len(s.items)-1]
	s.items = s.items[:len(s.items)-1]
	return value, true
}

func (s *B3GrowableStack[T]) Reset() {
	s.items = s.items[:0]
}

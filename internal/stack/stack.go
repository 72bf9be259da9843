// Package stack provides the explicit LIFO work stack used instead of call
// recursion by the walker, the encoder and the decoders.
package stack

type Stack[T any] struct {
	items []T
}

func New[T any]() *Stack[T] {
	return &Stack[T]{}
}

// NewWithCapacity reduces allocations when approximate stack size is known.
func NewWithCapacity[T any](capacity int) *Stack[T] {
	return &Stack[T]{
		items: make([]T, 0, capacity),
	}
}

// Push adds elements in order with the last element at the top.
func (s *Stack[T]) Push(items ...T) {
	s.items = append(s.items, items...)
}

// Pop clears the vacated slot so popped pointers do not pin memory.
func (s *Stack[T]) Pop() (T, bool) {
	var zero T
	if len(s.items) == 0 {
		return zero, false
	}

	index := len(s.items) - 1
	item := s.items[index]
	s.items[index] = zero
	s.items = s.items[:index]
	return item, true
}

func (s *Stack[T]) Peek() (T, bool) {
	if len(s.items) == 0 {
		var zero T
		return zero, false
	}

	return s.items[len(s.items)-1], true
}

// PeekRef allows modifying the top element in place. The pointer is only
// valid until the next Push.
func (s *Stack[T]) PeekRef() *T {
	if len(s.items) == 0 {
		return nil
	}

	return &s.items[len(s.items)-1]
}

func (s *Stack[T]) IsEmpty() bool {
	return len(s.items) == 0
}

func (s *Stack[T]) Size() int {
	return len(s.items)
}

// Truncate drops everything above size. Sizes outside [0, Size()] are ignored.
func (s *Stack[T]) Truncate(size int) {
	if size < 0 || size >= len(s.items) {
		return
	}

	var zero T
	for i := size; i < len(s.items); i++ {
		s.items[i] = zero
	}
	s.items = s.items[:size]
}

// Reset empties the stack but keeps its backing array.
func (s *Stack[T]) Reset() {
	s.Truncate(0)
}

// View orders from bottom to top of the stack. The slice aliases the stack
// and must not be modified or retained across Push/Pop.
func (s *Stack[T]) View() []T {
	return s.items
}

package path

import (
	"github.com/jacoelho/jindex/internal/stack"
	"github.com/jacoelho/jindex/internal/value"
)

// ComponentRenderer appends the textual form of one component to dst.
// The rendering of a path is the concatenation of its components.
type ComponentRenderer interface {
	AppendComponent(dst []byte, c Component) []byte
}

// Stack is the current root-to-node chain of components together with an
// interned rendering of every prefix of it.
//
// The rendered text lives in one buffer; ends[d] is the length of the prefix
// of depth d+1. Push renders only the new component and Pop truncates, so
// each component is rendered once per visit no matter how many records share
// the prefix.
type Stack struct {
	renderer   ComponentRenderer
	components *stack.Stack[Component]
	ends       *stack.Stack[int]
	rendered   []byte
}

func NewStack(renderer ComponentRenderer) *Stack {
	return &Stack{
		renderer:   renderer,
		components: stack.NewWithCapacity[Component](32),
		ends:       stack.NewWithCapacity[int](32),
		rendered:   make([]byte, 0, 256),
	}
}

func (s *Stack) Push(c Component) {
	s.components.Push(c)
	s.rendered = s.renderer.AppendComponent(s.rendered, c)
	s.ends.Push(len(s.rendered))
}

// Pop removes the deepest component. It reports false on an empty stack.
func (s *Stack) Pop() bool {
	if _, ok := s.components.Pop(); !ok {
		return false
	}
	s.ends.Pop()

	end, ok := s.ends.Peek()
	if !ok {
		end = 0
	}
	s.rendered = s.rendered[:end]
	return true
}

func (s *Stack) Depth() int {
	return s.components.Size()
}

// Path returns a view of the current components; it is invalidated by the
// next Push or Pop.
func (s *Stack) Path() Path {
	return Path(s.components.View())
}

// Snapshot returns a copy of the current path.
func (s *Stack) Snapshot() Path {
	return s.Path().Clone()
}

// Rendered returns the cached rendering of the whole current path. The slice
// is invalidated by the next Push or Pop.
func (s *Stack) Rendered() []byte {
	return s.rendered
}

// RenderedAt returns the cached rendering of the prefix of the given depth.
func (s *Stack) RenderedAt(depth int) []byte {
	if depth <= 0 {
		return s.rendered[:0]
	}
	ends := s.ends.View()
	if depth > len(ends) {
		depth = len(ends)
	}
	return s.rendered[:ends[depth-1]]
}

// Reset empties the stack and keeps its buffers.
func (s *Stack) Reset() {
	s.components.Reset()
	s.ends.Reset()
	s.rendered = s.rendered[:0]
}

// Record is one emitted (path, value) pair. Path and Rendered are views into
// the walker's Stack and are only valid during the call that receives them.
type Record struct {
	Path     Path
	Rendered []byte
	Value    *value.Value
}

// Snapshot returns a copy of the record that is safe to retain. The value
// itself is shared since documents are immutable during a walk.
func (r Record) Snapshot() Record {
	return Record{
		Path:     r.Path.Clone(),
		Rendered: append([]byte(nil), r.Rendered...),
		Value:    r.Value,
	}
}

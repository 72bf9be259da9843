// Package walk enumerates every node of a document and writes one line per
// qualifying node.
//
// The traversal keeps an explicit stack of frames instead of recursing, so
// the nesting depth it can handle is bounded by memory only. Children are
// visited from the last to the first. The order of the emitted lines is not
// part of the contract and may change between versions.
package walk

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/jacoelho/jindex/internal/format"
	"github.com/jacoelho/jindex/internal/path"
	"github.com/jacoelho/jindex/internal/stack"
	"github.com/jacoelho/jindex/internal/value"
)

// pollInterval is the number of visited nodes between context checks.
const pollInterval = 1024

var ErrInputShape = errors.New("input value must be either a JSON array or JSON object")

// Stats summarises the walks performed by a Walker.
type Stats struct {
	Nodes    int
	Records  int
	MaxDepth int
}

// frame is a container whose children are still being visited; next is the
// index of the next child, counting down to -1.
type frame struct {
	node *value.Value
	next int
}

// Walker is single use per goroutine. It owns its path stack and frames.
type Walker struct {
	formatter format.Formatter
	mode      format.Mode
	out       io.Writer
	paths     *path.Stack
	frames    *stack.Stack[frame]
	line      []byte
	stats     Stats
}

func New(f format.Formatter, mode format.Mode, out io.Writer) *Walker {
	return &Walker{
		formatter: f,
		mode:      mode,
		out:       out,
		paths:     path.NewStack(f),
		frames:    stack.NewWithCapacity[frame](32),
		line:      make([]byte, 0, 256),
	}
}

func (w *Walker) Stats() Stats {
	return w.stats
}

// Walk emits the records of a whole document. The root must be an array or
// an object; anything else fails with ErrInputShape before any output.
func (w *Walker) Walk(ctx context.Context, root *value.Value) error {
	if err := CheckRoot(root); err != nil {
		return err
	}
	return w.WalkAt(ctx, nil, root)
}

// CheckRoot reports whether root can be walked as a whole document.
func CheckRoot(root *value.Value) error {
	if !root.IsContainer() {
		return fmt.Errorf("%w, got: %s", ErrInputShape, root.Kind())
	}
	return nil
}

// WalkAt emits the records of the subtree node, which lives at prefix inside
// a larger document. Any kind of node is accepted.
func (w *Walker) WalkAt(ctx context.Context, prefix path.Path, node *value.Value) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	w.paths.Reset()
	w.frames.Reset()
	for _, c := range prefix {
		w.paths.Push(c)
	}

	if err := w.visit(node); err != nil {
		return err
	}
	if node.Len() > 0 {
		w.frames.Push(frame{node: node, next: node.Len() - 1})
	}

	for !w.frames.IsEmpty() {
		top := w.frames.PeekRef()
		if top.next < 0 {
			w.frames.Pop()
			// every frame but the first was entered through a component
			if !w.frames.IsEmpty() {
				w.paths.Pop()
			}
			continue
		}

		parent, i := top.node, top.next
		top.next--

		var child *value.Value
		if parent.Kind() == value.KindArray {
			child = parent.Item(i)
			w.paths.Push(path.Index(i))
		} else {
			key, v := parent.Member(i)
			child = v
			w.paths.Push(path.Key(key))
		}

		if err := w.visit(child); err != nil {
			return err
		}

		if child.Len() > 0 {
			w.frames.Push(frame{node: child, next: child.Len() - 1})
		} else {
			w.paths.Pop()
		}

		if w.stats.Nodes%pollInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
	}

	return nil
}

func (w *Walker) visit(node *value.Value) error {
	w.stats.Nodes++
	if depth := w.paths.Depth(); depth > w.stats.MaxDepth {
		w.stats.MaxDepth = depth
	}

	if !w.mode.Emits(node) {
		return nil
	}

	rec := path.Record{
		Path:     w.paths.Path(),
		Rendered: w.paths.Rendered(),
		Value:    node,
	}

	var err error
	w.line, err = w.formatter.AppendRecord(w.line[:0], rec)
	if err != nil {
		return fmt.Errorf("format record %s: %w", rec.Path.Pointer(), err)
	}
	w.line = append(w.line, '\n')

	if _, err := w.out.Write(w.line); err != nil {
		return fmt.Errorf("write record: %w", err)
	}
	w.stats.Records++
	return nil
}

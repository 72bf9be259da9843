// Package assemble rebuilds a document from (path, value) records, the
// inverse of the json output format.
//
// Records may arrive in any order. Missing array elements become null.
// Records for composites (emitted with --all) and records for their children
// are merged. Object members are laid out in the reverse of the order their
// keys were first seen, which restores document order for records written
// by the walker, since it visits the last child first.
package assemble

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/jacoelho/jindex/internal/decode"
	"github.com/jacoelho/jindex/internal/path"
	"github.com/jacoelho/jindex/internal/stack"
	"github.com/jacoelho/jindex/internal/value"
)

var (
	ErrConflict      = errors.New("conflicting records")
	ErrInvalidRecord = errors.New("invalid record")
	ErrNoRecords     = errors.New("no records")
)

type nodeKind uint8

const (
	nodeUnset nodeKind = iota
	nodeLeaf
	nodeArray
	nodeObject
)

type node struct {
	kind  nodeKind
	leaf  value.Value
	items []*node
	// keys is in order of first appearance.
	keys     []string
	children map[string]*node
}

// Assembler accumulates records into a document.
type Assembler struct {
	root    node
	records int
}

func New() *Assembler {
	return &Assembler{}
}

// Add places v at p.
func (a *Assembler) Add(p path.Path, v value.Value) error {
	current := &a.root
	for depth, c := range p {
		if err := current.open(c); err != nil {
			return fmt.Errorf("%w at %s: %w", ErrConflict, p[:depth].Pointer(), err)
		}
		current = current.child(c)
	}

	if err := current.set(v); err != nil {
		return fmt.Errorf("%w at %s: %w", ErrConflict, p.Pointer(), err)
	}
	a.records++
	return nil
}

// Value returns the assembled document.
func (a *Assembler) Value() (value.Value, error) {
	if a.records == 0 {
		return value.Null(), ErrNoRecords
	}
	return build(&a.root), nil
}

// open makes n a container able to hold c, expanding a composite leaf one
// level when needed.
func (n *node) open(c path.Component) error {
	want := nodeObject
	if c.IsIndex() {
		want = nodeArray
	}

	switch n.kind {
	case nodeUnset:
		n.kind = want
		if want == nodeObject {
			n.children = make(map[string]*node)
		}
		return nil
	case nodeLeaf:
		if !n.leaf.IsContainer() || kindOf(&n.leaf) != want {
			return fmt.Errorf("cannot address %s inside %s", c, n.leaf.Kind())
		}
		leaf := n.leaf
		n.kind = want
		n.leaf = value.Null()
		if want == nodeObject {
			n.children = make(map[string]*node)
		}
		return n.merge(&leaf)
	default:
		if n.kind != want {
			return fmt.Errorf("cannot address %s inside %s", c, n.describe())
		}
		return nil
	}
}

func (n *node) child(c path.Component) *node {
	if c.IsIndex() {
		for len(n.items) <= c.Index() {
			n.items = append(n.items, &node{})
		}
		return n.items[c.Index()]
	}

	child, ok := n.children[c.Key()]
	if !ok {
		child = &node{}
		n.children[c.Key()] = child
		n.keys = append(n.keys, c.Key())
	}
	return child
}

func (n *node) set(v value.Value) error {
	switch n.kind {
	case nodeUnset:
		n.kind = nodeLeaf
		n.leaf = v
		return nil
	case nodeLeaf:
		if !value.Equal(&n.leaf, &v) {
			return errors.New("different values for the same path")
		}
		return nil
	default:
		if kindOf(&v) != n.kind {
			return fmt.Errorf("%s value for a path holding %s", v.Kind(), n.describe())
		}
		return n.merge(&v)
	}
}

// merge adds the children of the composite v to the container n, last child
// first, like the walker.
func (n *node) merge(v *value.Value) error {
	for i := v.Len() - 1; i >= 0; i-- {
		var c path.Component
		var childValue *value.Value
		if v.Kind() == value.KindArray {
			c, childValue = path.Index(i), v.Item(i)
		} else {
			key, cv := v.Member(i)
			c, childValue = path.Key(key), cv
		}
		if err := n.child(c).set(*childValue); err != nil {
			return err
		}
	}
	return nil
}

func (n *node) describe() string {
	if n.kind == nodeArray {
		return "array"
	}
	return "object"
}

func kindOf(v *value.Value) nodeKind {
	switch v.Kind() {
	case value.KindArray:
		return nodeArray
	case value.KindObject:
		return nodeObject
	default:
		return nodeLeaf
	}
}

type buildTask struct {
	n   *node
	dst *value.Value
}

func build(root *node) value.Value {
	var out value.Value

	work := stack.New[buildTask]()
	work.Push(buildTask{n: root, dst: &out})

	for !work.IsEmpty() {
		t, _ := work.Pop()
		switch t.n.kind {
		case nodeUnset:
			*t.dst = value.Null()
		case nodeLeaf:
			*t.dst = t.n.leaf
		case nodeArray:
			items := make([]value.Value, len(t.n.items))
			for i, child := range t.n.items {
				work.Push(buildTask{n: child, dst: &items[i]})
			}
			*t.dst = value.Array(items...)
		case nodeObject:
			last := len(t.n.keys) - 1
			members := make([]value.Member, len(t.n.keys))
			for i, key := range t.n.keys {
				members[last-i].Key = key
				work.Push(buildTask{n: t.n.children[key], dst: &members[last-i].Value})
			}
			*t.dst = value.Object(members...)
		}
	}

	return out
}

// Read assembles the document described by newline-separated json records
// such as {"path_components":["a",0],"value":1}. Blank lines are skipped.
func Read(r io.Reader) (value.Value, error) {
	a := New()
	br := bufio.NewReader(r)

	for lineNo := 1; ; lineNo++ {
		line, readErr := br.ReadBytes('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return value.Null(), readErr
		}

		if trimmed := bytes.TrimSpace(line); len(trimmed) > 0 {
			p, v, err := parseRecord(trimmed)
			if err != nil {
				return value.Null(), fmt.Errorf("line %d: %w", lineNo, err)
			}
			if err := a.Add(p, v); err != nil {
				return value.Null(), fmt.Errorf("line %d: %w", lineNo, err)
			}
		}

		if readErr != nil {
			break
		}
	}

	return a.Value()
}

func parseRecord(line []byte) (path.Path, value.Value, error) {
	rec, err := decode.JSON(bytes.NewReader(line))
	if err != nil {
		return nil, value.Null(), err
	}
	if rec.Kind() != value.KindObject {
		return nil, value.Null(), fmt.Errorf("%w: want an object, got %s", ErrInvalidRecord, rec.Kind())
	}

	components, ok := rec.Get("path_components")
	if !ok || components.Kind() != value.KindArray {
		return nil, value.Null(), fmt.Errorf("%w: missing path_components array", ErrInvalidRecord)
	}
	v, ok := rec.Get("value")
	if !ok {
		return nil, value.Null(), fmt.Errorf("%w: missing value", ErrInvalidRecord)
	}

	p := make(path.Path, 0, components.Len())
	for i := 0; i < components.Len(); i++ {
		c := components.Item(i)
		switch c.Kind() {
		case value.KindString:
			p = append(p, path.Key(c.Text()))
		case value.KindNumber:
			index, err := strconv.Atoi(c.Text())
			if err != nil || index < 0 {
				return nil, value.Null(), fmt.Errorf("%w: path component %s is not an array index", ErrInvalidRecord, c.Text())
			}
			p = append(p, path.Index(index))
		default:
			return nil, value.Null(), fmt.Errorf("%w: path component of type %s", ErrInvalidRecord, c.Kind())
		}
	}

	return p, *v, nil
}

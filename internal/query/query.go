// Package query narrows a document to the subtrees matched by a JSONPath
// expression (RFC 9535).
package query

import (
	"errors"
	"fmt"
	"slices"

	"github.com/theory/jsonpath"
	"github.com/theory/jsonpath/spec"

	"github.com/jacoelho/jindex/internal/path"
	"github.com/jacoelho/jindex/internal/value"
)

var (
	ErrInvalidQuery = errors.New("invalid JSONPath query")
	ErrUnresolved   = errors.New("JSONPath match does not resolve in the document")
)

// Match is a selected subtree and its location in the document.
type Match struct {
	Path path.Path
	Node *value.Value
}

// Validate checks that expr parses.
func Validate(expr string) error {
	if _, err := jsonpath.Parse(expr); err != nil {
		return fmt.Errorf("%w %q: %v", ErrInvalidQuery, expr, err)
	}
	return nil
}

// Select evaluates expr against root and returns the matched nodes of root
// itself, not copies. Matches nested inside another match are dropped so that
// walking every match never visits a node twice.
func Select(root *value.Value, expr string) ([]Match, error) {
	p, err := jsonpath.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidQuery, expr, err)
	}

	located := p.SelectLocated(root.Interface())

	matches := make([]Match, 0, len(located))
	for _, node := range located {
		components, err := toPath(node.Path)
		if err != nil {
			return nil, err
		}

		v, ok := path.Lookup(root, components)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnresolved, components.Pointer())
		}
		matches = append(matches, Match{Path: components, Node: v})
	}

	return outermost(matches), nil
}

func toPath(np spec.NormalizedPath) (path.Path, error) {
	out := make(path.Path, 0, len(np))
	for _, sel := range np {
		switch s := sel.(type) {
		case spec.Name:
			out = append(out, path.Key(string(s)))
		case spec.Index:
			if s < 0 {
				return nil, fmt.Errorf("%w: negative index %d", ErrUnresolved, int(s))
			}
			out = append(out, path.Index(int(s)))
		default:
			return nil, fmt.Errorf("%w: unsupported selector %T", ErrUnresolved, sel)
		}
	}
	return out, nil
}

// outermost drops every match that equals or lies below a shallower one.
func outermost(matches []Match) []Match {
	byDepth := slices.Clone(matches)
	slices.SortStableFunc(byDepth, func(a, b Match) int {
		return len(a.Path) - len(b.Path)
	})

	kept := make(map[string]bool, len(byDepth))
	out := make([]Match, 0, len(byDepth))
	for _, m := range byDepth {
		covered := false
		for depth := 0; depth <= len(m.Path); depth++ {
			if kept[m.Path[:depth].Pointer()] {
				covered = true
				break
			}
		}
		if covered {
			continue
		}
		kept[m.Path.Pointer()] = true
		out = append(out, m)
	}
	return out
}

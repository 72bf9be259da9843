// Package path models locations inside a document and caches their rendered
// text while a walker moves through the tree.
package path

import (
	"strconv"
	"strings"

	"github.com/jacoelho/jindex/internal/value"
)

// Component is one step from a container to a child: an object key or an
// array index.
type Component struct {
	key     string
	index   int
	isIndex bool
}

func Key(k string) Component {
	return Component{key: k}
}

// Index panics on negative values.
func Index(i int) Component {
	if i < 0 {
		panic("path: negative index " + strconv.Itoa(i))
	}
	return Component{index: i, isIndex: true}
}

func (c Component) IsIndex() bool {
	return c.isIndex
}

// Key returns the object key; it is empty for index components.
func (c Component) Key() string {
	return c.key
}

// Index returns the array index; it is zero for key components.
func (c Component) Index() int {
	return c.index
}

func (c Component) String() string {
	if c.isIndex {
		return strconv.Itoa(c.index)
	}
	return strconv.Quote(c.key)
}

// Path lists the components from the root to a node. The empty path is the
// root itself.
type Path []Component

// Clone returns a copy that does not alias p.
func (p Path) Clone() Path {
	if p == nil {
		return nil
	}
	out := make(Path, len(p))
	copy(out, p)
	return out
}

// Pointer renders p as an RFC 6901 JSON pointer.
func (p Path) Pointer() string {
	var buf []byte
	for _, c := range p {
		buf = AppendPointerToken(buf, c)
	}
	return string(buf)
}

// AppendPointerToken appends "/" and the escaped reference token for c.
func AppendPointerToken(dst []byte, c Component) []byte {
	dst = append(dst, '/')
	if c.isIndex {
		return strconv.AppendInt(dst, int64(c.index), 10)
	}

	key := c.key
	if !strings.ContainsAny(key, "~/") {
		return append(dst, key...)
	}
	for i := 0; i < len(key); i++ {
		switch key[i] {
		case '~':
			dst = append(dst, '~', '0')
		case '/':
			dst = append(dst, '~', '1')
		default:
			dst = append(dst, key[i])
		}
	}
	return dst
}

// Lookup follows p from root. Key components only match object members and
// index components only match array elements.
func Lookup(root *value.Value, p Path) (*value.Value, bool) {
	current := root
	for _, c := range p {
		switch current.Kind() {
		case value.KindArray:
			if !c.isIndex || c.index >= current.Len() {
				return nil, false
			}
			current = current.Item(c.index)
		case value.KindObject:
			if c.isIndex {
				return nil, false
			}
			child, ok := current.Get(c.key)
			if !ok {
				return nil, false
			}
			current = child
		default:
			return nil, false
		}
	}
	return current, true
}

package value

import (
	"strconv"

	"github.com/jacoelho/jindex/internal/stack"
)

type pair struct {
	a, b *Value
}

// Equal reports whether a and b are structurally equal. Object members are
// compared by key regardless of their order; numbers are compared by their
// literal text.
func Equal(a, b *Value) bool {
	work := stack.New[pair]()
	work.Push(pair{a, b})

	for !work.IsEmpty() {
		p, _ := work.Pop()
		if p.a.kind != p.b.kind {
			return false
		}

		switch p.a.kind {
		case KindNull:
		case KindBool:
			if p.a.boolean != p.b.boolean {
				return false
			}
		case KindNumber, KindString:
			if p.a.text != p.b.text {
				return false
			}
		case KindArray:
			if len(p.a.items) != len(p.b.items) {
				return false
			}
			for i := range p.a.items {
				work.Push(pair{&p.a.items[i], &p.b.items[i]})
			}
		case KindObject:
			if len(p.a.members) != len(p.b.members) {
				return false
			}
			for i := range p.a.members {
				other, ok := p.b.Get(p.a.members[i].Key)
				if !ok {
					return false
				}
				work.Push(pair{&p.a.members[i].Value, other})
			}
		}
	}

	return true
}

type conversion struct {
	src *Value
	arr []any
	obj map[string]any
	idx int
	key string
}

// Interface converts v into the generic form produced by encoding/json:
// map[string]any, []any, string, float64, bool and nil. Numbers that do not
// fit a float64 become ±Inf.
func (v *Value) Interface() any {
	rootSlot := []any{nil}

	work := stack.New[conversion]()
	work.Push(conversion{src: v, arr: rootSlot})

	for !work.IsEmpty() {
		c, _ := work.Pop()

		var out any
		switch c.src.kind {
		case KindNull:
			out = nil
		case KindBool:
			out = c.src.boolean
		case KindNumber:
			f, _ := strconv.ParseFloat(c.src.text, 64)
			out = f
		case KindString:
			out = c.src.text
		case KindArray:
			arr := make([]any, len(c.src.items))
			for i := range c.src.items {
				work.Push(conversion{src: &c.src.items[i], arr: arr, idx: i})
			}
			out = arr
		case KindObject:
			obj := make(map[string]any, len(c.src.members))
			for i := range c.src.members {
				m := &c.src.members[i]
				work.Push(conversion{src: &m.Value, obj: obj, key: m.Key})
			}
			out = obj
		}

		if c.obj != nil {
			c.obj[c.key] = out
		} else {
			c.arr[c.idx] = out
		}
	}

	return rootSlot[0]
}

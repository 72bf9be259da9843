// Package encode writes values as compact JSON without recursing over the
// depth of the document.
package encode

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/jacoelho/jindex/internal/stack"
	"github.com/jacoelho/jindex/internal/value"
)

type taskKind uint8

const (
	taskValue taskKind = iota
	taskKey
	taskByte
)

type task struct {
	kind  taskKind
	comma bool
	b     byte
	key   string
	v     *value.Value
}

// Encoder appends compact JSON to byte slices. Strings are escaped like
// encoding/json with HTML escaping disabled. An Encoder reuses its scratch
// space and is not safe for concurrent use.
type Encoder struct {
	scratch bytes.Buffer
	strings *json.Encoder
	work    *stack.Stack[task]
}

func NewEncoder() *Encoder {
	e := &Encoder{work: stack.NewWithCapacity[task](64)}
	e.strings = json.NewEncoder(&e.scratch)
	e.strings.SetEscapeHTML(false)
	return e
}

// AppendString appends s as a quoted JSON string.
func (e *Encoder) AppendString(dst []byte, s string) []byte {
	if isPlain(s) {
		dst = append(dst, '"')
		dst = append(dst, s...)
		return append(dst, '"')
	}

	e.scratch.Reset()
	if err := e.strings.Encode(s); err != nil {
		// not reached for string inputs
		return strconv.AppendQuoteToASCII(dst, s)
	}
	return append(dst, bytes.TrimSuffix(e.scratch.Bytes(), []byte{'\n'})...)
}

// AppendValue appends the compact serialization of v, including every
// nested child.
func (e *Encoder) AppendValue(dst []byte, v *value.Value) ([]byte, error) {
	if !v.IsContainer() || v.Len() == 0 {
		return e.appendScalar(dst, v)
	}

	e.work.Reset()
	e.work.Push(task{kind: taskValue, v: v})

	var err error
	for !e.work.IsEmpty() {
		t, _ := e.work.Pop()

		switch t.kind {
		case taskByte:
			dst = append(dst, t.b)
			continue
		case taskKey:
			if t.comma {
				dst = append(dst, ',')
			}
			dst = e.AppendString(dst, t.key)
			dst = append(dst, ':')
			continue
		}

		if t.comma {
			dst = append(dst, ',')
		}

		switch t.v.Kind() {
		case value.KindArray:
			if t.v.Len() == 0 {
				dst = append(dst, '[', ']')
				continue
			}
			dst = append(dst, '[')
			e.work.Push(task{kind: taskByte, b: ']'})
			for i := t.v.Len() - 1; i >= 0; i-- {
				e.work.Push(task{kind: taskValue, v: t.v.Item(i), comma: i > 0})
			}
		case value.KindObject:
			if t.v.Len() == 0 {
				dst = append(dst, '{', '}')
				continue
			}
			dst = append(dst, '{')
			e.work.Push(task{kind: taskByte, b: '}'})
			for i := t.v.Len() - 1; i >= 0; i-- {
				key, child := t.v.Member(i)
				e.work.Push(task{kind: taskValue, v: child})
				e.work.Push(task{kind: taskKey, key: key, comma: i > 0})
			}
		default:
			if dst, err = e.appendScalar(dst, t.v); err != nil {
				return dst, err
			}
		}
	}

	return dst, nil
}

func (e *Encoder) appendScalar(dst []byte, v *value.Value) ([]byte, error) {
	switch v.Kind() {
	case value.KindNull:
		return append(dst, "null"...), nil
	case value.KindBool:
		if v.Bool() {
			return append(dst, "true"...), nil
		}
		return append(dst, "false"...), nil
	case value.KindNumber:
		return append(dst, v.Text()...), nil
	case value.KindString:
		return e.AppendString(dst, v.Text()), nil
	case value.KindArray:
		return append(dst, '[', ']'), nil
	case value.KindObject:
		return append(dst, '{', '}'), nil
	default:
		return dst, fmt.Errorf("encode: unsupported kind %s", v.Kind())
	}
}

// isPlain reports whether s can be quoted without any escaping.
func isPlain(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < 0x20 || c == '"' || c == '\\' || c >= 0x80 {
			return false
		}
	}
	return true
}

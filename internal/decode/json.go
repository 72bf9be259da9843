package decode

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/jacoelho/jindex/internal/stack"
	"github.com/jacoelho/jindex/internal/value"
)

// container is an array or object whose closing delimiter has not been read.
type container struct {
	array     bool
	items     []value.Value
	object    *value.ObjectBuilder
	key       string
	expectKey bool
}

// JSON decodes one JSON document. Containers are tracked on an explicit
// stack, so nesting depth is limited by memory only. Numbers keep their
// source text. Any non-whitespace input after the document is an error.
func JSON(r io.Reader) (value.Value, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	open := stack.New[*container]()

	for {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				if open.IsEmpty() {
					err = ErrEmptyInput
				} else {
					err = io.ErrUnexpectedEOF
				}
			}
			return value.Null(), jsonError(dec, err)
		}

		var v value.Value
		switch t := tok.(type) {
		case json.Delim:
			switch t {
			case '[':
				open.Push(&container{array: true, items: []value.Value{}})
				continue
			case '{':
				open.Push(&container{object: value.NewObjectBuilder(0), expectKey: true})
				continue
			case ']':
				c, _ := open.Pop()
				v = value.Array(c.items...)
			case '}':
				c, _ := open.Pop()
				v = c.object.Value()
			}
		case string:
			if top, ok := open.Peek(); ok && !top.array && top.expectKey {
				top.key = t
				top.expectKey = false
				continue
			}
			v = value.String(t)
		case json.Number:
			v = value.Number(t.String())
		case bool:
			v = value.Bool(t)
		case nil:
			v = value.Null()
		default:
			return value.Null(), jsonError(dec, fmt.Errorf("unexpected token %v", tok))
		}

		top, ok := open.Peek()
		if !ok {
			return v, expectEOF(dec)
		}
		if top.array {
			top.items = append(top.items, v)
		} else {
			top.object.Set(top.key, v)
			top.expectKey = true
		}
	}
}

func expectEOF(dec *json.Decoder) error {
	offset := dec.InputOffset()
	_, err := dec.Token()
	switch {
	case errors.Is(err, io.EOF):
		return nil
	case err != nil:
		return jsonError(dec, err)
	default:
		return &ParseError{Format: FormatJSON, Offset: offset, Err: ErrTrailingData}
	}
}

func jsonError(dec *json.Decoder, err error) error {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return &ParseError{Format: FormatJSON, Offset: syntaxErr.Offset, Err: err}
	}
	return &ParseError{Format: FormatJSON, Offset: dec.InputOffset(), Err: err}
}

package decode

import (
	"bufio"
	"errors"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/jacoelho/jindex/internal/value"
)

// orderedMap keeps MessagePack map entries in wire order.
type orderedMap []orderedEntry

type orderedEntry struct {
	key   any
	value any
}

// MsgPack decodes one MessagePack value. Binary strings become base64 text
// and timestamps RFC 3339 strings.
func MsgPack(r io.Reader) (value.Value, error) {
	br := bufio.NewReader(r)
	dec := msgpack.NewDecoder(br)
	dec.SetMapDecoder(decodeOrderedMap)

	if _, err := br.Peek(1); err != nil {
		if errors.Is(err, io.EOF) {
			err = ErrEmptyInput
		}
		return value.Null(), &ParseError{Format: FormatMsgPack, Offset: -1, Err: err}
	}

	// DecodeInterface keeps bin payloads as []byte; the loose variant turns
	// them into strings.
	doc, err := dec.DecodeInterface()
	if err != nil {
		return value.Null(), &ParseError{Format: FormatMsgPack, Offset: -1, Err: err}
	}
	if _, err := br.ReadByte(); !errors.Is(err, io.EOF) {
		if err == nil {
			err = ErrTrailingData
		}
		return value.Null(), &ParseError{Format: FormatMsgPack, Offset: -1, Err: err}
	}

	v, err := fromGeneric(doc, nil)
	if err != nil {
		return value.Null(), &ParseError{Format: FormatMsgPack, Offset: -1, Err: err}
	}
	return v, nil
}

func decodeOrderedMap(d *msgpack.Decoder) (any, error) {
	n, err := d.DecodeMapLen()
	if err != nil {
		return nil, err
	}
	if n == -1 {
		return nil, nil
	}

	m := make(orderedMap, 0, n)
	for range n {
		k, err := d.DecodeInterface()
		if err != nil {
			return nil, err
		}
		v, err := d.DecodeInterface()
		if err != nil {
			return nil, err
		}
		m = append(m, orderedEntry{key: k, value: v})
	}
	return m, nil
}

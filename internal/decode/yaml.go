package decode

import (
	"errors"
	"io"

	"github.com/goccy/go-yaml"

	"github.com/jacoelho/jindex/internal/value"
)

// YAML decodes a stream holding exactly one YAML document. Mapping order is
// kept; non-string keys are rendered with fmt.Sprint.
func YAML(r io.Reader) (value.Value, error) {
	dec := yaml.NewDecoder(r, yaml.UseOrderedMap())

	var doc any
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			err = ErrEmptyInput
		}
		return value.Null(), &ParseError{Format: FormatYAML, Offset: -1, Err: err}
	}

	var next any
	if err := dec.Decode(&next); !errors.Is(err, io.EOF) {
		if err == nil {
			err = ErrTrailingData
		}
		return value.Null(), &ParseError{Format: FormatYAML, Offset: -1, Err: err}
	}

	v, err := fromGeneric(doc, nil)
	if err != nil {
		return value.Null(), &ParseError{Format: FormatYAML, Offset: -1, Err: err}
	}
	return v, nil
}

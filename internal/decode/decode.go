// Package decode reads documents into ordered value trees.
//
// JSON is the native input. YAML, TOML and MessagePack documents are mapped
// onto the same data model; object member order follows the source wherever
// the format records it.
package decode

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/jacoelho/jindex/internal/value"
)

// Format names an input syntax.
type Format string

const (
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatTOML    Format = "toml"
	FormatMsgPack Format = "msgpack"
)

var (
	ErrUnknownFormat = errors.New("unknown input format")
	ErrEmptyInput    = errors.New("empty input")
	ErrTrailingData  = errors.New("unexpected data after the top-level value")
)

// Formats lists the accepted input formats.
var Formats = []Format{FormatJSON, FormatYAML, FormatTOML, FormatMsgPack}

// ParseError reports malformed input. Offset is the byte offset reported by
// the parser, or -1 when the parser does not expose one.
type ParseError struct {
	Format Format
	Offset int64
	Err    error
}

func (e *ParseError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("parse %s input at offset %d: %v", e.Format, e.Offset, e.Err)
	}
	return fmt.Sprintf("parse %s input: %v", e.Format, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ParseFormat accepts the Format names plus "yml" and "mp".
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	case "msgpack", "mp":
		return FormatMsgPack, nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownFormat, name)
	}
}

// FormatFromFilename guesses the format from the file extension.
func FormatFromFilename(filename string) (Format, bool) {
	ext := strings.TrimPrefix(filepath.Ext(filename), ".")
	if ext == "" {
		return "", false
	}
	f, err := ParseFormat(ext)
	if err != nil {
		return "", false
	}
	return f, true
}

// Decode reads exactly one document in format f from r.
func Decode(r io.Reader, f Format) (value.Value, error) {
	switch f {
	case FormatJSON, "":
		return JSON(r)
	case FormatYAML:
		return YAML(r)
	case FormatTOML:
		return TOML(r)
	case FormatMsgPack:
		return MsgPack(r)
	default:
		return value.Null(), fmt.Errorf("%w %q", ErrUnknownFormat, f)
	}
}

// Package format turns (path, value) records into lines of text.
//
// Every formatter renders a path one component at a time so that the
// walker's path stack can cache the rendered prefixes, and renders a record
// from that cached prefix plus the value.
package format

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jacoelho/jindex/internal/ident"
	"github.com/jacoelho/jindex/internal/path"
	"github.com/jacoelho/jindex/internal/value"
)

const (
	NameGron        = "gron"
	NameJSONPointer = "json_pointer"
	NameJSONLine    = "json"

	DefaultSeparator = "\t"
	DefaultRootName  = "json"
)

var ErrUnknownFormat = errors.New("format: unknown format")

// Names lists the accepted formatter names.
var Names = []string{NameGron, NameJSONPointer, NameJSONLine}

// Mode selects which nodes become records.
type Mode uint8

const (
	// ScalarsOnly emits nulls, booleans, numbers, strings and empty
	// containers.
	ScalarsOnly Mode = iota
	// All emits every node, composites included.
	All
)

// Emits reports whether a node holding v produces a record under m.
func (m Mode) Emits(v *value.Value) bool {
	return m == All || v.IsScalar()
}

func (m Mode) String() string {
	if m == All {
		return "all"
	}
	return "scalars"
}

// Formatter renders path components and records. Implementations hold
// scratch buffers and must not be shared between concurrent walks.
type Formatter interface {
	path.ComponentRenderer
	// AppendRecord appends one line, without the trailing newline, for a
	// record whose rendered path was produced by AppendComponent.
	AppendRecord(dst []byte, rec path.Record) ([]byte, error)
}

// Options is the static configuration shared by the formatters.
type Options struct {
	// Separator sits between the pointer and the value in json_pointer output.
	Separator string
	// RootName prefixes every gron line.
	RootName string
	Mode     Mode
	// Identifiers decides which keys gron writes as ".key".
	Identifiers ident.Rule
	// Palette colours gron and json_pointer output; nil disables colour.
	Palette *Palette
}

func DefaultOptions() Options {
	return Options{
		Separator:   DefaultSeparator,
		RootName:    DefaultRootName,
		Mode:        ScalarsOnly,
		Identifiers: ident.Unicode,
	}
}

// New builds the formatter registered under name.
func New(name string, opts Options) (Formatter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", NameGron:
		return NewGron(opts), nil
	case NameJSONPointer:
		return NewJSONPointer(opts), nil
	case NameJSONLine:
		return NewJSONLine(), nil
	default:
		return nil, fmt.Errorf("%w %q, want one of: %s", ErrUnknownFormat, name, strings.Join(Names, ", "))
	}
}

// Render renders one record from scratch, without any prefix cache.
func Render(f Formatter, p path.Path, v *value.Value) (string, error) {
	var rendered []byte
	for _, c := range p {
		rendered = f.AppendComponent(rendered, c)
	}

	line, err := f.AppendRecord(nil, path.Record{Path: p, Rendered: rendered, Value: v})
	if err != nil {
		return "", err
	}
	return string(line), nil
}

package assemble

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/jacoelho/jindex/internal/decode"
	"github.com/jacoelho/jindex/internal/encode"
	"github.com/jacoelho/jindex/internal/format"
	"github.com/jacoelho/jindex/internal/path"
	"github.com/jacoelho/jindex/internal/value"
	"github.com/jacoelho/jindex/internal/walk"
)

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	docs := []string{
		`{"a":1,"c":["x","y"]}`,
		`[]`,
		`{}`,
		`[null,[],{},[[1]],{"":{"~/":"v"}}]`,
		`{"a/b":{"c~d":[true,false,null,1.5e3,-0]},"e":"f\n","g":[{"h":[{}]}]}`,
		`{"z":{"y":1,"x":2,"w":{"v":[3],"u":4}},"a":0}`,
	}

	for _, mode := range []format.Mode{format.ScalarsOnly, format.All} {
		for _, doc := range docs {
			t.Run(mode.String()+" "+doc, func(t *testing.T) {
				t.Parallel()

				original, err := decode.JSON(strings.NewReader(doc))
				if err != nil {
					t.Fatal(err)
				}

				var records bytes.Buffer
				if err := walk.New(format.NewJSONLine(), mode, &records).Walk(context.Background(), &original); err != nil {
					t.Fatalf("Walk() error = %v", err)
				}

				rebuilt, err := Read(&records)
				if err != nil {
					t.Fatalf("Read() error = %v", err)
				}
				if !value.Equal(&original, &rebuilt) {
					t.Fatalf("round trip of %s lost information", doc)
				}

				enc := encode.NewEncoder()
				want, err := enc.AppendValue(nil, &original)
				if err != nil {
					t.Fatal(err)
				}
				got, err := enc.AppendValue(nil, &rebuilt)
				if err != nil {
					t.Fatal(err)
				}
				if string(got) != string(want) {
					t.Errorf("member order changed: got %s, want %s", got, want)
				}
			})
		}
	}
}

func TestAddFillsGapsWithNull(t *testing.T) {
	t.Parallel()

	a := New()
	if err := a.Add(path.Path{path.Index(2)}, value.Int(7)); err != nil {
		t.Fatal(err)
	}

	got, err := a.Value()
	if err != nil {
		t.Fatal(err)
	}
	want := value.Array(value.Null(), value.Null(), value.Int(7))
	if !value.Equal(&got, &want) {
		t.Errorf("Value() = %v, want [null,null,7]", got.Interface())
	}
}

func TestAddConflicts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		first path.Path
		v1    value.Value
		next  path.Path
		v2    value.Value
	}{
		{name: "different scalars", first: path.Path{path.Key("a")}, v1: value.Int(1), next: path.Path{path.Key("a")}, v2: value.Int(2)},
		{name: "child below scalar", first: path.Path{path.Key("a")}, v1: value.Int(1), next: path.Path{path.Key("a"), path.Key("b")}, v2: value.Int(2)},
		{name: "index into object", first: path.Path{path.Key("a")}, v1: value.Int(1), next: path.Path{path.Index(0)}, v2: value.Int(2)},
		{name: "composite disagrees", first: path.Path{path.Key("a"), path.Index(0)}, v1: value.Int(1), next: path.Path{path.Key("a")}, v2: value.Array(value.Int(2))},
		{name: "object record over array", first: path.Path{path.Index(0)}, v1: value.Null(), next: nil, v2: value.Object()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			a := New()
			if err := a.Add(tt.first, tt.v1); err != nil {
				t.Fatal(err)
			}
			if err := a.Add(tt.next, tt.v2); !errors.Is(err, ErrConflict) {
				t.Fatalf("Add() error = %v, want ErrConflict", err)
			}
		})
	}
}

func TestReadErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  error
	}{
		{name: "no records", input: "\n\n", want: ErrNoRecords},
		{name: "not an object", input: "[1]\n", want: ErrInvalidRecord},
		{name: "missing value", input: `{"path_components":[]}`, want: ErrInvalidRecord},
		{name: "missing components", input: `{"value":1}`, want: ErrInvalidRecord},
		{name: "negative index", input: `{"path_components":[-1],"value":1}`, want: ErrInvalidRecord},
		{name: "fractional index", input: `{"path_components":[1.5],"value":1}`, want: ErrInvalidRecord},
		{name: "bad component", input: `{"path_components":[true],"value":1}`, want: ErrInvalidRecord},
		{name: "malformed", input: `{"path_components":`, want: io.ErrUnexpectedEOF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Read(strings.NewReader(tt.input))
			if !errors.Is(err, tt.want) {
				t.Fatalf("Read() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestReadReportsLine(t *testing.T) {
	t.Parallel()

	input := `{"path_components":["a"],"value":1}` + "\n" + `{"path_components":["a"],"value":2}` + "\n"
	_, err := Read(strings.NewReader(input))
	if err == nil || !strings.HasPrefix(err.Error(), "line 2:") {
		t.Fatalf("Read() error = %v, want line 2", err)
	}
}

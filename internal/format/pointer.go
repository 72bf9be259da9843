package format

import (
	"github.com/jacoelho/jindex/internal/encode"
	"github.com/jacoelho/jindex/internal/path"
)

// JSONPointer writes an RFC 6901 pointer, the separator and the value:
//
//	/users/0/first-name	"Ada"
type JSONPointer struct {
	separator string
	palette   *Palette
	enc       *encode.Encoder
	scratch   []byte
}

// NewJSONPointer keeps an empty separator as given; only DefaultOptions
// supplies the tab.
func NewJSONPointer(opts Options) *JSONPointer {
	return &JSONPointer{
		separator: opts.Separator,
		palette:   opts.Palette,
		enc:       encode.NewEncoder(),
	}
}

func (j *JSONPointer) AppendComponent(dst []byte, c path.Component) []byte {
	return path.AppendPointerToken(dst, c)
}

func (j *JSONPointer) AppendRecord(dst []byte, rec path.Record) ([]byte, error) {
	if j.palette == nil {
		dst = append(dst, rec.Rendered...)
		dst = append(dst, j.separator...)
		return j.enc.AppendValue(dst, rec.Value)
	}

	dst = j.palette.appendPath(dst, rec.Rendered)
	dst = append(dst, j.separator...)

	var err error
	j.scratch, err = j.enc.AppendValue(j.scratch[:0], rec.Value)
	if err != nil {
		return dst, err
	}
	return j.palette.appendValue(dst, rec.Value, j.scratch), nil
}

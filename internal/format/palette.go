package format

import (
	"github.com/fatih/color"

	"github.com/jacoelho/jindex/internal/value"
)

// Palette holds the colours used for paths and for each kind of value.
type Palette struct {
	path    *color.Color
	str     *color.Color
	number  *color.Color
	literal *color.Color
	empty   *color.Color
}

// NewPalette returns the default palette. Colours are forced on; deciding
// whether the destination is a terminal is the caller's job.
func NewPalette() *Palette {
	p := &Palette{
		path:    color.New(color.FgBlue, color.Bold),
		str:     color.New(color.FgYellow),
		number:  color.New(color.FgRed),
		literal: color.New(color.FgCyan),
		empty:   color.New(color.FgMagenta),
	}
	for _, c := range []*color.Color{p.path, p.str, p.number, p.literal, p.empty} {
		c.EnableColor()
	}
	return p
}

func (p *Palette) appendPath(dst []byte, text []byte) []byte {
	return append(dst, p.path.Sprint(string(text))...)
}

func (p *Palette) appendValue(dst []byte, v *value.Value, text []byte) []byte {
	var c *color.Color
	switch v.Kind() {
	case value.KindString:
		c = p.str
	case value.KindNumber:
		c = p.number
	case value.KindNull, value.KindBool:
		c = p.literal
	default:
		c = p.empty
	}
	return append(dst, c.Sprint(string(text))...)
}

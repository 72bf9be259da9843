package format

import (
	"strconv"

	"github.com/jacoelho/jindex/internal/encode"
	"github.com/jacoelho/jindex/internal/ident"
	"github.com/jacoelho/jindex/internal/path"
)

// Gron writes assignments in the style of https://github.com/tomnomnom/gron:
//
//	json.users[0]["first-name"] = "Ada";
type Gron struct {
	root    string
	rule    ident.Rule
	palette *Palette
	enc     *encode.Encoder
	scratch []byte
}

func NewGron(opts Options) *Gron {
	root := opts.RootName
	if root == "" {
		root = DefaultRootName
	}
	return &Gron{
		root:    root,
		rule:    opts.Identifiers,
		palette: opts.Palette,
		enc:     encode.NewEncoder(),
	}
}

func (g *Gron) AppendComponent(dst []byte, c path.Component) []byte {
	if c.IsIndex() {
		dst = append(dst, '[')
		dst = strconv.AppendInt(dst, int64(c.Index()), 10)
		return append(dst, ']')
	}

	if g.rule.IsIdentifier(c.Key()) {
		dst = append(dst, '.')
		return append(dst, c.Key()...)
	}

	dst = append(dst, '[')
	dst = g.enc.AppendString(dst, c.Key())
	return append(dst, ']')
}

func (g *Gron) AppendRecord(dst []byte, rec path.Record) ([]byte, error) {
	var err error
	if g.palette == nil {
		dst = append(dst, g.root...)
		dst = append(dst, rec.Rendered...)
		dst = append(dst, " = "...)
		if dst, err = g.enc.AppendValue(dst, rec.Value); err != nil {
			return dst, err
		}
		return append(dst, ';'), nil
	}

	g.scratch = append(g.scratch[:0], g.root...)
	g.scratch = append(g.scratch, rec.Rendered...)
	dst = g.palette.appendPath(dst, g.scratch)
	dst = append(dst, " = "...)

	g.scratch, err = g.enc.AppendValue(g.scratch[:0], rec.Value)
	if err != nil {
		return dst, err
	}
	dst = g.palette.appendValue(dst, rec.Value, g.scratch)
	return append(dst, ';'), nil
}

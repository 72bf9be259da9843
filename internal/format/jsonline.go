package format

import (
	"strconv"

	"github.com/jacoelho/jindex/internal/encode"
	"github.com/jacoelho/jindex/internal/path"
)

// JSONLine writes one compact JSON object per record:
//
//	{"path_components":["users",0,"first-name"],"value":"Ada"}
//
// Keys become strings and indexes integers, so the components can be fed
// back verbatim to rebuild the document.
type JSONLine struct {
	enc *encode.Encoder
}

func NewJSONLine() *JSONLine {
	return &JSONLine{enc: encode.NewEncoder()}
}

// AppendComponent renders each component with a leading comma; the comma of
// the first component is dropped in AppendRecord.
func (j *JSONLine) AppendComponent(dst []byte, c path.Component) []byte {
	dst = append(dst, ',')
	if c.IsIndex() {
		return strconv.AppendInt(dst, int64(c.Index()), 10)
	}
	return j.enc.AppendString(dst, c.Key())
}

func (j *JSONLine) AppendRecord(dst []byte, rec path.Record) ([]byte, error) {
	dst = append(dst, `{"path_components":[`...)
	if len(rec.Rendered) > 0 {
		dst = append(dst, rec.Rendered[1:]...)
	}
	dst = append(dst, `],"value":`...)

	dst, err := j.enc.AppendValue(dst, rec.Value)
	if err != nil {
		return dst, err
	}
	return append(dst, '}'), nil
}

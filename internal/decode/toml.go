package decode

import (
	"cmp"
	"io"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/jacoelho/jindex/internal/value"
)

// TOML decodes a TOML document. The decoder returns plain maps, so member
// order is recovered from the key order recorded in the metadata.
func TOML(r io.Reader) (value.Value, error) {
	var doc map[string]any
	md, err := toml.NewDecoder(r).Decode(&doc)
	if err != nil {
		return value.Null(), &ParseError{Format: FormatTOML, Offset: -1, Err: err}
	}

	rank := make(map[string]int)
	for i, key := range md.Keys() {
		joined := strings.Join(key, keyPathSep)
		if _, ok := rank[joined]; !ok {
			rank[joined] = i
		}
	}

	order := func(keyPath string, keys []string) {
		position := func(k string) (int, bool) {
			if keyPath != "" {
				k = keyPath + keyPathSep + k
			}
			i, ok := rank[k]
			return i, ok
		}
		slices.SortStableFunc(keys, func(a, b string) int {
			ra, okA := position(a)
			rb, okB := position(b)
			switch {
			case okA && okB:
				return cmp.Compare(ra, rb)
			case okA:
				return -1
			case okB:
				return 1
			default:
				return strings.Compare(a, b)
			}
		})
	}

	if doc == nil {
		doc = map[string]any{}
	}
	v, err := fromGeneric(doc, order)
	if err != nil {
		return value.Null(), &ParseError{Format: FormatTOML, Offset: -1, Err: err}
	}
	return v, nil
}

package decode

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/jacoelho/jindex/internal/stack"
	"github.com/jacoelho/jindex/internal/value"
)

// keyOrder sorts the keys of the map found at keyPath in place. keyPath is
// the chain of object keys from the root joined by keyPathSep; array indexes
// are not part of it.
type keyOrder func(keyPath string, keys []string)

const keyPathSep = "\x00"

// entry is one key/value pair of a decoded map before conversion.
type entry struct {
	key string
	src any
}

type conversion struct {
	src     any
	dst     *value.Value
	keyPath string
}

// fromGeneric converts the generic trees produced by third-party decoders.
// Maps without an intrinsic order are sorted with order, or lexically when
// order is nil.
func fromGeneric(root any, order keyOrder) (value.Value, error) {
	var out value.Value

	work := stack.New[conversion]()
	work.Push(conversion{src: root, dst: &out})

	for !work.IsEmpty() {
		c, _ := work.Pop()

		if v, ok, err := scalar(c.src); err != nil {
			return value.Null(), err
		} else if ok {
			*c.dst = v
			continue
		}

		switch src := c.src.(type) {
		case []any:
			items := make([]value.Value, len(src))
			for i := range src {
				work.Push(conversion{src: src[i], dst: &items[i], keyPath: c.keyPath})
			}
			*c.dst = value.Array(items...)
		case []map[string]any:
			items := make([]value.Value, len(src))
			for i := range src {
				work.Push(conversion{src: src[i], dst: &items[i], keyPath: c.keyPath})
			}
			*c.dst = value.Array(items...)
		default:
			entries, err := mapEntries(c.src, c.keyPath, order)
			if err != nil {
				return value.Null(), err
			}
			members := make([]value.Member, len(entries))
			for i, e := range entries {
				members[i].Key = e.key
				work.Push(conversion{src: e.src, dst: &members[i].Value, keyPath: childKeyPath(c.keyPath, e.key, order)})
			}
			*c.dst = value.Object(members...)
		}
	}

	return out, nil
}

func childKeyPath(parent, key string, order keyOrder) string {
	if order == nil {
		return ""
	}
	if parent == "" {
		return key
	}
	return parent + keyPathSep + key
}

// mapEntries lists the members of a map-like value with unique keys. A later
// duplicate replaces the value of the first occurrence.
func mapEntries(src any, keyPath string, order keyOrder) ([]entry, error) {
	var entries []entry
	ordered := true

	switch m := src.(type) {
	case yaml.MapSlice:
		for _, item := range m {
			entries = append(entries, entry{key: keyString(item.Key), src: item.Value})
		}
	case orderedMap:
		for _, item := range m {
			entries = append(entries, entry{key: keyString(item.key), src: item.value})
		}
	case map[string]any:
		ordered = false
		for k, v := range m {
			entries = append(entries, entry{key: k, src: v})
		}
	case map[any]any:
		ordered = false
		for k, v := range m {
			entries = append(entries, entry{key: keyString(k), src: v})
		}
	default:
		return nil, fmt.Errorf("unsupported value of type %T", src)
	}

	if ordered {
		return dedupe(entries), nil
	}

	entries = dedupe(entries)
	keys := make([]string, len(entries))
	byKey := make(map[string]any, len(entries))
	for i, e := range entries {
		keys[i] = e.key
		byKey[e.key] = e.src
	}
	if order != nil {
		order(keyPath, keys)
	} else {
		slices.Sort(keys)
	}
	for i, k := range keys {
		entries[i] = entry{key: k, src: byKey[k]}
	}
	return entries, nil
}

func dedupe(entries []entry) []entry {
	seen := make(map[string]int, len(entries))
	out := entries[:0]
	for _, e := range entries {
		if i, ok := seen[e.key]; ok {
			out[i].src = e.src
			continue
		}
		seen[e.key] = len(out)
		out = append(out, e)
	}
	return out
}

func keyString(k any) string {
	switch k := k.(type) {
	case string:
		return k
	case []byte:
		return string(k)
	case nil:
		return "null"
	default:
		return fmt.Sprint(k)
	}
}

// scalar converts leaf values; ok is false for containers.
func scalar(src any) (value.Value, bool, error) {
	switch v := src.(type) {
	case nil:
		return value.Null(), true, nil
	case bool:
		return value.Bool(v), true, nil
	case string:
		return value.String(v), true, nil
	case []byte:
		return value.String(base64.StdEncoding.EncodeToString(v)), true, nil
	case json.Number:
		return value.Number(v.String()), true, nil
	case int:
		return value.Int(int64(v)), true, nil
	case int8:
		return value.Int(int64(v)), true, nil
	case int16:
		return value.Int(int64(v)), true, nil
	case int32:
		return value.Int(int64(v)), true, nil
	case int64:
		return value.Int(v), true, nil
	case uint:
		return value.Number(strconv.FormatUint(uint64(v), 10)), true, nil
	case uint8:
		return value.Number(strconv.FormatUint(uint64(v), 10)), true, nil
	case uint16:
		return value.Number(strconv.FormatUint(uint64(v), 10)), true, nil
	case uint32:
		return value.Number(strconv.FormatUint(uint64(v), 10)), true, nil
	case uint64:
		return value.Number(strconv.FormatUint(v, 10)), true, nil
	case float32:
		return floatNumber(float64(v), 32)
	case float64:
		return floatNumber(v, 64)
	case time.Time:
		return value.String(formatTime(v)), true, nil
	default:
		return value.Null(), false, nil
	}
}

func floatNumber(f float64, bits int) (value.Value, bool, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return value.Null(), false, fmt.Errorf("number %v has no JSON representation", f)
	}
	return value.Number(strconv.FormatFloat(f, 'g', -1, bits)), true, nil
}

// formatTime keeps TOML local dates and times free of an invented offset.
// The TOML decoder marks them with these fixed zone names.
func formatTime(t time.Time) string {
	switch t.Location().String() {
	case "date-local":
		return t.Format(time.DateOnly)
	case "time-local":
		return t.Format("15:04:05.999999999")
	case "datetime-local":
		return t.Format("2006-01-02T15:04:05.999999999")
	default:
		return t.Format(time.RFC3339Nano)
	}
}

package value

// linearScanLimit is the member count up to which duplicate keys are found by
// scanning instead of through an index map.
const linearScanLimit = 16

// ObjectBuilder collects object members in insertion order. Setting a key
// that already exists replaces its value in place, keeping the position of
// the first occurrence.
type ObjectBuilder struct {
	members []Member
	index   map[string]int
}

func NewObjectBuilder(capacity int) *ObjectBuilder {
	return &ObjectBuilder{members: make([]Member, 0, capacity)}
}

func (b *ObjectBuilder) Set(key string, v Value) {
	if i, ok := b.lookup(key); ok {
		b.members[i].Value = v
		return
	}

	b.members = append(b.members, Member{Key: key, Value: v})
	if b.index != nil {
		b.index[key] = len(b.members) - 1
	}
}

func (b *ObjectBuilder) Len() int {
	return len(b.members)
}

// Value returns the built object. The builder must not be used afterwards.
func (b *ObjectBuilder) Value() Value {
	v := Object(b.members...)
	b.members = nil
	b.index = nil
	return v
}

func (b *ObjectBuilder) lookup(key string) (int, bool) {
	if b.index != nil {
		i, ok := b.index[key]
		return i, ok
	}

	for i := range b.members {
		if b.members[i].Key == key {
			return i, true
		}
	}

	if len(b.members) >= linearScanLimit {
		b.index = make(map[string]int, len(b.members)*2)
		for i := range b.members {
			b.index[b.members[i].Key] = i
		}
	}
	return 0, false
}

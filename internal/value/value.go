// Package value holds the in-memory document tree walked by jindex.
//
// Objects keep their members in insertion order and numbers keep the exact
// text they were decoded from, so re-serialization reproduces the source
// rather than a float64 approximation.
package value

import (
	"strconv"
)

// Kind identifies the JSON type of a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

var kindNames = [...]string{
	KindNull:   "null",
	KindBool:   "boolean",
	KindNumber: "number",
	KindString: "string",
	KindArray:  "array",
	KindObject: "object",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is a tagged JSON value. The zero Value is null.
type Value struct {
	kind    Kind
	boolean bool
	text    string // string contents, or the literal text of a number
	items   []Value
	members []Member
}

// Member is one key/value pair of an object.
type Member struct {
	Key   string
	Value Value
}

func Null() Value {
	return Value{}
}

func Bool(b bool) Value {
	return Value{kind: KindBool, boolean: b}
}

// Number wraps the literal text of a JSON number. The text is not validated.
func Number(text string) Value {
	return Value{kind: KindNumber, text: text}
}

func Int(n int64) Value {
	return Number(strconv.FormatInt(n, 10))
}

func String(s string) Value {
	return Value{kind: KindString, text: s}
}

// Array takes ownership of items.
func Array(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindArray, items: items}
}

// Object takes ownership of members. Keys are expected to be unique; use a
// Builder when they may not be.
func Object(members ...Member) Value {
	if members == nil {
		members = []Member{}
	}
	return Value{kind: KindObject, members: members}
}

func (v *Value) Kind() Kind {
	return v.kind
}

func (v *Value) Bool() bool {
	return v.boolean
}

// Text returns the string contents or the literal number text.
func (v *Value) Text() string {
	return v.text
}

// Len is the number of children of an array or object, zero otherwise.
func (v *Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.items)
	case KindObject:
		return len(v.members)
	default:
		return 0
	}
}

func (v *Value) IsContainer() bool {
	return v.kind == KindArray || v.kind == KindObject
}

// IsScalar reports whether v is null, a boolean, a number, a string, or an
// empty array or object.
func (v *Value) IsScalar() bool {
	return v.Len() == 0
}

// Item returns the i-th element of an array.
func (v *Value) Item(i int) *Value {
	return &v.items[i]
}

// Member returns the i-th member of an object.
func (v *Value) Member(i int) (string, *Value) {
	m := &v.members[i]
	return m.Key, &m.Value
}

// Get looks up key in an object, in O(n).
func (v *Value) Get(key string) (*Value, bool) {
	if v.kind != KindObject {
		return nil, false
	}
	for i := range v.members {
		if v.members[i].Key == key {
			return &v.members[i].Value, true
		}
	}
	return nil, false
}

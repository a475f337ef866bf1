package value

import (
	"errors"
	"fmt"
	"strconv"
)

// Kind identifies the variant held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is a decoded JSON node.
//
// The set of implementations is closed: Null, Bool, Number, String, Array
// and *Object.
type Value interface {
	Kind() Kind
	isValue()
}

// Null is the JSON null literal.
type Null struct{}

// Bool is a JSON boolean.
type Bool bool

// Number is a JSON number held in canonical text form.
type Number string

// String is a JSON string, already unescaped.
type String string

// Array is a JSON array.
type Array []Value

func (Null) Kind() Kind   { return KindNull }
func (Bool) Kind() Kind   { return KindBool }
func (Number) Kind() Kind { return KindNumber }
func (String) Kind() Kind { return KindString }
func (Array) Kind() Kind  { return KindArray }

func (Null) isValue()   {}
func (Bool) isValue()   {}
func (Number) isValue() {}
func (String) isValue() {}
func (Array) isValue()  {}

func (Null) String() string { return "null" }

func (b Bool) String() string { return strconv.FormatBool(bool(b)) }

func (n Number) String() string { return string(n) }

func (s String) String() string { return string(s) }

// Member is one field of an Object.
type Member struct {
	Key   string
	Value Value
}

// Object is a JSON object that remembers the order in which its fields
// were first seen. Setting an existing key replaces the value in place.
type Object struct {
	members []Member
	index   map[string]int
}

// NewObject creates an object from members, in order.
func NewObject(members ...Member) *Object {
	o := &Object{index: make(map[string]int, len(members))}
	for _, m := range members {
		o.Set(m.Key, m.Value)
	}
	return o
}

func (*Object) Kind() Kind { return KindObject }
func (*Object) isValue()   {}

// Set stores v under key.
func (o *Object) Set(key string, v Value) {
	if o.index == nil {
		o.index = make(map[string]int)
	}
	if i, ok := o.index[key]; ok {
		o.members[i].Value = v
		return
	}
	o.index[key] = len(o.members)
	o.members = append(o.members, Member{Key: key, Value: v})
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (Value, bool) {
	if o == nil {
		return nil, false
	}
	i, ok := o.index[key]
	if !ok {
		return nil, false
	}
	return o.members[i].Value, true
}

// Len returns the number of fields.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.members)
}

// Members returns the fields in source order. The slice must not be modified.
func (o *Object) Members() []Member {
	if o == nil {
		return nil
	}
	return o.members
}

// ErrNotFound indicates a pointer token that names no child.
var ErrNotFound = errors.New("value: no such member")

// JSONLookup resolves one JSON pointer token against the object.
func (o *Object) JSONLookup(token string) (any, error) {
	v, ok := o.Get(token)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, token)
	}
	return v, nil
}

// JSONLookup resolves one JSON pointer token against the array. Tokens must
// be plain decimal indexes without sign or leading zeros.
func (a Array) JSONLookup(token string) (any, error) {
	if token == "" || token[0] == '+' || token[0] == '-' || (len(token) > 1 && token[0] == '0') {
		return nil, fmt.Errorf("%w: invalid index %q", ErrNotFound, token)
	}
	i, err := strconv.Atoi(token)
	if err != nil || i >= len(a) {
		return nil, fmt.Errorf("%w: index %q", ErrNotFound, token)
	}
	return a[i], nil
}

// Package flatten turns a structured value into flat NAME=VALUE pairs
// suitable for process environment variables.
//
// Scalars produce one entry under the current name. Array elements are
// named prefix_<index>; object fields are named prefix_<KEY> with the key
// upper-cased (ASCII only). Traversal is depth-first, arrays in index order
// and objects in source field order, so the same input always yields the
// same sequence of names.
package flatten

import (
	"strconv"
	"strings"

	"github.com/jonwraymond/vaultexec/value"
)

// Entry is one flattened variable.
type Entry struct {
	Name  string
	Value string
}

type frame struct {
	name string
	v    value.Value
}

// Each visits every leaf of v and calls fn with its variable name and text.
// Iteration stops at the first error returned by fn.
func Each(prefix string, v value.Value, fn func(name, val string) error) error {
	stack := []frame{{name: prefix, v: v}}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch node := top.v.(type) {
		case value.Array:
			// Push in reverse so index 0 is visited first.
			for i := len(node) - 1; i >= 0; i-- {
				stack = append(stack, frame{name: top.name + "_" + strconv.Itoa(i), v: node[i]})
			}
		case *value.Object:
			members := node.Members()
			for i := len(members) - 1; i >= 0; i-- {
				stack = append(stack, frame{name: top.name + "_" + upper(members[i].Key), v: members[i].Value})
			}
		default:
			if err := fn(top.name, Scalar(node)); err != nil {
				return err
			}
		}
	}
	return nil
}

// Flatten collects the entries produced by Each.
func Flatten(prefix string, v value.Value) []Entry {
	var out []Entry
	_ = Each(prefix, v, func(name, val string) error {
		out = append(out, Entry{Name: name, Value: val})
		return nil
	})
	return out
}

// Scalar returns the text stored for a leaf value. A nil value is treated
// as null.
func Scalar(v value.Value) string {
	switch s := v.(type) {
	case nil, value.Null:
		return "null"
	case value.Bool:
		return s.String()
	case value.Number:
		return string(s)
	case value.String:
		return string(s)
	default:
		return ""
	}
}

func upper(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' {
			return r - ('a' - 'A')
		}
		return r
	}, s)
}

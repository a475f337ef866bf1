package value

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/buger/jsonparser"
	"github.com/go-openapi/jsonpointer"
)

// MaxDepth bounds the nesting accepted by Parse.
const MaxDepth = 512

// Sentinel errors for decoding.
var (
	ErrSyntax   = errors.New("value: invalid JSON")
	ErrTooDeep  = errors.New("value: nesting exceeds max depth")
	ErrNotValue = errors.New("value: pointer did not resolve to a value")
)

var numberPattern = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)

// Parse decodes a single JSON document, keeping object fields in source order.
func Parse(data []byte) (Value, error) {
	// jsonparser skips some malformed input, such as trailing commas.
	if !json.Valid(data) {
		return nil, fmt.Errorf("%w: malformed document", ErrSyntax)
	}
	raw, typ, end, err := jsonparser.Get(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	if rest := bytes.TrimSpace(data[end:]); len(rest) > 0 {
		return nil, fmt.Errorf("%w: trailing data at offset %d", ErrSyntax, end)
	}
	return decode(raw, typ, 0)
}

// ParseString is Parse for text input.
func ParseString(s string) (Value, error) {
	return Parse([]byte(s))
}

func decode(raw []byte, typ jsonparser.ValueType, depth int) (Value, error) {
	if depth > MaxDepth {
		return nil, ErrTooDeep
	}

	switch typ {
	case jsonparser.Null:
		return Null{}, nil

	case jsonparser.Boolean:
		b, err := jsonparser.ParseBoolean(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
		}
		return Bool(b), nil

	case jsonparser.Number:
		n, err := canonicalNumber(string(raw))
		if err != nil {
			return nil, err
		}
		return n, nil

	case jsonparser.String:
		s, err := jsonparser.ParseString(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
		}
		return String(s), nil

	case jsonparser.Array:
		arr := Array{}
		var firstErr error
		_, err := jsonparser.ArrayEach(raw, func(elem []byte, elemType jsonparser.ValueType, _ int, err error) {
			if firstErr != nil {
				return
			}
			if err != nil {
				firstErr = fmt.Errorf("%w: %v", ErrSyntax, err)
				return
			}
			v, err := decode(elem, elemType, depth+1)
			if err != nil {
				firstErr = err
				return
			}
			arr = append(arr, v)
		})
		if firstErr != nil {
			return nil, firstErr
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
		}
		return arr, nil

	case jsonparser.Object:
		obj := NewObject()
		err := jsonparser.ObjectEach(raw, func(key []byte, field []byte, fieldType jsonparser.ValueType, _ int) error {
			v, err := decode(field, fieldType, depth+1)
			if err != nil {
				return err
			}
			obj.Set(string(key), v)
			return nil
		})
		if err != nil {
			if errors.Is(err, ErrTooDeep) || errors.Is(err, ErrSyntax) {
				return nil, err
			}
			return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
		}
		return obj, nil

	default:
		return nil, fmt.Errorf("%w: unexpected token %q", ErrSyntax, truncate(raw))
	}
}

// canonicalNumber normalizes a JSON number literal. Integers that fit in 64
// bits print as integers; everything else goes through float64, keeping a
// trailing ".0" on integral values.
func canonicalNumber(raw string) (Number, error) {
	if !numberPattern.MatchString(raw) {
		return "", fmt.Errorf("%w: invalid number %q", ErrSyntax, truncate([]byte(raw)))
	}
	if !strings.ContainsAny(raw, ".eE") {
		if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return Number(strconv.FormatInt(i, 10)), nil
		}
		if u, err := strconv.ParseUint(raw, 10, 64); err == nil {
			return Number(strconv.FormatUint(u, 10)), nil
		}
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return "", fmt.Errorf("%w: number %q out of range", ErrSyntax, truncate([]byte(raw)))
	}
	return Number(formatFloat(f)), nil
}

func formatFloat(f float64) string {
	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-5 || abs >= 1e16) {
		mant, exp, _ := strings.Cut(strconv.FormatFloat(f, 'e', -1, 64), "e")
		sign := ""
		if strings.HasPrefix(exp, "-") {
			sign = "-"
		}
		exp = strings.TrimLeft(strings.TrimLeft(exp, "+-"), "0")
		return mant + "e" + sign + exp
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func truncate(b []byte) string {
	const limit = 32
	if len(b) > limit {
		return string(b[:limit]) + "..."
	}
	return string(b)
}

// Lookup navigates v with an RFC 6901 JSON pointer. The empty pointer
// returns v itself.
func Lookup(v Value, pointer string) (Value, error) {
	p, err := jsonpointer.New(pointer)
	if err != nil {
		return nil, err
	}
	node, _, err := p.Get(v)
	if err != nil {
		return nil, err
	}
	out, ok := node.(Value)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrNotValue, node)
	}
	return out, nil
}

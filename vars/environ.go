package vars

import (
	"fmt"
	"os"
	"strings"
)

// EnvVar is one ambient environment variable.
type EnvVar struct {
	Name  string
	Value string
}

// Environ is an ordered ambient environment.
type Environ []EnvVar

// OSEnviron returns the process environment in the order the host exposes it.
// That order is not guaranteed to be stable between runs.
func OSEnviron() Environ {
	return ParseEnviron(os.Environ())
}

// ParseEnviron converts NAME=VALUE strings. Entries without '=' are ignored.
func ParseEnviron(kvs []string) Environ {
	env := make(Environ, 0, len(kvs))
	for _, kv := range kvs {
		name, val, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		env = append(env, EnvVar{Name: name, Value: val})
	}
	return env
}

// Lookup returns the value of name. When a name appears more than once the
// last occurrence wins.
func (e Environ) Lookup(name string) (string, bool) {
	for i := len(e) - 1; i >= 0; i-- {
		if e[i].Name == name {
			return e[i].Value, true
		}
	}
	return "", false
}

// Item is one explicit NAME[=VALUE] definition.
type Item struct {
	Name  string
	Value string
	// HasValue is false when the definition had no '='.
	HasValue bool
}

// ParseItem splits a NAME[=VALUE] definition at the first '='.
func ParseItem(def string) (Item, error) {
	name, val, found := strings.Cut(def, "=")
	if name == "" {
		return Item{}, fmt.Errorf("%w %q: empty name", ErrParseVar, def)
	}
	return Item{Name: name, Value: val, HasValue: found}, nil
}

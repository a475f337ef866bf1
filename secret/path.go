package secret

import (
	"fmt"
	"strings"
)

// KV is a keyword argument.
type KV struct {
	Key   string
	Value string
}

// Path is the parsed form of one secret path expression.
type Path struct {
	Backend Backend
	// Args holds positional arguments in order.
	Args []string
	// Kwargs holds keyword arguments in order; nil when there are none.
	Kwargs []KV
	Path   string
	// Anchor is a JSON pointer into the fetched value; empty when absent.
	Anchor string
}

// Arg returns the i-th positional argument.
func (p *Path) Arg(i int) (string, bool) {
	if i < 0 || i >= len(p.Args) {
		return "", false
	}
	return p.Args[i], true
}

// String renders the expression in canonical form.
func (p *Path) String() string {
	var b strings.Builder
	b.WriteString(p.Backend.String())
	b.WriteByte(':')
	b.WriteString(strings.Join(p.Args, ","))
	for i, kv := range p.Kwargs {
		if i > 0 || len(p.Args) > 0 {
			b.WriteByte(',')
		}
		b.WriteString(kv.Key)
		b.WriteByte('=')
		b.WriteString(kv.Value)
	}
	b.WriteByte(':')
	b.WriteString(p.Path)
	if p.Anchor != "" {
		b.WriteByte('#')
		b.WriteString(p.Anchor)
	}
	return b.String()
}

// state is a position of the expression tokenizer.
type state int

const (
	stateBackend state = iota
	stateArgs
	statePath
	stateAnchor
	stateDone
)

// step is the tokenizer transition function. It returns the token produced
// in state st, the unconsumed remainder, the next state, and whether a token
// was produced at all. An empty remainder never produces a token.
func step(st state, rest string) (token, remainder string, next state, ok bool) {
	if rest == "" {
		return "", "", stateDone, false
	}

	switch st {
	case stateBackend:
		if i := strings.IndexByte(rest, ':'); i >= 0 {
			return rest[:i], rest[i+1:], stateArgs, true
		}
		return rest, "", stateArgs, true

	case stateArgs:
		if i := strings.IndexByte(rest, ':'); i >= 0 {
			return rest[:i], rest[i+1:], statePath, true
		}
		return "", rest, stateDone, false

	case statePath:
		if i := strings.IndexByte(rest, '#'); i >= 0 {
			return rest[:i], rest[i+1:], stateAnchor, true
		}
		return rest, "", stateAnchor, true

	case stateAnchor:
		return rest, "", stateDone, true

	default:
		return "", rest, stateDone, false
	}
}

// tokenize runs the state machine over expr and returns the tokens indexed
// by the state that produced them, plus how many states produced one.
func tokenize(expr string) (toks [stateDone]string, n int) {
	st, rest := stateBackend, expr
	for st != stateDone {
		tok, remainder, next, ok := step(st, rest)
		if !ok {
			break
		}
		toks[st] = tok
		n++
		st, rest = next, remainder
	}
	return toks, n
}

// Parse parses a secret path expression.
//
// The expression shape is checked before the backend token is resolved, so
// "nocolon" fails with ErrNoArgs while "s3:x:y" fails with ErrUnknownBackend.
func Parse(expr string) (*Path, error) {
	toks, n := tokenize(expr)
	switch {
	case n <= int(stateBackend):
		return nil, ErrNoBackend
	case n <= int(stateArgs):
		return nil, fmt.Errorf("%w %q", ErrNoArgs, expr)
	case n <= int(statePath):
		return nil, fmt.Errorf("%w %q", ErrNoPath, expr)
	}

	backend, err := ParseBackend(toks[stateBackend])
	if err != nil {
		return nil, err
	}

	p := &Path{
		Backend: backend,
		Path:    toks[statePath],
		Anchor:  toks[stateAnchor],
	}
	for _, arg := range strings.Split(toks[stateArgs], ",") {
		if key, val, found := strings.Cut(arg, "="); found {
			p.Kwargs = append(p.Kwargs, KV{Key: key, Value: val})
		} else {
			p.Args = append(p.Args, arg)
		}
	}
	return p, nil
}

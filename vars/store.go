package vars

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/jonwraymond/vaultexec/cache"
	"github.com/jonwraymond/vaultexec/flatten"
	"github.com/jonwraymond/vaultexec/observe"
	"github.com/jonwraymond/vaultexec/secret"
	"github.com/jonwraymond/vaultexec/value"
)

// Store accumulates resolved variables.
//
// The secret cache is keyed by path only: two vault expressions naming the
// same path with different roles or methods share the first fetched
// document.
//
// Not safe for concurrent use.
type Store struct {
	client  secret.Client
	cache   cache.Cache[*secret.Secret]
	environ Environ
	logger  observe.Logger
	mw      *observe.Middleware

	vars map[string]string
}

// Option configures a Store.
type Option func(*Store)

// WithEnviron sets the ambient environment. Defaults to OSEnviron().
func WithEnviron(env Environ) Option {
	return func(s *Store) { s.environ = env }
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l observe.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMiddleware instruments every resolved expression.
func WithMiddleware(mw *observe.Middleware) Option {
	return func(s *Store) {
		if mw != nil {
			s.mw = mw
		}
	}
}

// WithCache replaces the in-memory secret cache.
func WithCache(c cache.Cache[*secret.Secret]) Option {
	return func(s *Store) {
		if c != nil {
			s.cache = c
		}
	}
}

// NewStore creates an empty Store. client may be nil when only const
// expressions are resolved.
func NewStore(client secret.Client, opts ...Option) *Store {
	s := &Store{
		client: client,
		cache:  cache.NewMemoryCache[*secret.Secret](),
		logger: observe.NopLogger(),
		vars:   make(map[string]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.environ == nil {
		s.environ = OSEnviron()
	}
	if s.mw == nil {
		s.mw = observe.NewMiddleware(nil, nil, s.logger)
	}
	return s
}

// InsertPath resolves p and stores the resulting variables under prefix.
func (s *Store) InsertPath(ctx context.Context, prefix string, p *secret.Path) error {
	meta := observe.ResolveMeta{
		Backend: p.Backend.String(),
		Prefix:  prefix,
		Anchor:  p.Anchor,
	}
	// A const path is the value.
	if p.Backend != secret.BackendConst {
		meta.Path = p.Path
	}
	_, err := s.mw.Wrap(func(ctx context.Context, _ observe.ResolveMeta) (observe.ResolveResult, error) {
		return s.insertPath(ctx, prefix, p)
	})(ctx, meta)
	return err
}

func (s *Store) insertPath(ctx context.Context, prefix string, p *secret.Path) (observe.ResolveResult, error) {
	switch p.Backend {
	case secret.BackendVault:
		return s.insertVault(ctx, prefix, p)
	case secret.BackendConst:
		return s.insertConst(prefix, p)
	default:
		return observe.ResolveResult{}, fmt.Errorf("%w %q", secret.ErrUnknownBackend, p.Backend)
	}
}

func (s *Store) insertVault(ctx context.Context, prefix string, p *secret.Path) (observe.ResolveResult, error) {
	var res observe.ResolveResult

	role, ok := p.Arg(0)
	if !ok {
		return res, fmt.Errorf("%w: %s", ErrMissingRole, p)
	}
	method := "GET"
	if m, ok := p.Arg(1); ok {
		method = strings.ToUpper(m)
	}

	sec, hit := s.cache.Get(ctx, p.Path)
	res.CacheHit = hit
	if !hit {
		if s.client == nil {
			return res, fmt.Errorf("%w: %s", ErrNoClient, p)
		}
		if !s.client.IsLogged(role) {
			if err := s.client.Login(ctx, role); err != nil {
				return res, fmt.Errorf("login role %q: %w", role, err)
			}
		}
		var err error
		sec, err = s.client.GetSecret(ctx, role, method, p.Path, p.Kwargs)
		if err != nil {
			return res, fmt.Errorf("get secret %q: %w", p.Path, err)
		}
		for _, w := range sec.Warnings {
			s.logger.Warn(ctx, "backend warning", observe.F("path", p.Path), observe.F("warning", w))
		}
		if err := s.cache.Set(ctx, p.Path, sec); err != nil {
			return res, err
		}
	}

	v := sec.Value
	if p.Anchor != "" {
		var err error
		v, err = value.Lookup(v, p.Anchor)
		if err != nil {
			return res, fmt.Errorf("%w: %q in %q", ErrPointer, p.Anchor, p.Path)
		}
	}

	n, err := s.insertValue(prefix, v)
	res.Entries = n
	return res, err
}

// insertConst ignores the anchor.
func (s *Store) insertConst(prefix string, p *secret.Path) (observe.ResolveResult, error) {
	var res observe.ResolveResult

	kind, _ := p.Arg(0)
	switch kind {
	case "str":
		if err := s.set(prefix, p.Path); err != nil {
			return res, err
		}
		res.Entries = 1
		return res, nil

	case "js":
		v, err := value.ParseString(p.Path)
		if err != nil {
			return res, &literalError{text: p.Path, err: err}
		}
		n, err := s.insertValue(prefix, v)
		res.Entries = n
		return res, err

	default:
		return res, fmt.Errorf("%w, got %q", ErrExpectedArg, kind)
	}
}

func (s *Store) insertValue(prefix string, v value.Value) (int, error) {
	n := 0
	err := flatten.Each(prefix, v, func(name, val string) error {
		n++
		return s.set(name, val)
	})
	return n, err
}

// set stores one variable. Values are never part of the error.
func (s *Store) set(name, val string) error {
	if strings.IndexByte(name, 0) >= 0 {
		return fmt.Errorf("%w: name %q", ErrNul, name)
	}
	if strings.IndexByte(val, 0) >= 0 {
		return fmt.Errorf("%w: value of %q", ErrNul, name)
	}
	s.vars[name] = val
	return nil
}

// InsertVars runs the ambient import selected by mode, then resolves the
// explicit NAME[=VALUE] definitions in order. Explicit definitions override
// imported names.
//
// On error the Store is left exactly as it was before the call.
func (s *Store) InsertVars(ctx context.Context, defs []string, mode ImportMode) error {
	snapshot := maps.Clone(s.vars)
	if err := s.insertVars(ctx, defs, mode); err != nil {
		s.vars = snapshot
		return err
	}
	return nil
}

func (s *Store) insertVars(ctx context.Context, defs []string, mode ImportMode) error {
	if mode != ImportNone {
		for _, ev := range s.environ {
			if err := s.importVar(ctx, ev, mode); err != nil {
				return fmt.Errorf("import %s: %w", ev.Name, err)
			}
		}
	}

	for _, def := range defs {
		item, err := ParseItem(def)
		if err != nil {
			return err
		}
		if err := s.insertItem(ctx, item); err != nil {
			return fmt.Errorf("var %s: %w", item.Name, err)
		}
	}
	return nil
}

func (s *Store) importVar(ctx context.Context, ev EnvVar, mode ImportMode) error {
	if mode.resolvesExpressions() {
		if p, err := secret.Parse(ev.Value); err == nil {
			return s.InsertPath(ctx, ev.Name, p)
		}
	}
	if mode.copiesLiterals() {
		return s.set(ev.Name, ev.Value)
	}
	return nil
}

func (s *Store) insertItem(ctx context.Context, item Item) error {
	val := item.Value
	if !item.HasValue {
		ambient, ok := s.environ.Lookup(item.Name)
		if !ok {
			s.logger.Debug(ctx, "variable not set in environment, skipped", observe.F("name", item.Name))
			return nil
		}
		val = ambient
	}

	p, err := secret.Parse(val)
	switch {
	case err == nil:
		return s.InsertPath(ctx, item.Name, p)
	case errors.Is(err, secret.ErrUnknownBackend):
		return err
	default:
		return s.set(item.Name, val)
	}
}

// Lookup returns the value stored under name.
func (s *Store) Lookup(name string) (string, bool) {
	v, ok := s.vars[name]
	return v, ok
}

// Len returns the number of variables.
func (s *Store) Len() int {
	return len(s.vars)
}

// Vars returns a copy of the variables.
func (s *Store) Vars() map[string]string {
	return maps.Clone(s.vars)
}

// Environ returns the variables as NAME=VALUE strings sorted by name.
func (s *Store) Environ() []string {
	names := slices.Sorted(maps.Keys(s.vars))
	out := make([]string, 0, len(names))
	for _, name := range names {
		out = append(out, name+"="+s.vars[name])
	}
	return out
}

package auth

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"
)

// TokenSource supplies the JWT presented at login.
//
// Contract:
// - Context: implementations that block must honor cancellation.
// - Errors: a missing token is ErrMissingCredentials.
// - Redaction: the token must never be logged.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// EnvTokenSource reads the token from an environment variable on every call.
type EnvTokenSource struct {
	// Name is the variable holding the token, e.g. CI_JOB_JWT.
	Name string

	// Lookup resolves Name. Default: os.LookupEnv.
	Lookup func(name string) (string, bool)
}

// Token returns the value of the variable.
func (s EnvTokenSource) Token(context.Context) (string, error) {
	lookup := s.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}
	tok, ok := lookup(s.Name)
	if !ok || strings.TrimSpace(tok) == "" {
		return "", fmt.Errorf("%w: environment variable %s is not set", ErrMissingCredentials, s.Name)
	}
	return strings.TrimSpace(tok), nil
}

// CheckedTokenSource rejects tokens that are expired or not yet valid.
type CheckedTokenSource struct {
	Source TokenSource

	// Leeway tolerates clock skew. Default: 0.
	Leeway time.Duration

	// Now returns the current time. Default: time.Now.
	Now func() time.Time
}

// Token returns the underlying token after checking its time claims.
func (s CheckedTokenSource) Token(ctx context.Context) (string, error) {
	tok, err := s.Source.Token(ctx)
	if err != nil {
		return "", err
	}
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	if _, err := Check(tok, now(), s.Leeway); err != nil {
		return "", err
	}
	return tok, nil
}

var (
	_ TokenSource = EnvTokenSource{}
	_ TokenSource = CheckedTokenSource{}
)

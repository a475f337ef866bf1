package secret

import "context"

// Client is a session with a networked secret backend.
//
// Contract:
// - Concurrency: callers drive a Client from a single goroutine; implementations need not be synchronized.
// - Context: Login and GetSecret are blocking round trips and must honor cancellation/deadlines.
// - Errors: failures are returned to the caller unchanged in meaning; implementations must not log secret values.
type Client interface {
	// IsLogged reports whether the session holds a token for role.
	IsLogged(role string) bool

	// Login authenticates the session for role.
	Login(ctx context.Context, role string) error

	// GetSecret fetches path using the token of role and the given HTTP method.
	// Keyword arguments are sent as request parameters.
	GetSecret(ctx context.Context, role, method, path string, kwargs []KV) (*Secret, error)
}

package vault

import "errors"

var (
	// ErrNotLogged indicates a fetch for a role that has no session.
	ErrNotLogged = errors.New("vault: role is not logged in")

	// ErrNoAuth indicates a login response without a client token.
	ErrNoAuth = errors.New("vault: login response has no client token")

	// ErrNoTokenSource indicates a Config without a TokenSource.
	ErrNoTokenSource = errors.New("vault: token source is required")
)

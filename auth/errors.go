package auth

import "errors"

// Sentinel errors for token handling.
var (
	ErrMissingCredentials = errors.New("auth: missing credentials")
	ErrTokenExpired       = errors.New("auth: token expired")
	ErrTokenNotYetValid   = errors.New("auth: token not yet valid")
	ErrTokenMalformed     = errors.New("auth: token malformed")
)

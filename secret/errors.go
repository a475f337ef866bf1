package secret

import "errors"

// Grammar errors returned by Parse and ParseBackend.
var (
	ErrNoBackend      = errors.New("secret: missing backend")
	ErrNoArgs         = errors.New("secret: missing a \":\" to separate backend from arguments")
	ErrNoPath         = errors.New("secret: missing a \":\" to separate arguments from path")
	ErrUnknownBackend = errors.New("secret: unknown backend")
)

package vars

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/jonwraymond/vaultexec/observe"
)

// Semantic errors.
var (
	// ErrMissingRole indicates a vault expression without a role argument.
	ErrMissingRole = errors.New("vars: vault expression requires a role argument")

	// ErrExpectedArg indicates a const expression whose type argument is
	// missing or is neither "str" nor "js".
	ErrExpectedArg = errors.New(`vars: const expression requires a "str" or "js" argument`)

	// ErrPointer indicates an anchor that does not resolve inside the fetched secret.
	ErrPointer = errors.New("vars: anchor does not resolve")

	// ErrParseJSON indicates a const:js literal that is not valid JSON.
	ErrParseJSON = errors.New("vars: invalid JSON literal")

	// ErrNoClient indicates a vault expression resolved by a Store without a client.
	ErrNoClient = errors.New("vars: no backend client configured")
)

// Grammar and representation errors.
var (
	// ErrParseVar indicates a malformed NAME[=VALUE] item.
	ErrParseVar = errors.New("vars: malformed variable definition")

	// ErrNul indicates a name or value containing a NUL byte.
	ErrNul = errors.New("vars: NUL byte in environment variable")
)

// literalError reports a const:js literal that failed to decode. The
// literal is quoted in the message; loggers mask it through Sensitive.
type literalError struct {
	text string
	err  error
}

func (e *literalError) Error() string {
	return fmt.Sprintf("%v %s: %v", ErrParseJSON, e.Sensitive(), e.err)
}

func (e *literalError) Unwrap() []error { return []error{ErrParseJSON, e.err} }

func (e *literalError) Sensitive() string { return strconv.Quote(e.text) }

var _ observe.SensitiveError = (*literalError)(nil)

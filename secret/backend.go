package secret

import (
	"fmt"
	"strings"
)

// Backend is the kind of store an expression resolves against.
type Backend int

const (
	// BackendVault fetches from a networked Vault server.
	BackendVault Backend = iota
	// BackendConst takes the value inline from the expression path.
	BackendConst
)

// backends is matched in order by prefix; the first match wins.
var backends = []struct {
	prefix  string
	backend Backend
}{
	{"vault", BackendVault},
	{"const", BackendConst},
}

// ParseBackend resolves a backend token. Matching is by prefix, so
// "vault2" and "vaultish" both resolve to BackendVault.
func ParseBackend(token string) (Backend, error) {
	for _, b := range backends {
		if strings.HasPrefix(token, b.prefix) {
			return b.backend, nil
		}
	}
	return 0, fmt.Errorf("%w %q", ErrUnknownBackend, token)
}

// String returns the canonical backend name.
func (b Backend) String() string {
	for _, entry := range backends {
		if entry.backend == b {
			return entry.prefix
		}
	}
	return fmt.Sprintf("backend(%d)", int(b))
}

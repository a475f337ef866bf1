package auth

import "time"

// Identity is the principal described by a JWT's claims.
type Identity struct {
	// Principal is the sub claim.
	Principal string

	Issuer   string
	Audience []string

	// Claims contains the raw claims from the token.
	Claims map[string]any

	// ExpiresAt, NotBefore and IssuedAt are zero when the claim is absent.
	ExpiresAt time.Time
	NotBefore time.Time
	IssuedAt  time.Time
}

// IsExpired reports whether the identity has expired at now.
func (id *Identity) IsExpired(now time.Time) bool {
	if id == nil || id.ExpiresAt.IsZero() {
		return false
	}
	return !now.Before(id.ExpiresAt)
}

// IsNotYetValid reports whether the identity becomes valid after now.
func (id *Identity) IsNotYetValid(now time.Time) bool {
	if id == nil || id.NotBefore.IsZero() {
		return false
	}
	return now.Before(id.NotBefore)
}

// HasAudience checks if the identity lists aud as an audience.
func (id *Identity) HasAudience(aud string) bool {
	if id == nil {
		return false
	}
	for _, a := range id.Audience {
		if a == aud {
			return true
		}
	}
	return false
}

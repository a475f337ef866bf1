package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Inspect decodes a JWT without verifying its signature.
func Inspect(token string) (*Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrMissingCredentials
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}
	return buildIdentity(claims)
}

// Check inspects token and rejects it when it is expired or not yet valid
// at now, allowing leeway for clock skew.
func Check(token string, now time.Time, leeway time.Duration) (*Identity, error) {
	id, err := Inspect(token)
	if err != nil {
		return nil, err
	}
	if id.IsExpired(now.Add(-leeway)) {
		return id, fmt.Errorf("%w at %s", ErrTokenExpired, id.ExpiresAt.UTC().Format(time.RFC3339))
	}
	if id.IsNotYetValid(now.Add(leeway)) {
		return id, fmt.Errorf("%w before %s", ErrTokenNotYetValid, id.NotBefore.UTC().Format(time.RFC3339))
	}
	return id, nil
}

func buildIdentity(claims jwt.MapClaims) (*Identity, error) {
	id := &Identity{
		Claims: make(map[string]any, len(claims)),
	}
	for k, v := range claims {
		id.Claims[k] = v
	}

	// The registered-claim getters reject wrongly typed claims.
	var err error
	if id.Principal, err = claims.GetSubject(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}
	if id.Issuer, err = claims.GetIssuer(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}
	if id.Audience, err = claims.GetAudience(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}

	for _, c := range []struct {
		get func() (*jwt.NumericDate, error)
		dst *time.Time
	}{
		{claims.GetExpirationTime, &id.ExpiresAt},
		{claims.GetNotBefore, &id.NotBefore},
		{claims.GetIssuedAt, &id.IssuedAt},
	} {
		d, err := c.get()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
		}
		if d != nil {
			*c.dst = d.Time
		}
	}
	return id, nil
}

// Package auth supplies the JWT used to log in to the secret backend.
//
// A TokenSource reads the token (typically a CI job token from an
// environment variable). Inspect decodes its claims without verifying the
// signature; the backend does that. Claims are only used to refuse a token
// that is already expired or not yet valid before any network round trip.
package auth

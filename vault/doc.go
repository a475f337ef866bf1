// Package vault implements secret.Client for HashiCorp Vault.
//
// Each role gets its own session: a JWT login against the configured auth
// mount yields a client token that is used for every fetch made with that
// role. Responses are decoded from the raw body so object field order is
// preserved in the resulting value.
package vault

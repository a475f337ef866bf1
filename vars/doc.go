// Package vars materializes secret path expressions into environment
// variables.
//
// A Store resolves expressions through a secret.Client, caches fetched
// documents by path, flattens them into NAME=VALUE pairs and applies an
// ImportMode to the ambient environment. The first error aborts InsertVars
// and leaves the Store as it was before the call.
//
// A Store is single-owner and not safe for concurrent use.
package vars

// Package secret defines the secret path expression language and the
// contract of a secret backend client.
//
// An expression names a backend, its arguments, a path and an optional
// JSON pointer anchor:
//
//	backend:args:path
//	backend:args:path#anchor
//
// Examples:
//
//	vault:deploy:secret/data/app#/data/data
//	vault:pki,POST,common_name=example.com:pki/issue/example.com#/data
//	const:str:https://localhost:8200
//	const:js:{"user": "admin"}
//
// The backend and args segments cannot contain ':' and there is no escaping
// mechanism. The path ends at the first '#'; everything after it is the
// anchor, taken verbatim. Arguments are separated by ',' and any argument
// containing '=' is a keyword argument.
package secret

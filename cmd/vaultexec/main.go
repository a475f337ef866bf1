// Command vaultexec resolves secret path expressions into environment
// variables and replaces itself with the given command.
//
//	vaultexec -v DB=vault:deploy:secret/data/db#/data/data -- ./migrate up
package main

import "os"

const (
	name    = "vaultexec"
	version = "0.1.0-dev"
)

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}

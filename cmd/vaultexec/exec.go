package main

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// execve replaces the current process with path. argv[0] is passed as
// given and env is the complete environment of the new image.
func execve(path string, argv, env []string) error {
	if err := unix.Exec(path, argv, env); err != nil {
		return fmt.Errorf("exec %s: %w", path, err)
	}
	return nil
}

//go:build windows

package lock

import "os"

// Windows has no flock(2); the lock file is created but not enforced.
func lockFile(f *os.File) error {
	return nil
}

func unlockFile(f *os.File) error {
	return nil
}

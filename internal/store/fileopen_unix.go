//go:build !windows

package store

import (
	stderrors "errors"
	"os"
	"syscall"
)

// openNoFollow opens a working file for reading with O_NOFOLLOW so a
// symlinked name is refused instead of snapshotting its target.
// O_CLOEXEC prevents FD leaks across exec.
func openNoFollow(path string) (*os.File, error) {
	fd, err := syscall.Open(path, syscall.O_RDONLY|syscall.O_NOFOLLOW|syscall.O_CLOEXEC, 0)
	if err != nil {
		if stderrors.Is(err, syscall.ELOOP) {
			return nil, ErrSymlink
		}
		if stderrors.Is(err, syscall.ENOENT) {
			return nil, os.ErrNotExist
		}
		return nil, err
	}
	return os.NewFile(uintptr(fd), path), nil
}

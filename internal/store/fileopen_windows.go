//go:build windows

package store

import "os"

// openNoFollow opens a working file for reading.
// On Windows, O_NOFOLLOW is not available; the name is checked with Lstat instead.
func openNoFollow(path string) (*os.File, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return nil, err
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return nil, ErrSymlink
	}
	return os.Open(path)
}

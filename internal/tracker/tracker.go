// Package tracker answers which files are tracked and how the working copies
// compare to the active snapshot.
package tracker

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/zeebo/xxh3"

	"github.com/hpungsan/gvt/internal/store"
)

// FileState is the working-copy state of a tracked file.
type FileState string

const (
	StateUnchanged FileState = "unchanged"
	StateModified  FileState = "modified"
	StateMissing   FileState = "missing"
)

// FileStatus pairs a tracked file with its working-copy state.
type FileStatus struct {
	Name  string    `json:"name"`
	State FileState `json:"state"`
}

// Tracker checks file membership against a store and a working directory.
type Tracker struct {
	store   *store.Store
	workDir string
}

// New creates a Tracker. workDir is where the user's files live.
func New(s *store.Store, workDir string) *Tracker {
	return &Tracker{store: s, workDir: workDir}
}

// WorkPath returns the working-directory path of name.
func (t *Tracker) WorkPath(name string) string {
	return filepath.Join(t.workDir, name)
}

// ExistsInWorkingDirectory reports whether name is a regular file in the working directory.
func (t *Tracker) ExistsInWorkingDirectory(name string) bool {
	info, err := os.Stat(t.WorkPath(name))
	return err == nil && info.Mode().IsRegular()
}

// ExistsInVersion reports whether name is part of version v's snapshot.
func (t *Tracker) ExistsInVersion(v int, name string) bool {
	if name == store.MessageFile {
		return false
	}
	info, err := os.Stat(t.store.FilePath(v, name))
	return err == nil && info.Mode().IsRegular()
}

// ExistsInAnyVersion scans versions 0..active for name.
func (t *Tracker) ExistsInAnyVersion(name string) bool {
	for v := t.store.Active(); v >= 0; v-- {
		if t.ExistsInVersion(v, name) {
			return true
		}
	}
	return false
}

// Status compares every file of the active version with its working copy.
func (t *Tracker) Status() ([]FileStatus, error) {
	active := t.store.Active()
	names, err := t.store.ListFiles(active)
	if err != nil {
		return nil, err
	}

	result := make([]FileStatus, 0, len(names))
	for _, name := range names {
		st := FileStatus{Name: name, State: StateMissing}
		if t.ExistsInWorkingDirectory(name) {
			same, err := sameContent(t.store.FilePath(active, name), t.WorkPath(name))
			if err != nil {
				return nil, err
			}
			st.State = StateModified
			if same {
				st.State = StateUnchanged
			}
		}
		result = append(result, st)
	}
	return result, nil
}

// HashFile returns the hex xxh3-128 digest of the file at path.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := xxh3.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", h.Sum128().Bytes()), nil
}

func sameContent(a, b string) (bool, error) {
	ia, err := os.Stat(a)
	if err != nil {
		return false, err
	}
	ib, err := os.Stat(b)
	if err != nil {
		return false, err
	}
	if ia.Size() != ib.Size() {
		return false, nil
	}
	ha, err := HashFile(a)
	if err != nil {
		return false, err
	}
	hb, err := HashFile(b)
	if err != nil {
		return false, err
	}
	return ha == hb, nil
}

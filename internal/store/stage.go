package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNoMessage is returned by Promote when SetMessage was never called.
var ErrNoMessage = errors.New("staged version has no message")

// Stage is a version under construction. It lives in a .stage-<id> directory
// until Promote renames it to the next version number, so a failure while it
// is being filled never leaves a half-built version in the version range.
type Stage struct {
	store   *Store
	id      string
	dir     string
	source  int
	message *string
	closed  bool
}

// Stage allocates a staging directory holding a full copy of version source.
func (s *Store) Stage(id string, source int) (*Stage, error) {
	dir := filepath.Join(s.root, StageDirName(id))
	if err := os.Mkdir(dir, 0755); err != nil {
		return nil, fmt.Errorf("create staging directory: %w", err)
	}

	st := &Stage{store: s, id: id, dir: dir, source: source}
	if source >= 0 {
		if err := s.copyVersion(source, dir); err != nil {
			_ = os.RemoveAll(dir)
			return nil, err
		}
	}
	return st, nil
}

// Dir returns the staging directory path.
func (st *Stage) Dir() string { return st.dir }

// Source returns the version the stage was copied from.
func (st *Stage) Source() int { return st.source }

// PutFile copies the file at srcPath into the stage under name, replacing any existing copy.
func (st *Stage) PutFile(name, srcPath string) error {
	if st.closed {
		return errors.New("stage already closed")
	}
	in, err := openNoFollow(srcPath)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s is not a regular file", srcPath)
	}
	return writeFrom(filepath.Join(st.dir, name), in, info.Mode().Perm())
}

// RemoveFile deletes name from the stage.
func (st *Stage) RemoveFile(name string) error {
	if st.closed {
		return errors.New("stage already closed")
	}
	return os.Remove(filepath.Join(st.dir, name))
}

// Has reports whether name is present in the stage.
func (st *Stage) Has(name string) bool {
	info, err := os.Stat(filepath.Join(st.dir, name))
	return err == nil && info.Mode().IsRegular()
}

// SetMessage sets the message record. Later calls win.
func (st *Stage) SetMessage(text string) {
	st.message = &text
}

// Promote writes the message, renames the stage to version active+1 and
// advances the pointer. It returns the new version number.
func (st *Stage) Promote() (int, error) {
	if st.closed {
		return 0, errors.New("stage already closed")
	}
	if st.message == nil {
		return 0, ErrNoMessage
	}
	if err := writeMessage(st.dir, *st.message); err != nil {
		return 0, err
	}

	target := st.store.active + 1
	if st.store.HasVersion(target) {
		return 0, fmt.Errorf("%w: %d", ErrVersionExists, target)
	}
	if err := os.Rename(st.dir, st.store.VersionPath(target)); err != nil {
		return 0, fmt.Errorf("promote version %d: %w", target, err)
	}
	st.closed = true

	if err := st.store.AdvanceActive(); err != nil {
		return 0, err
	}
	return target, nil
}

// Discard removes the staging directory. It is a no-op after a successful Promote.
func (st *Stage) Discard() error {
	if st.closed {
		return nil
	}
	st.closed = true
	return os.RemoveAll(st.dir)
}

// Package store owns the on-disk version layout: one directory per version
// under the repository root, a Message.txt record in each, and active.txt
// holding the active version number.
package store

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	// ActiveFile holds the active version number as plain text.
	ActiveFile = "active.txt"
	// MessageFile is the per-version message record.
	MessageFile = "Message.txt"
	// InitMessage is the message of version 0.
	InitMessage = "GVT initialized."

	stagePrefix = ".stage-"
)

var (
	// ErrCorrupt is returned when active.txt is missing or unparsable.
	ErrCorrupt = errors.New("active version pointer is missing or corrupt")
	// ErrVersionExists is returned when allocating over an existing version directory.
	ErrVersionExists = errors.New("version directory already exists")
	// ErrRootExists is returned by Create when the repository root is already present.
	ErrRootExists = errors.New("repository root already exists")
	// ErrSymlink is returned when a working file to snapshot is a symlink.
	ErrSymlink = errors.New("cannot snapshot a symlink")
)

// Store is a handle on one repository root. The active version is held in
// memory; Reload and Persist move it between memory and active.txt.
type Store struct {
	root   string
	active int
}

// Create initializes a new repository at root: the root directory, an empty
// version 0 with the init message, and active.txt = 0.
func Create(root string) (*Store, error) {
	if err := os.Mkdir(root, 0755); err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil, ErrRootExists
		}
		return nil, fmt.Errorf("create root: %w", err)
	}

	s := &Store{root: root, active: 0}
	if err := s.create(); err != nil {
		_ = os.RemoveAll(root)
		return nil, err
	}
	return s, nil
}

func (s *Store) create() error {
	if err := s.AllocateVersion(0); err != nil {
		return err
	}
	if err := s.WriteMessage(0, InitMessage); err != nil {
		return err
	}
	return s.Persist()
}

// Open loads an existing repository and reads its active pointer.
func Open(root string) (*Store, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	s := &Store{root: root}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Root returns the repository root directory.
func (s *Store) Root() string { return s.root }

// Active returns the in-memory active version.
func (s *Store) Active() int { return s.active }

// Reload re-reads active.txt into memory.
func (s *Store) Reload() error {
	v, err := s.ReadActive()
	if err != nil {
		return err
	}
	s.active = v
	return nil
}

// ReadActive parses active.txt without touching the in-memory counter.
func (s *Store) ReadActive() (int, error) {
	data, err := os.ReadFile(filepath.Join(s.root, ActiveFile))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	v, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%w: %q", ErrCorrupt, string(data))
	}
	return v, nil
}

// Persist writes the in-memory active version to active.txt, replacing it atomically.
func (s *Store) Persist() error {
	path := filepath.Join(s.root, ActiveFile)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(strconv.Itoa(s.active)), 0644); err != nil {
		return fmt.Errorf("write active pointer: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace active pointer: %w", err)
	}
	return nil
}

// AdvanceActive increments the active version and persists it. It is the only
// place the pointer moves forward.
func (s *Store) AdvanceActive() error {
	s.active++
	if err := s.Persist(); err != nil {
		s.active--
		return err
	}
	return nil
}

// SetActive moves the pointer to v and persists it. Used by recovery only.
func (s *Store) SetActive(v int) error {
	prev := s.active
	s.active = v
	if err := s.Persist(); err != nil {
		s.active = prev
		return err
	}
	return nil
}

// VersionPath returns the directory of version v.
func (s *Store) VersionPath(v int) string {
	return filepath.Join(s.root, strconv.Itoa(v))
}

// FilePath returns the snapshot path of name in version v.
func (s *Store) FilePath(v int, name string) string {
	return filepath.Join(s.VersionPath(v), name)
}

// HasVersion reports whether the directory for version v exists.
func (s *Store) HasVersion(v int) bool {
	info, err := os.Stat(s.VersionPath(v))
	return err == nil && info.IsDir()
}

// AllocateVersion creates an empty directory for version v. Only Create
// uses it; later versions are built by Stage and renamed into place.
func (s *Store) AllocateVersion(v int) error {
	if err := os.Mkdir(s.VersionPath(v), 0755); err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%w: %d", ErrVersionExists, v)
		}
		return fmt.Errorf("create version %d: %w", v, err)
	}
	return nil
}

// copyVersion copies the tracked files of version src into dir.
func (s *Store) copyVersion(src int, dir string) error {
	names, err := s.ListFiles(src)
	if err != nil {
		return err
	}
	for _, name := range names {
		if err := copyFile(s.FilePath(src, name), filepath.Join(dir, name)); err != nil {
			return fmt.Errorf("copy %s from version %d: %w", name, src, err)
		}
	}
	return nil
}

// WriteMessage replaces the message record of version v.
func (s *Store) WriteMessage(v int, text string) error {
	return writeMessage(s.VersionPath(v), text)
}

func writeMessage(dir, text string) error {
	if err := os.WriteFile(filepath.Join(dir, MessageFile), []byte(text), 0644); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	return nil
}

// ReadMessage returns the first line of version v's message record.
func (s *Store) ReadMessage(v int) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.VersionPath(v), MessageFile))
	if err != nil {
		return "", fmt.Errorf("read message of version %d: %w", v, err)
	}
	first, _, _ := strings.Cut(string(data), "\n")
	return strings.TrimSuffix(first, "\r"), nil
}

// ListFiles returns the sorted names of the files tracked in version v.
func (s *Store) ListFiles(v int) ([]string, error) {
	return listTracked(s.VersionPath(v))
}

func listTracked(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() || e.Name() == MessageFile {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

// ReadFile returns the snapshot content of name in version v.
func (s *Store) ReadFile(v int, name string) ([]byte, error) {
	return os.ReadFile(s.FilePath(v, name))
}

// StagingDirs lists leftover staging directory names under the root.
func (s *Store) StagingDirs() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, err
	}
	var dirs []string
	for _, e := range entries {
		if e.IsDir() && strings.HasPrefix(e.Name(), stagePrefix) {
			dirs = append(dirs, e.Name())
		}
	}
	return dirs, nil
}

// StageDirName returns the staging directory name for a stage id.
func StageDirName(id string) string {
	return stagePrefix + id
}

// RemoveStaging deletes a staging directory by name.
func (s *Store) RemoveStaging(name string) error {
	if !strings.HasPrefix(name, stagePrefix) {
		return fmt.Errorf("not a staging directory: %s", name)
	}
	return os.RemoveAll(filepath.Join(s.root, name))
}

// copyFile copies src to a new file dst, preserving the permission bits.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	return writeFrom(dst, in, info.Mode().Perm())
}

// writeFrom creates or truncates dst and fills it from r.
func writeFrom(dst string, r io.Reader, perm os.FileMode) error {
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

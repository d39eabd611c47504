package tracker

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hpungsan/gvt/internal/store"
)

func setup(t *testing.T) (*store.Store, *Tracker, string) {
	t.Helper()
	workDir := t.TempDir()
	s, err := store.Create(filepath.Join(workDir, ".gvt"))
	if err != nil {
		t.Fatalf("store.Create() error = %v", err)
	}
	return s, New(s, workDir), workDir
}

// snapshot adds name with content as a new version via the staging path.
func snapshot(t *testing.T, s *store.Store, workDir, name, content string) {
	t.Helper()
	src := filepath.Join(workDir, name)
	if err := os.WriteFile(src, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	st, err := s.Stage(name+"-stage", s.Active())
	if err != nil {
		t.Fatal(err)
	}
	if err := st.PutFile(name, src); err != nil {
		t.Fatal(err)
	}
	st.SetMessage("snap " + name)
	if _, err := st.Promote(); err != nil {
		t.Fatal(err)
	}
}

func TestExistsInWorkingDirectory(t *testing.T) {
	_, tr, workDir := setup(t)

	if tr.ExistsInWorkingDirectory("a.txt") {
		t.Error("missing file reported as present")
	}
	if err := os.WriteFile(filepath.Join(workDir, "a.txt"), []byte("a"), 0644); err != nil {
		t.Fatal(err)
	}
	if !tr.ExistsInWorkingDirectory("a.txt") {
		t.Error("existing file reported as missing")
	}
	if err := os.Mkdir(filepath.Join(workDir, "dir"), 0755); err != nil {
		t.Fatal(err)
	}
	if tr.ExistsInWorkingDirectory("dir") {
		t.Error("directory reported as a working file")
	}
}

func TestExistsInVersion_And_AnyVersion(t *testing.T) {
	s, tr, workDir := setup(t)
	snapshot(t, s, workDir, "a.txt", "one")

	// Drop a.txt from version 2 so only version 1 carries it.
	st, err := s.Stage("detach", s.Active())
	if err != nil {
		t.Fatal(err)
	}
	if err := st.RemoveFile("a.txt"); err != nil {
		t.Fatal(err)
	}
	st.SetMessage("detach")
	if _, err := st.Promote(); err != nil {
		t.Fatal(err)
	}

	if !tr.ExistsInVersion(1, "a.txt") {
		t.Error("a.txt should be in version 1")
	}
	if tr.ExistsInVersion(2, "a.txt") {
		t.Error("a.txt should not be in version 2")
	}
	if !tr.ExistsInAnyVersion("a.txt") {
		t.Error("a.txt should be tracked in some version")
	}
	if tr.ExistsInAnyVersion("never.txt") {
		t.Error("never.txt should not be tracked")
	}
	if tr.ExistsInVersion(0, store.MessageFile) {
		t.Error("the message record is not a tracked file")
	}
}

func TestStatus(t *testing.T) {
	s, tr, workDir := setup(t)
	snapshot(t, s, workDir, "same.txt", "same")
	snapshot(t, s, workDir, "edit.txt", "before")
	snapshot(t, s, workDir, "gone.txt", "bye")

	if err := os.WriteFile(filepath.Join(workDir, "edit.txt"), []byte("after!"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(filepath.Join(workDir, "gone.txt")); err != nil {
		t.Fatal(err)
	}

	status, err := tr.Status()
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}

	want := map[string]FileState{
		"edit.txt": StateModified,
		"gone.txt": StateMissing,
		"same.txt": StateUnchanged,
	}
	if len(status) != len(want) {
		t.Fatalf("Status() = %+v, want %d entries", status, len(want))
	}
	for _, fs := range status {
		if want[fs.Name] != fs.State {
			t.Errorf("%s state = %q, want %q", fs.Name, fs.State, want[fs.Name])
		}
	}
}

func TestHashFile(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	b := filepath.Join(dir, "b")
	os.WriteFile(a, []byte("content"), 0644)
	os.WriteFile(b, []byte("content"), 0644)

	ha, err := HashFile(a)
	if err != nil {
		t.Fatalf("HashFile() error = %v", err)
	}
	hb, _ := HashFile(b)
	if ha != hb {
		t.Errorf("equal content hashed differently: %s vs %s", ha, hb)
	}
	if len(ha) != 32 {
		t.Errorf("hash length = %d, want 32 hex chars", len(ha))
	}
}

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// runCLI runs gvt in dir and returns status, stdout and stderr.
func runCLI(t *testing.T, dir string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	app := newCLIApp("", &stdout, &stderr)
	full := append([]string{"gvt", "--dir", dir}, args...)
	status := exitStatus(app, full)
	return status, stdout.String(), stderr.String()
}

func writeWorking(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
}

func TestCLI_NoCommand(t *testing.T) {
	status, _, stderr := runCLI(t, t.TempDir())
	if status != 1 {
		t.Errorf("status = %d, want 1", status)
	}
	if !strings.Contains(stderr, "Please specify command.") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestCLI_NotInitialized(t *testing.T) {
	// Argument errors are not reported before the missing repository.
	for _, args := range [][]string{{"version"}, {"checkout", "abc"}, {"checkout"}} {
		status, _, stderr := runCLI(t, t.TempDir(), args...)
		if status != 2 {
			t.Errorf("%v: status = %d, want 2", args, status)
		}
		if !strings.Contains(stderr, "[NOT_INITIALIZED]") {
			t.Errorf("%v: stderr = %q", args, stderr)
		}
	}
}

func TestCLI_Session(t *testing.T) {
	dir := t.TempDir()

	steps := []struct {
		args   []string
		before func()
		status int
		stdout string
	}{
		{args: []string{"init"}, stdout: "Current directory initialized successfully.\n"},
		{args: []string{"init"}, status: 10},
		{args: []string{"add"}, status: 20},
		{args: []string{"add", "foo.txt"}, status: 21},
		{
			args:   []string{"add", "foo.txt"},
			before: func() { writeWorking(t, dir, "foo.txt", "hello") },
			stdout: "File added successfully. File: foo.txt\n",
		},
		{args: []string{"add", "foo.txt"}, stdout: "File already added. File: foo.txt\n"},
		{
			args:   []string{"commit", "foo.txt", "-m", "second"},
			before: func() { writeWorking(t, dir, "foo.txt", "world") },
			stdout: "File committed successfully. File: foo.txt\n",
		},
		{args: []string{"commit"}, status: 50},
		{args: []string{"checkout", "9"}, status: 60},
		{args: []string{"checkout", "abc"}, status: 60},
		{args: []string{"checkout", "1"}, stdout: "Checkout successful for version: 1\n"},
		{args: []string{"history", "2"}, stdout: "2: second\n1: File added successfully. File: foo.txt\n"},
		{args: []string{"history", "-last", "1"}, stdout: "2: second\n"},
		{args: []string{"history", "0"}, status: 70},
		{args: []string{"detach"}, status: 30},
		{args: []string{"detach", "--message", "gone", "foo.txt"}, stdout: "File detached successfully. File: foo.txt\n"},
		{args: []string{"version"}, stdout: "Version: 3\ngone\n"},
	}

	for i, step := range steps {
		if step.before != nil {
			step.before()
		}
		status, stdout, stderr := runCLI(t, dir, step.args...)
		if status != step.status {
			t.Fatalf("step %d %v: status = %d, want %d (stderr %q)", i, step.args, status, step.status, stderr)
		}
		if step.stdout != "" && stdout != step.stdout {
			t.Errorf("step %d %v: stdout = %q, want %q", i, step.args, stdout, step.stdout)
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, "foo.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "hello" {
		t.Errorf("foo.txt = %q, want checkout content %q", data, "hello")
	}
}

func TestCLI_HistoryFormats(t *testing.T) {
	dir := t.TempDir()
	runCLI(t, dir, "init")

	status, stdout, _ := runCLI(t, dir, "history", "--format", "markdown")
	if status != 0 || !strings.Contains(stdout, "| 0 | GVT initialized\\. |") {
		t.Errorf("markdown history: status %d, stdout %q", status, stdout)
	}

	status, stdout, _ = runCLI(t, dir, "history", "--format", "html")
	if status != 0 || !strings.Contains(stdout, "<td>GVT initialized.</td>") {
		t.Errorf("html history: status %d, stdout %q", status, stdout)
	}

	status, _, _ = runCLI(t, dir, "history", "--format", "yaml")
	if status != 70 {
		t.Errorf("unknown format status = %d, want 70", status)
	}
}

func TestCLI_JSONOutput(t *testing.T) {
	dir := t.TempDir()
	runCLI(t, dir, "init")
	writeWorking(t, dir, "a.txt", "a")

	status, stdout, _ := runCLI(t, dir, "--json", "add", "a.txt")
	if status != 0 {
		t.Fatalf("status = %d", status)
	}
	var out struct {
		Version int  `json:"version"`
		Created bool `json:"created"`
	}
	if err := json.Unmarshal([]byte(stdout), &out); err != nil {
		t.Fatalf("stdout is not JSON: %v (%q)", err, stdout)
	}
	if out.Version != 1 || !out.Created {
		t.Errorf("output = %+v", out)
	}
}

func TestCLI_StatusAndJournal(t *testing.T) {
	dir := t.TempDir()
	runCLI(t, dir, "init")
	writeWorking(t, dir, "a.txt", "a")
	runCLI(t, dir, "add", "a.txt")
	writeWorking(t, dir, "a.txt", "changed")

	status, stdout, _ := runCLI(t, dir, "status")
	if status != 0 || stdout != "Version: 1\nmodified   a.txt\n" {
		t.Errorf("status: %d %q", status, stdout)
	}

	status, stdout, _ = runCLI(t, dir, "journal", "-l", "5")
	if status != 0 || !strings.Contains(stdout, " add ") || !strings.Contains(stdout, "done") {
		t.Errorf("journal: %d %q", status, stdout)
	}
}

func TestCLI_InvalidRepoConfig(t *testing.T) {
	dir := t.TempDir()
	runCLI(t, dir, "init")
	writeWorking(t, filepath.Join(dir, ".gvt"), "config.json", `{"checkout_mode":"sometimes"}`)

	status, _, stderr := runCLI(t, dir, "version")
	if status != 70 || !strings.Contains(stderr, "invalid config") {
		t.Errorf("status %d stderr %q", status, stderr)
	}
}

func TestMessageArg(t *testing.T) {
	dir := t.TempDir()
	runCLI(t, dir, "init")
	writeWorking(t, dir, "a.txt", "a")
	writeWorking(t, dir, "b.txt", "b")

	runCLI(t, dir, "add", "a.txt", "positional message")
	runCLI(t, dir, "add", "-m", "flag message", "b.txt")

	_, stdout, _ := runCLI(t, dir, "history")
	want := "2: flag message\n1: positional message\n0: GVT initialized.\n"
	if stdout != want {
		t.Errorf("history = %q, want %q", stdout, want)
	}
}

package storage

import (
	"testing"
)

func tempVault(t *testing.T) *FS {
	t.Helper()
	dir := t.TempDir()
	fs, err := NewFS(dir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return fs
}

func TestWriteAndRead(t *testing.T) {
	s := tempVault(t)
	content := []byte("# Hello\nWorld\n")
	if err := s.Write("note.md", content); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := s.Read("note.md")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("content mismatch: got %q", got)
	}
}

func TestWriteCreatesSubdirs(t *testing.T) {
	s := tempVault(t)
	if err := s.Write("a/b/c.md", []byte("deep")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := s.Read("a/b/c.md")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != "deep" {
		t.Errorf("content = %q", got)
	}
}

func TestExists(t *testing.T) {
	s := tempVault(t)
	if s.Exists("missing.md") {
		t.Error("Exists true for missing file")
	}
	_ = s.Write("here.md", []byte("x"))
	if !s.Exists("here.md") {
		t.Error("Exists false for written file")
	}
	_ = s.CreateFolder("sub")
	if s.Exists("sub") {
		t.Error("Exists true for a directory")
	}
}

func TestAppendCreatesAndExtends(t *testing.T) {
	s := tempVault(t)
	if err := s.Append("log.md", []byte("one\n")); err != nil {
		t.Fatalf("Append (create): %v", err)
	}
	if err := s.Append("log.md", []byte("two\n")); err != nil {
		t.Fatalf("Append (extend): %v", err)
	}
	got, err := s.Read("log.md")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != "one\ntwo\n" {
		t.Errorf("content = %q, want %q", got, "one\ntwo\n")
	}
}

func TestCreateFolder(t *testing.T) {
	s := tempVault(t)
	if err := s.CreateFolder("Daily/2024"); err != nil {
		t.Fatalf("CreateFolder: %v", err)
	}
	// Idempotent on an existing directory.
	if err := s.CreateFolder("Daily/2024"); err != nil {
		t.Fatalf("CreateFolder (again): %v", err)
	}
	if err := s.Write("Daily/2024/note.md", []byte("x")); err != nil {
		t.Fatalf("Write into created folder: %v", err)
	}
}

func TestList(t *testing.T) {
	s := tempVault(t)
	_ = s.Write("a.md", []byte("a"))
	_ = s.Write("sub/b.md", []byte("b"))
	_ = s.Write("readme.txt", []byte("not md"))

	items, err := s.List("")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("len = %d, want 2", len(items))
	}
}

func TestTraversalBlocked(t *testing.T) {
	s := tempVault(t)

	cases := []string{
		"../../etc/passwd",
		"../outside.md",
		"/etc/shadow",
	}
	for _, p := range cases {
		if _, err := s.Read(p); err == nil {
			t.Errorf("expected error for path %q", p)
		}
		if err := s.Write(p, []byte("x")); err == nil {
			t.Errorf("expected error for write to %q", p)
		}
		if err := s.Append(p, []byte("x")); err == nil {
			t.Errorf("expected error for append to %q", p)
		}
	}
}

func TestWriteReplacesAtomically(t *testing.T) {
	s := tempVault(t)
	_ = s.Write("atomic.md", []byte("original content"))
	if err := s.Write("atomic.md", []byte("updated content")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, _ := s.Read("atomic.md")
	if string(got) != "updated content" {
		t.Errorf("content = %q", got)
	}
	// No temp files left behind.
	items, err := s.List("")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 1 {
		t.Errorf("leftover files: %v", items)
	}
}

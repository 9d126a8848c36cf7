package export

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	header := []string{"ID", "Name"}
	rows := [][]string{{"1", "Alice"}, {"2", "Smith, Bob"}}

	if err := Write(&buf, header, rows); err != nil {
		t.Fatalf("write: %v", err)
	}

	want := "ID,Name\n1,Alice\n2,\"Smith, Bob\"\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestWriteHeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, []string{"ID"}, nil); err != nil {
		t.Fatalf("write: %v", err)
	}
	if buf.String() != "ID\n" {
		t.Errorf("got %q, want header only", buf.String())
	}
}

func TestWriteFileCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.csv")

	if err := WriteFile(path, []string{"ID"}, [][]string{{"7"}}); err != nil {
		t.Fatalf("write file: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "ID\n7\n" {
		t.Errorf("file = %q", string(data))
	}
}

func TestWriteFileFailsOnUnwritablePath(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}

	// A regular file where a directory is expected.
	err := WriteFile(filepath.Join(blocker, "out.csv"), []string{"ID"}, nil)
	if err == nil {
		t.Fatal("expected error")
	}
}

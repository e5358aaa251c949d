package osfilesystem

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSystem_WriteReadSize(t *testing.T) {
	fs := New()
	path := filepath.Join(t.TempDir(), "out", "nested", "video.mp4")
	data := []byte("ftyp-and-friends")

	if err := fs.WriteFile(path, data); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	got, err := fs.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(got) != string(data) {
		t.Errorf("expected %q, got %q", data, got)
	}

	size, err := fs.FileSize(path)
	if err != nil {
		t.Fatalf("FileSize failed: %v", err)
	}
	if size != int64(len(data)) {
		t.Errorf("expected size %d, got %d", len(data), size)
	}
}

func TestFileSystem_FileSizeErrors(t *testing.T) {
	fs := New()
	dir := t.TempDir()

	if _, err := fs.FileSize(filepath.Join(dir, "missing")); !os.IsNotExist(err) {
		t.Errorf("expected not-exist error, got %v", err)
	}
	if _, err := fs.FileSize(dir); err == nil {
		t.Error("expected error for a directory")
	}
}

func TestFileSystem_ExistsAndRemove(t *testing.T) {
	fs := New()
	dir := t.TempDir()

	sub := filepath.Join(dir, "a", "b")
	if err := fs.MkdirAll(sub); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	if ok, err := fs.Exists(sub); err != nil || !ok {
		t.Errorf("expected directory to exist, got %v %v", ok, err)
	}

	path := filepath.Join(sub, "recording.json")
	if err := fs.WriteFile(path, []byte("{}")); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if err := fs.Remove(path); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if ok, _ := fs.Exists(path); ok {
		t.Error("expected file to be removed")
	}
}

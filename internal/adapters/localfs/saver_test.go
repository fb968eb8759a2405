package localfs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestSaver_WritesFile(t *testing.T) {
	dir := t.TempDir()
	s := NewSaver(filepath.Join(dir, "out"))

	path, err := s.Save(context.Background(), "My Song.mp3", []byte("data"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if filepath.Base(path) != "My Song.mp3" {
		t.Fatalf("unexpected path %q", path)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(b) != "data" {
		t.Fatalf("unexpected content %q", b)
	}

	entries, err := os.ReadDir(filepath.Join(dir, "out"))
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected no leftover temp file, got %d entries", len(entries))
	}
}

func TestSaver_RejectsTraversal(t *testing.T) {
	s := NewSaver(t.TempDir())
	for _, name := range []string{"../escape.mp4", "a/b.mp4", "", ".."} {
		if _, err := s.Save(context.Background(), name, []byte("x")); !errors.Is(err, ErrInvalidFilename) {
			t.Fatalf("%q: expected ErrInvalidFilename, got %v", name, err)
		}
	}
}

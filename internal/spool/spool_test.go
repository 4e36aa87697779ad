package spool

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/opd-ai/chapterpress/internal/document"
)

func TestWriteFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "nested", DefaultOutputName)

	if err := WriteFile(path, []byte("first")); err != nil {
		t.Fatalf("WriteFile() unexpected error: %v", err)
	}
	if err := WriteFile(path, []byte("second")); err != nil {
		t.Fatalf("WriteFile() overwrite unexpected error: %v", err)
	}

	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() unexpected error: %v", err)
	}
	if !bytes.Equal(got, []byte("second")) {
		t.Errorf("ReadFile() = %q, want second", got)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("directory holds %d entries, want only the output file", len(entries))
	}
}

func TestWriteFile_Failure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	err := WriteFile(filepath.Join(blocker, "out.pdf"), []byte("x"))
	if !errors.Is(err, document.ErrFileIO) {
		t.Fatalf("WriteFile() error = %v, want ErrFileIO", err)
	}
}

func TestReadFile_Missing(t *testing.T) {
	t.Parallel()

	_, err := ReadFile(filepath.Join(t.TempDir(), "missing.pdf"))
	if !errors.Is(err, document.ErrFileIO) {
		t.Fatalf("ReadFile() error = %v, want ErrFileIO", err)
	}
}

func TestLoadImage(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	good := filepath.Join(dir, "cover.png")
	if err := os.WriteFile(good, []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), 0o644); err != nil {
		t.Fatal(err)
	}
	bad := filepath.Join(dir, "fake.jpg")
	if err := os.WriteFile(bad, []byte("plain text pretending"), 0o644); err != nil {
		t.Fatal(err)
	}

	img, err := LoadImage(good)
	if err != nil {
		t.Fatalf("LoadImage(png) unexpected error: %v", err)
	}
	if img.Name != "cover.png" {
		t.Errorf("Name = %q, want cover.png", img.Name)
	}

	if _, err := LoadImage(bad); !errors.Is(err, document.ErrUnsupportedImage) {
		t.Errorf("LoadImage(fake) error = %v, want ErrUnsupportedImage", err)
	}
	if _, err := LoadImage(filepath.Join(dir, "cover.bmp")); !errors.Is(err, document.ErrUnsupportedImage) {
		t.Errorf("LoadImage(bmp) error = %v, want ErrUnsupportedImage", err)
	}
	if _, err := LoadImage(filepath.Join(dir, "missing.png")); !errors.Is(err, document.ErrFileIO) {
		t.Errorf("LoadImage(missing) error = %v, want ErrFileIO", err)
	}
}

// Package spool moves documents and uploaded images through the filesystem.
// Writes go to a temporary file in the target directory and are renamed into
// place, so readers never observe a partial file.
package spool

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/opd-ai/chapterpress/internal/document"
)

// DefaultOutputName is the file name offered for generated documents.
const DefaultOutputName = "history.pdf"

// ReadFile reads the whole file at path.
func ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is supplied by the operator
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", document.ErrFileIO, path, err)
	}
	return data, nil
}

// WriteFile atomically replaces path with data.
func WriteFile(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: creating directory %s: %v", document.ErrFileIO, dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: creating temp file: %v", document.ErrFileIO, err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("%w: writing %s: %v", document.ErrFileIO, tmpName, err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("%w: syncing %s: %v", document.ErrFileIO, tmpName, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("%w: closing %s: %v", document.ErrFileIO, tmpName, err)
	}
	if err = os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("%w: chmod %s: %v", document.ErrFileIO, tmpName, err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("%w: renaming to %s: %v", document.ErrFileIO, path, err)
	}
	return nil
}

// LoadImage reads an image file and checks that it is a JPG or PNG.
func LoadImage(path string) (*document.Image, error) {
	if !document.AllowedImageName(path) {
		return nil, fmt.Errorf("%w: %s (JPG or PNG only)", document.ErrUnsupportedImage, path)
	}
	data, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	img := &document.Image{Name: filepath.Base(path), Data: data}
	if _, err := img.Type(); err != nil {
		return nil, err
	}
	return img, nil
}

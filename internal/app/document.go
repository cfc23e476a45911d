package app

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Document is a file read from disk.
type Document struct {
	// Path is the file path as given.
	Path string

	// Name is the base name of the file.
	Name string

	// Content is the raw file content.
	Content []byte

	mode fs.FileMode
}

// OpenDocument reads the file at path.
func OpenDocument(path string) (*Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return &Document{
		Path:    path,
		Name:    filepath.Base(path),
		Content: content,
		mode:    info.Mode().Perm(),
	}, nil
}

// Save replaces the file with text. The text is written to a temporary file
// in the same directory which is then renamed over the original, so readers
// never see a partial file. The original permissions are kept.
func (d *Document) Save(text string) error {
	tmp, err := os.CreateTemp(filepath.Dir(d.Path), "."+d.Name+".*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	cleanup := func(err error) error {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}

	if _, err := tmp.WriteString(text); err != nil {
		return cleanup(err)
	}
	if err := tmp.Chmod(d.mode); err != nil {
		return cleanup(err)
	}
	if err := tmp.Close(); err != nil {
		return cleanup(err)
	}
	if err := os.Rename(tmpName, d.Path); err != nil {
		_ = os.Remove(tmpName)
		return err
	}

	d.Content = []byte(text)
	return nil
}

package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Dir stores each key as a "<key>.json" file in a folder. Files are human
// readable and can be edited by hand.
type Dir struct {
	path string
}

// NewDir returns a Dir backend in 'path', creating the folder if needed.
func NewDir(path string) (*Dir, error) {
	if path == "" {
		return nil, errors.New("dir store requires a folder")
	}
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("cannot create store folder %q: %w", path, err)
	}
	return &Dir{path: path}, nil
}

func (d *Dir) file(key string) string { return filepath.Join(d.path, key+".json") }

func (d *Dir) Get(_ context.Context, key string) (string, error) {
	content, err := os.ReadFile(d.file(key))
	if errors.Is(err, fs.ErrNotExist) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("cannot read %q: %w", key, err)
	}
	return string(content), nil
}

// Put writes into a temporary file that replaces the previous one, so that a
// reader never sees a half written value.
func (d *Dir) Put(_ context.Context, key, value string) error {
	f, err := os.CreateTemp(d.path, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("cannot write %q: %w", key, err)
	}
	_, err = f.WriteString(value)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(f.Name())
		return fmt.Errorf("cannot write %q: %w", key, err)
	}
	if err := os.Rename(f.Name(), d.file(key)); err != nil {
		os.Remove(f.Name())
		return fmt.Errorf("cannot write %q: %w", key, err)
	}
	return nil
}

func (d *Dir) Close() error { return nil }

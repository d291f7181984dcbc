package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

type Storage struct{}

// SaveFile writes content through a temporary file in the same directory
// and renames it into place, so a served page is never half written.
func (s *Storage) SaveFile(filePath string, content []byte) error {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(filePath)+".*")
	if err != nil {
		return fmt.Errorf("error saving file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("error saving file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("error saving file: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("error saving file: %w", err)
	}
	if err := os.Rename(tmpName, filePath); err != nil {
		return fmt.Errorf("error saving file: %w", err)
	}

	return nil
}

// WriteTo saves content to filePath, or to w when filePath is empty.
func (s *Storage) WriteTo(w io.Writer, filePath string, content []byte) error {
	if filePath == "" {
		if _, err := w.Write(content); err != nil {
			return fmt.Errorf("error writing output: %w", err)
		}
		return nil
	}
	return s.SaveFile(filePath, content)
}

func (s *Storage) ReadFile(filePath string) ([]byte, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}
	return data, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil || !os.IsNotExist(err)
}

// HasFile reports whether fn may exist. Stat errors other than "not exist"
// count as present so the caller's read surfaces them.
func (s *Storage) HasFile(fn string) bool {
	return fileExists(fn)
}

package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage implements Storage on a rooted uploads directory.
type LocalStorage struct {
	root string
}

func NewLocalStorage(root string) (*LocalStorage, error) {
	err := os.MkdirAll(root, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve upload directory: %w", err)
	}

	return &LocalStorage{root: abs}, nil
}

// fullPath resolves a storage path under the root and rejects escapes.
func (s *LocalStorage) fullPath(path string) (string, error) {
	full := filepath.Join(s.root, filepath.FromSlash(path))
	if full != s.root && !strings.HasPrefix(full, s.root+string(os.PathSeparator)) {
		return "", fmt.Errorf("invalid storage path %q", path)
	}
	return full, nil
}

func (s *LocalStorage) Save(path string, file io.Reader) error {
	full, err := s.fullPath(path)
	if err != nil {
		return err
	}

	err = os.MkdirAll(filepath.Dir(full), 0755)
	if err != nil {
		return fmt.Errorf("failed to create storage directory: %w", err)
	}

	dst, err := os.Create(full)
	if err != nil {
		return fmt.Errorf("failed to create blob file: %w", err)
	}

	_, err = io.Copy(dst, file)
	if err != nil {
		_ = dst.Close()
		_ = os.Remove(full)
		return fmt.Errorf("failed to write blob: %w", err)
	}

	return dst.Close()
}

func (s *LocalStorage) Open(path string) (io.ReadCloser, error) {
	full, err := s.fullPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(full)
	if os.IsNotExist(err) {
		return nil, ErrBlobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open blob: %w", err)
	}

	return f, nil
}

func (s *LocalStorage) Delete(path string) error {
	full, err := s.fullPath(path)
	if err != nil {
		return err
	}

	err = os.Remove(full)
	if os.IsNotExist(err) {
		return ErrBlobNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete blob: %w", err)
	}

	return nil
}

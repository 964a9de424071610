package upload

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// FileSystemStore keeps uploads as flat files under a root directory. Stored
// names are generated, never taken from the client.
type FileSystemStore struct {
	root string
}

func NewFileSystemStore(root string) (*FileSystemStore, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &FileSystemStore{root: root}, nil
}

func (s *FileSystemStore) Save(filename string, r io.Reader) (string, error) {
	ext, err := checkExtension(filename)
	if err != nil {
		return "", err
	}

	ref := uuid.New().String() + ext
	destPath := filepath.Join(s.root, ref)

	f, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(destPath)
		return "", fmt.Errorf("failed to write upload: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(destPath)
		return "", fmt.Errorf("failed to close upload file: %w", err)
	}

	return ref, nil
}

func (s *FileSystemStore) Remove(ref string) error {
	// References are generated names; reject anything that tries to escape
	// the upload root.
	if ref == "" || strings.ContainsAny(ref, `/\`) {
		return fmt.Errorf("invalid upload reference: %q", ref)
	}

	err := os.Remove(filepath.Join(s.root, ref))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove upload %s: %w", ref, err)
	}
	return nil
}

package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/edugamify/classroom-api/internal/domain"
)

// LocalStore keeps blobs in a directory tree, one sub-directory per category.
type LocalStore struct {
	root string
}

func NewLocalStore(root string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("os.MkdirAll -> %w", err)
	}

	return &LocalStore{root: root}, nil
}

func (s *LocalStore) Put(_ context.Context, category Category, filename string, r io.Reader) (string, error) {
	ref := NewRef(category, filename)
	target := filepath.Join(s.root, filepath.FromSlash(ref))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("os.MkdirAll -> %w", err)
	}

	f, err := os.OpenFile(target, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("os.OpenFile -> %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(target)
		return "", fmt.Errorf("io.Copy -> %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(target)
		return "", fmt.Errorf("f.Close -> %w", err)
	}

	return ref, nil
}

func (s *LocalStore) Open(_ context.Context, ref string) (io.ReadCloser, error) {
	if _, _, err := ParseRef(ref); err != nil {
		return nil, err
	}

	f, err := os.Open(filepath.Join(s.root, filepath.FromSlash(ref)))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.WithDetail(domain.ErrBlobNotFound, "ref", ref)
		}

		return nil, fmt.Errorf("os.Open -> %w", err)
	}

	return f, nil
}

func (s *LocalStore) Delete(_ context.Context, ref string) error {
	if _, _, err := ParseRef(ref); err != nil {
		return err
	}

	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(ref)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("os.Remove -> %w", err)
	}

	return nil
}

package blob

import (
	"context"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/edugamify/classroom-api/internal/domain"
)

// GCSStore keeps blobs as objects named after their reference.
type GCSStore struct {
	client *storage.Client
	bucket string
}

// NewGCSStore uses application default credentials unless credentialsFile
// is set.
func NewGCSStore(ctx context.Context, bucket, credentialsFile string) (*GCSStore, error) {
	opts := []option.ClientOption{option.WithScopes(storage.ScopeReadWrite)}
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("storage.NewClient -> %w", err)
	}

	return &GCSStore{client: client, bucket: bucket}, nil
}

func (s *GCSStore) Put(ctx context.Context, category Category, filename string, r io.Reader) (string, error) {
	ref := NewRef(category, filename)

	w := s.client.Bucket(s.bucket).Object(ref).NewWriter(ctx)
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("io.Copy -> %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("w.Close -> %w", err)
	}

	return ref, nil
}

func (s *GCSStore) Open(ctx context.Context, ref string) (io.ReadCloser, error) {
	if _, _, err := ParseRef(ref); err != nil {
		return nil, err
	}

	rc, err := s.client.Bucket(s.bucket).Object(ref).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, domain.WithDetail(domain.ErrBlobNotFound, "ref", ref)
		}

		return nil, fmt.Errorf("NewReader -> %w", err)
	}

	return rc, nil
}

func (s *GCSStore) Delete(ctx context.Context, ref string) error {
	if _, _, err := ParseRef(ref); err != nil {
		return err
	}

	err := s.client.Bucket(s.bucket).Object(ref).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("Delete -> %w", err)
	}

	return nil
}

func (s *GCSStore) Close() error {
	return s.client.Close()
}

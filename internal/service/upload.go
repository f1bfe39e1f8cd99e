package service

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/edugamify/classroom-api/internal/blob"
)

// Upload is a file received with a request.
type Upload struct {
	Filename string
	Body     io.Reader
}

func storeUpload(ctx context.Context, blobs blob.Store, category blob.Category, upload *Upload) (*string, error) {
	if upload == nil {
		return nil, nil
	}

	ref, err := blobs.Put(ctx, category, upload.Filename, upload.Body)
	if err != nil {
		return nil, fmt.Errorf("blobs.Put -> %w", err)
	}

	return &ref, nil
}

// discardUpload removes a blob whose owning write was rolled back.
func discardUpload(ctx context.Context, blobs blob.Store, ref *string) {
	if ref == nil {
		return
	}
	if err := blobs.Delete(ctx, *ref); err != nil {
		zap.L().Warn("failed to remove orphaned upload", zap.String("ref", *ref), zap.Error(err))
	}
}

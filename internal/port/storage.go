package port

import (
	"context"
	"io"

	"docinsight/internal/domain"
)

// UploadInput encapsulates the parameters needed to upload an object.
type UploadInput struct {
	Key         string
	Body        io.Reader
	ContentType string
}

// ObjectStorage abstracts the object store holding source documents and analyses.
// Upload overwrites an existing object with the same key.
type ObjectStorage interface {
	List(ctx context.Context, prefix string) ([]domain.ObjectInfo, error)
	Download(ctx context.Context, key string) ([]byte, error)
	Upload(ctx context.Context, input UploadInput) error
}

package storage

import (
	"context"
	"io"
)

// Uploader is the image-hosting collaborator: it stores a featured image
// and returns the public URL it will be served from.
type Uploader interface {
	Upload(ctx context.Context, r io.Reader, filename, contentType string) (string, error)
	Delete(ctx context.Context, url string) error
}

package storage

import (
	"context"
	"time"
)

// Default expiry duration for presigned URLs
const DefaultPresignedURLExpiry = 15 * time.Minute

// FileStorage is the object store holding recipe pictures. Clients move the
// bytes themselves through presigned URLs; the server never proxies them.
type FileStorage interface {
	// GeneratePresignedUploadURL returns a temporary URL accepting one PUT
	// of objectKey with the given content type.
	GeneratePresignedUploadURL(ctx context.Context, objectKey string, contentType string, expires time.Duration) (string, error)

	// GeneratePresignedDownloadURL returns a temporary GET URL for objectKey.
	GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)

	DeleteObject(ctx context.Context, objectKey string) error
}

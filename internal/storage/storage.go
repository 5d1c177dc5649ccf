// Package storage archives the original page scans of an intake batch in an
// S3-compatible object store. Implementations stream from memory and never touch local disk.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"
)

// PutObjectOptions define optional parameters for uploading objects.
// Size should be the exact number of bytes if known, or -1 to let the backend chunk the upload.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo contains basic information about an archived object.
type ObjectInfo struct {
	Key         string
	Size        int64
	ETag        string
	ContentType string
}

// Storage is the object store used for page scans.
type Storage interface {
	// Put uploads an object under the given key using the provided reader and options.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Delete removes an object by key.
	Delete(ctx context.Context, key string) error
	// PresignGet returns a time-limited URL that can be used to download the object without credentials.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// PageKey returns the object key of the page at the given zero-based index of a document.
// ext is the file extension including the dot, e.g. ".jpg".
func PageKey(documentID string, index int, ext string) string {
	return path.Join("documents", documentID, fmt.Sprintf("page-%03d%s", index, ext))
}

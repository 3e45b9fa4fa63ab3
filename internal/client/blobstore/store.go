// Package blobstore keeps the bytes of captured photos until they are
// uploaded. A captured photo gets a preview URL right away, so it can be
// shown before any call to the backend.
//
// LocalStore writes files under a directory and previews them as file://
// URLs. S3Store puts objects into an S3 compatible bucket (AWS or MinIO)
// and previews them with presigned GET URLs.
package blobstore

import (
	"context"
	"errors"
	"io"
)

var ErrNotFound = errors.New("blob not found")

type Store interface {
	Put(ctx context.Context, key string, r io.Reader, contentType string) error
	// Open returns ErrNotFound for an unknown key.
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete of an unknown key is not an error.
	Delete(ctx context.Context, key string) error
	PreviewURL(ctx context.Context, key string) (string, error)
}

// Package core defines the image blob abstractions shared by the storage
// drivers under internal/infra/blob.
package core

import (
	"context"
	"errors"
	"io"
	"time"
)

// Driver identifies a blob storage backend.
type Driver string

const (
	// DriverNone disables image storage.
	DriverNone Driver = "none"
	// DriverFilesystem stores images under a local directory.
	DriverFilesystem Driver = "fs"
	// DriverS3 stores images in an S3 or MinIO bucket.
	DriverS3 Driver = "s3"
	// DriverMemory keeps images in process memory.
	DriverMemory Driver = "memory"
)

// PutOptions carries optional attributes for a stored image.
type PutOptions struct {
	ContentType string
	Metadata    map[string]string
}

// Info describes a stored image.
type Info struct {
	Key          string            `json:"key"`
	Size         int64             `json:"sizeBytes"`
	ContentType  string            `json:"contentType,omitempty"`
	ETag         string            `json:"etag,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	LastModified time.Time         `json:"lastModified"`
	URL          string            `json:"url,omitempty"`
}

// Store is the minimal object store used for gallery images.
type Store interface {
	// Put writes a new object and fails with ErrExists when the key is taken.
	Put(ctx context.Context, key string, r io.Reader, opts PutOptions) (Info, error)
	// Get returns ErrNotFound for missing keys.
	Get(ctx context.Context, key string) (Info, io.ReadCloser, error)
	Head(ctx context.Context, key string) (Info, error)
	// Delete reports (false, nil) when the key did not exist.
	Delete(ctx context.Context, key string) (bool, error)
	// List returns objects under prefix ordered by key.
	List(ctx context.Context, prefix string) ([]Info, error)
	// URL returns a link usable as a gallery imageUrl. ttl applies to signed links only.
	URL(ctx context.Context, key string, ttl time.Duration) (string, error)
	Driver() Driver
}

var (
	// ErrNotFound is returned when a key does not exist.
	ErrNotFound = errors.New("blob: not found")
	// ErrExists is returned when Put targets an existing key.
	ErrExists = errors.New("blob: already exists")
	// ErrInvalidKey is returned for empty or escaping keys.
	ErrInvalidKey = errors.New("blob: invalid key")
)

// CloneMetadata copies a metadata map, keeping nil as nil.
func CloneMetadata(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

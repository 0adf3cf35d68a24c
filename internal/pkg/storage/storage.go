// Package storage archives small binary objects (receipts) in a bucket.
//
// Every driver is bound to a single bucket at construction and maps its
// backend's "no such object" error to ErrNotFound.
package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned by Get when the object does not exist.
	ErrNotFound = errors.New("storage: object not found")
	// ErrBucketRequired is returned when a driver is built without a bucket.
	ErrBucketRequired = errors.New("storage: bucket is required")
	// ErrKeyRequired is returned for an empty object key.
	ErrKeyRequired = errors.New("storage: key is required")
)

// Storage stores and fetches objects by key.
type Storage interface {
	io.Closer

	Put(ctx context.Context, key string, data []byte, opts PutOptions) (Object, error)
	Get(ctx context.Context, key string) ([]byte, Object, error)
}

// PutOptions configures an upload.
type PutOptions struct {
	ContentType string
	Metadata    map[string]string
}

// Object describes a stored object.
type Object struct {
	Key         string
	Size        int64
	ETag        string
	ContentType string
	Metadata    map[string]string
	UpdatedAt   time.Time
}

// objectKey joins the driver prefix and key with a single slash.
func objectKey(prefix, key string) (string, error) {
	key = strings.TrimLeft(key, "/")
	if key == "" {
		return "", ErrKeyRequired
	}

	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return key, nil
	}

	return prefix + "/" + key, nil
}

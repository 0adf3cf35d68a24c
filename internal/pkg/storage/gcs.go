package storage

import (
	"context"
	"errors"
	"io"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCSOptions configures the Google Cloud Storage driver.
type GCSOptions struct {
	Bucket        string
	Prefix        string
	Client        *gcs.Client
	ClientOptions []option.ClientOption
}

// GCS stores objects in one Google Cloud Storage bucket.
type GCS struct {
	client *gcs.Client
	bucket *gcs.BucketHandle
	prefix string
}

func NewGCS(ctx context.Context, opts GCSOptions) (*GCS, error) {
	if opts.Bucket == "" {
		return nil, ErrBucketRequired
	}

	client := opts.Client
	if client == nil {
		c, err := gcs.NewClient(ctx, opts.ClientOptions...)
		if err != nil {
			return nil, err
		}
		client = c
	}

	return &GCS{client: client, bucket: client.Bucket(opts.Bucket), prefix: opts.Prefix}, nil
}

func (g *GCS) Put(ctx context.Context, key string, data []byte, opts PutOptions) (Object, error) {
	full, err := objectKey(g.prefix, key)
	if err != nil {
		return Object{}, err
	}

	w := g.bucket.Object(full).NewWriter(ctx)
	w.ContentType = opts.ContentType
	w.Metadata = opts.Metadata

	if _, err := w.Write(data); err != nil {
		return Object{}, errors.Join(err, w.Close())
	}
	if err := w.Close(); err != nil {
		return Object{}, err
	}

	obj := Object{Key: key, Size: int64(len(data)), ContentType: opts.ContentType, Metadata: opts.Metadata}
	if attrs := w.Attrs(); attrs != nil {
		obj.ETag = attrs.Etag
		obj.UpdatedAt = attrs.Updated
	}

	return obj, nil
}

func (g *GCS) Get(ctx context.Context, key string) ([]byte, Object, error) {
	full, err := objectKey(g.prefix, key)
	if err != nil {
		return nil, Object{}, err
	}

	r, err := g.bucket.Object(full).NewReader(ctx)
	if err != nil {
		if errors.Is(err, gcs.ErrObjectNotExist) {
			return nil, Object{}, ErrNotFound
		}
		return nil, Object{}, err
	}
	defer func() { _ = r.Close() }()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, Object{}, err
	}

	return data, Object{
		Key:         key,
		Size:        int64(len(data)),
		ContentType: r.Attrs.ContentType,
		UpdatedAt:   r.Attrs.LastModified,
	}, nil
}

func (g *GCS) Close() error {
	return g.client.Close()
}

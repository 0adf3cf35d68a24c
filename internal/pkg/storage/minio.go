package storage

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIOOptions configures the MinIO driver.
type MinIOOptions struct {
	Bucket    string
	Prefix    string
	Endpoint  string
	AccessKey string
	SecretKey string
	Region    string
	UseSSL    bool
	// CreateBucket makes the bucket on start when it is missing.
	CreateBucket bool
}

// MinIO stores objects in one MinIO bucket. It suits kiosks that archive to
// an on-premise box.
type MinIO struct {
	client *minio.Client
	bucket string
	prefix string
}

func NewMinIO(ctx context.Context, opts MinIOOptions) (*MinIO, error) {
	if opts.Bucket == "" {
		return nil, ErrBucketRequired
	}

	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
		Region: opts.Region,
	})
	if err != nil {
		return nil, err
	}

	if opts.CreateBucket {
		exists, err := client.BucketExists(ctx, opts.Bucket)
		if err != nil {
			return nil, err
		}
		if !exists {
			if err := client.MakeBucket(ctx, opts.Bucket, minio.MakeBucketOptions{Region: opts.Region}); err != nil {
				return nil, err
			}
		}
	}

	return &MinIO{client: client, bucket: opts.Bucket, prefix: opts.Prefix}, nil
}

func (m *MinIO) Put(ctx context.Context, key string, data []byte, opts PutOptions) (Object, error) {
	full, err := objectKey(m.prefix, key)
	if err != nil {
		return Object{}, err
	}

	info, err := m.client.PutObject(ctx, m.bucket, full, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType:  opts.ContentType,
		UserMetadata: opts.Metadata,
	})
	if err != nil {
		return Object{}, err
	}

	return Object{
		Key:         key,
		Size:        info.Size,
		ETag:        info.ETag,
		ContentType: opts.ContentType,
		Metadata:    opts.Metadata,
		UpdatedAt:   info.LastModified,
	}, nil
}

func (m *MinIO) Get(ctx context.Context, key string) ([]byte, Object, error) {
	full, err := objectKey(m.prefix, key)
	if err != nil {
		return nil, Object{}, err
	}

	obj, err := m.client.GetObject(ctx, m.bucket, full, minio.GetObjectOptions{})
	if err != nil {
		return nil, Object{}, minioErr(err)
	}
	defer func() { _ = obj.Close() }()

	// minio defers the request until the first read or stat.
	stat, err := obj.Stat()
	if err != nil {
		return nil, Object{}, minioErr(err)
	}

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, Object{}, err
	}

	return data, Object{
		Key:         key,
		Size:        stat.Size,
		ETag:        stat.ETag,
		ContentType: stat.ContentType,
		Metadata:    stat.UserMetadata,
		UpdatedAt:   stat.LastModified,
	}, nil
}

func (m *MinIO) Close() error {
	return nil
}

func minioErr(err error) error {
	resp := minio.ToErrorResponse(err)
	if resp.StatusCode == http.StatusNotFound || resp.Code == "NoSuchKey" {
		return ErrNotFound
	}

	return err
}

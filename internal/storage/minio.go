package storage

import (
	"bytes"
	"context"
	"io"

	"github.com/Laisky/errors/v2"
	"github.com/minio/minio-go/v7"
)

// MinioBackend stores content in an S3-compatible bucket.
type MinioBackend struct {
	cli    *minio.Client
	bucket string
	prefix string
}

// NewMinioBackend wraps an existing minio client. The bucket must already exist.
func NewMinioBackend(cli *minio.Client, bucket, prefix string) (*MinioBackend, error) {
	if cli == nil {
		return nil, errors.New("minio client is required")
	}
	if bucket == "" {
		return nil, errors.New("empty bucket")
	}

	return &MinioBackend{cli: cli, bucket: bucket, prefix: prefix}, nil
}

func (b *MinioBackend) objkey(name string) string {
	if b.prefix == "" {
		return name
	}

	return b.prefix + "/" + name
}

// Store uploads data under name.
func (b *MinioBackend) Store(ctx context.Context, name string, data []byte) error {
	_, err := b.cli.PutObject(ctx,
		b.bucket,
		b.objkey(name),
		bytes.NewReader(data),
		int64(len(data)),
		minio.PutObjectOptions{
			ContentType: "application/octet-stream",
		},
	)
	if err != nil {
		return errors.Wrapf(err, "put object %q", name)
	}

	return nil
}

// Open downloads the content stored under name.
func (b *MinioBackend) Open(ctx context.Context, name string) ([]byte, error) {
	obj, err := b.cli.GetObject(ctx, b.bucket, b.objkey(name), minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.Wrapf(err, "get object %q", name)
	}
	defer obj.Close() // nolint:errcheck

	data, err := io.ReadAll(obj)
	if err != nil {
		var resp minio.ErrorResponse
		if errors.As(err, &resp) && resp.Code == "NoSuchKey" {
			return nil, errors.Wrapf(ErrNotExist, "%q", name)
		}

		return nil, errors.Wrapf(err, "read object %q", name)
	}

	return data, nil
}

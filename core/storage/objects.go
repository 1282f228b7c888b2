package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
)

// ObjectKey joins a folder prefix and a file name into an object key.
func ObjectKey(prefix, name string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return name
	}
	return path.Join(prefix, name)
}

// PutBytes uploads data under key with the given content type.
func PutBytes(ctx context.Context, client Client, bucket, key string, data []byte, contentType string) error {
	_, err := client.PutObject(ctx, bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return nil
}

// ReadAll downloads an object. Objects larger than limit bytes are rejected when limit > 0.
func ReadAll(ctx context.Context, client Client, bucket, key string, limit int64) ([]byte, error) {
	obj, err := client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	defer obj.Close()

	var r io.Reader = obj
	if limit > 0 {
		r = io.LimitReader(obj, limit+1)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if limit > 0 && int64(len(data)) > limit {
		return nil, fmt.Errorf("object %s exceeds %d bytes", key, limit)
	}
	return data, nil
}

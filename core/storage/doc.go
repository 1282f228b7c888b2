// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client so the importer can archive uploaded CSV files and
// JSON import reports, and read back CSV files that were dropped into the bucket.
// Both AWS S3 and self-hosted MinIO instances are supported.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it easier
// to mock storage interactions for unit testing (see core/storage/mocks).
//
// # Helpers
//
//   - ObjectKey: Joins a folder prefix and a file name.
//   - PutBytes: Uploads an in-memory payload with a content type.
//   - ReadAll: Downloads an object, optionally bounded in size.
//
// # Usage
//
//	client, err := storage.NewClient(config)
//	data, err := storage.ReadAll(ctx, client, config.Bucket, "imports/week1.csv", 0)
package storage

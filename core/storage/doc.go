// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind the small Client interface used by the
// object-storage backend of core/fsys. This abstraction supports both AWS S3
// and self-hosted MinIO instances.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it easier
// to mock storage interactions for unit testing (as seen in core/storage/mocks).
//
// # Operations
//
//   - BucketExists / MakeBucket: bucket bootstrap.
//   - PutObject / GetObject: whole-object writes and streamed reads.
//   - StatObject: metadata, used for modification times.
//   - RemoveObject: deletes a single object.
//
// # Usage
//
//	client, err := storage.NewClient(config)
//	info, err := client.StatObject(ctx, "area-reconciler", "cache/budapest_11.lints.txt", minio.StatObjectOptions{})
package storage

// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind the small Client interface used by the
// snapshot store, so both AWS S3 and self-hosted MinIO can hold saved
// comparisons. The mocks subpackage provides a testify mock of Client.
//
// # Operations
//
//   - BucketExists / MakeBucket: bucket bootstrap on startup.
//   - PutObject / GetObject: snapshot upload and download.
//   - ListObjects: snapshot listing under a prefix.
//   - RemoveObject / RemoveObjects: single delete and retention pruning.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	exists, err := client.BucketExists(ctx, cfg.Storage.Bucket)
package storage

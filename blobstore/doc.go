// Package blobstore abstracts where source images are read from and where
// exported images are written to.
//
// Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: local file system, reads served from a read-only mmap
//   - MemoryStore: in-memory, for tests
//   - CompressedStore: wraps any store; ".zst" names are zstd, ".lz4" names are lz4 frames
//   - minio.Store: MinIO and other S3-compatible object stores
//   - s3.Store: Amazon S3
//
// # Custom Implementations
//
//	type BlobStore interface {
//	    Open(ctx, name) (Blob, error)            // Open for reading
//	    Create(ctx, name) (WritableBlob, error)  // Create for streaming writes
//	    Put(ctx, name, data) error               // Atomic write
//	    Delete(ctx, name) error
//	    List(ctx, prefix) ([]string, error)
//	}
package blobstore

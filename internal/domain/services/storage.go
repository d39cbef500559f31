package services

import (
	"context"
	"io"
)

// BlobUpload is the result of a successful blob upload.
type BlobUpload struct {
	Key    string // logical storage key
	Size   int64  // byte length written
	SHA256 string // hex content hash, recorded audit-only
}

// StorageGateway maps logical (document, version) identity to physical blob
// locations. Keys are deterministic from owner, date, document and version,
// not from content hash; there is no deduplication. All calls honor the
// context deadline.
type StorageGateway interface {
	// Upload validates size and extension policy, writes the blob, and returns
	// its logical key, size and content hash
	Upload(ctx context.Context, ownerID, documentID string, versionNumber int, r io.Reader, fileName string) (*BlobUpload, error)

	// Download returns the full byte stream for a key
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes a blob. Deleting an absent key reports NotFound rather
	// than failing hard, so batch cleanup can treat it as already gone.
	Delete(ctx context.Context, key string) error

	// Copy duplicates a blob under a new owner and document identity,
	// returning the new key
	Copy(ctx context.Context, sourceKey, destOwnerID, destDocumentID string, versionNumber int) (string, error)

	// Exists is a cheap existence probe for cleanup and consistency checks
	Exists(ctx context.Context, key string) (bool, error)
}

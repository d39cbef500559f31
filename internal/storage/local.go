package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"docvault/internal/config"
	"docvault/internal/domain"
	"docvault/internal/domain/services"
)

// LocalGateway implements services.StorageGateway on the local filesystem.
// Keys are forward-slash logical paths; the physical layout mirrors them under
// the root directory. Writes go through a temp file and rename so a partially
// written blob is never visible under its final key.
type LocalGateway struct {
	root   string
	policy *config.StoragePolicy
	logger *slog.Logger
}

// NewLocalGateway creates a gateway rooted at dir, creating it if necessary.
func NewLocalGateway(dir string, policy *config.StoragePolicy, logger *slog.Logger) (*LocalGateway, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create blob root: %w", err)
	}
	return &LocalGateway{
		root:   dir,
		policy: policy,
		logger: logger,
	}, nil
}

// BlobKey builds the deterministic storage key for one version. The key is
// derived from owner, upload date, document and version number plus original
// extension - never from content hash (no deduplication).
func BlobKey(ownerID, documentID string, versionNumber int, ext string, now time.Time) string {
	return path.Join(
		ownerID,
		now.UTC().Format("2006/01/02"),
		documentID,
		fmt.Sprintf("v%d%s", versionNumber, strings.ToLower(ext)),
	)
}

// Upload validates policy, writes the blob and returns key, size and hash.
func (g *LocalGateway) Upload(ctx context.Context, ownerID, documentID string, versionNumber int, r io.Reader, fileName string) (*services.BlobUpload, error) {
	ext := filepath.Ext(fileName)
	if ext == "" || !g.policy.ExtensionAllowed(ext) {
		return nil, &domain.PolicyViolationError{
			Message: fmt.Sprintf("file type %q is not allowed", ext),
		}
	}

	key := BlobKey(ownerID, documentID, versionNumber, ext, time.Now())
	dest, err := g.resolve(key)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return nil, &domain.StorageError{Message: fmt.Sprintf("prepare blob directory: %v", err)}
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".upload-*")
	if err != nil {
		return nil, &domain.StorageError{Message: fmt.Sprintf("create temp blob: %v", err)}
	}
	defer func() {
		tmp.Close()
		os.Remove(tmp.Name()) // no-op after successful rename
	}()

	hasher := sha256.New()
	// Read one byte past the limit so oversize is distinguishable from exact fit
	limited := io.LimitReader(r, g.policy.MaxFileSizeBytes+1)
	size, err := copyContext(ctx, io.MultiWriter(tmp, hasher), limited)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &domain.StorageError{Message: fmt.Sprintf("write blob: %v", err)}
	}

	if size == 0 {
		return nil, &domain.PolicyViolationError{Message: "file is empty"}
	}
	if size > g.policy.MaxFileSizeBytes {
		return nil, &domain.PolicyViolationError{
			Message: fmt.Sprintf("file exceeds maximum size of %d bytes", g.policy.MaxFileSizeBytes),
		}
	}

	if err := tmp.Close(); err != nil {
		return nil, &domain.StorageError{Message: fmt.Sprintf("close temp blob: %v", err)}
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return nil, &domain.StorageError{Message: fmt.Sprintf("commit blob: %v", err)}
	}

	g.logger.Debug("blob uploaded", "key", key, "size", size)

	return &services.BlobUpload{
		Key:    key,
		Size:   size,
		SHA256: hex.EncodeToString(hasher.Sum(nil)),
	}, nil
}

// Download returns the full byte stream for a key.
func (g *LocalGateway) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p, err := g.resolve(key)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &domain.NotFoundError{Message: fmt.Sprintf("blob %s not found", key)}
		}
		return nil, &domain.StorageError{Message: fmt.Sprintf("open blob: %v", err)}
	}
	return f, nil
}

// Delete removes a blob. An absent key is reported as NotFound so batch
// cleanup can treat it as already gone.
func (g *LocalGateway) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p, err := g.resolve(key)
	if err != nil {
		return err
	}

	if err := os.Remove(p); err != nil {
		if os.IsNotExist(err) {
			return &domain.NotFoundError{Message: fmt.Sprintf("blob %s not found", key)}
		}
		return &domain.StorageError{Message: fmt.Sprintf("delete blob: %v", err)}
	}

	g.logger.Debug("blob deleted", "key", key)
	return nil
}

// Copy duplicates a blob under a new owner and document identity.
func (g *LocalGateway) Copy(ctx context.Context, sourceKey, destOwnerID, destDocumentID string, versionNumber int) (string, error) {
	src, err := g.Download(ctx, sourceKey)
	if err != nil {
		return "", err
	}
	defer src.Close()

	destKey := BlobKey(destOwnerID, destDocumentID, versionNumber, path.Ext(sourceKey), time.Now())
	dest, err := g.resolve(destKey)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", &domain.StorageError{Message: fmt.Sprintf("prepare blob directory: %v", err)}
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".copy-*")
	if err != nil {
		return "", &domain.StorageError{Message: fmt.Sprintf("create temp blob: %v", err)}
	}
	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	if _, err := copyContext(ctx, tmp, src); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", &domain.StorageError{Message: fmt.Sprintf("copy blob: %v", err)}
	}
	if err := tmp.Close(); err != nil {
		return "", &domain.StorageError{Message: fmt.Sprintf("close temp blob: %v", err)}
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return "", &domain.StorageError{Message: fmt.Sprintf("commit blob: %v", err)}
	}

	g.logger.Debug("blob copied", "source", sourceKey, "dest", destKey)
	return destKey, nil
}

// Exists is a cheap existence probe.
func (g *LocalGateway) Exists(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	p, err := g.resolve(key)
	if err != nil {
		return false, err
	}

	if _, err := os.Stat(p); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, &domain.StorageError{Message: fmt.Sprintf("stat blob: %v", err)}
	}
	return true, nil
}

// resolve maps a logical key to a physical path, rejecting traversal.
func (g *LocalGateway) resolve(key string) (string, error) {
	cleaned := path.Clean(key)
	if cleaned == "." || strings.HasPrefix(cleaned, "..") || path.IsAbs(cleaned) {
		return "", &domain.ValidationError{Message: fmt.Sprintf("invalid storage key %q", key)}
	}
	return filepath.Join(g.root, filepath.FromSlash(cleaned)), nil
}

// copyContext copies src to dst in chunks, aborting when ctx is done. A
// timed-out upload must not leave a version row behind; callers see ctx.Err().
func copyContext(ctx context.Context, dst io.Writer, src io.Reader) (int64, error) {
	buf := make([]byte, 32<<10)
	var written int64
	for {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		n, readErr := src.Read(buf)
		if n > 0 {
			wn, writeErr := dst.Write(buf[:n])
			written += int64(wn)
			if writeErr != nil {
				return written, writeErr
			}
			if wn != n {
				return written, io.ErrShortWrite
			}
		}
		if readErr != nil {
			if readErr == io.EOF {
				return written, nil
			}
			return written, readErr
		}
	}
}

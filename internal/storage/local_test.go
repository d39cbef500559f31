package storage

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"docvault/internal/config"
	"docvault/internal/domain"
)

func newTestGateway(t *testing.T) *LocalGateway {
	t.Helper()
	policy := &config.StoragePolicy{
		MaxFileSizeBytes:  64,
		AllowedExtensions: []string{".txt", ".md"},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	g, err := NewLocalGateway(t.TempDir(), policy, logger)
	if err != nil {
		t.Fatalf("new gateway: %v", err)
	}
	return g
}

func TestBlobKeyLayout(t *testing.T) {
	ts := time.Date(2026, 3, 14, 15, 9, 0, 0, time.UTC)
	got := BlobKey("owner-1", "doc-1", 3, ".TXT", ts)
	want := "owner-1/2026/03/14/doc-1/v3.txt"
	if got != want {
		t.Errorf("key: got %q, want %q", got, want)
	}
}

func TestUploadDownloadRoundTrip(t *testing.T) {
	g := newTestGateway(t)
	ctx := context.Background()

	blob, err := g.Upload(ctx, "owner", "doc", 1, strings.NewReader("hello"), "notes.txt")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if blob.Size != 5 {
		t.Errorf("size: got %d, want 5", blob.Size)
	}
	if len(blob.SHA256) != 64 {
		t.Errorf("hash length: got %d, want 64 hex chars", len(blob.SHA256))
	}

	reader, err := g.Download(ctx, blob.Key)
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	defer reader.Close()
	data, _ := io.ReadAll(reader)
	if string(data) != "hello" {
		t.Errorf("bytes: got %q, want hello", data)
	}

	ok, err := g.Exists(ctx, blob.Key)
	if err != nil || !ok {
		t.Errorf("exists: got %v/%v, want true", ok, err)
	}
}

func TestUploadPolicyViolations(t *testing.T) {
	g := newTestGateway(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		fileName string
		content  string
	}{
		{name: "disallowed extension", fileName: "malware.exe", content: "x"},
		{name: "no extension", fileName: "README", content: "x"},
		{name: "empty file", fileName: "empty.txt", content: ""},
		{name: "oversize file", fileName: "big.txt", content: strings.Repeat("x", 65)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := g.Upload(ctx, "owner", "doc", 1, strings.NewReader(tt.content), tt.fileName)
			if !errors.Is(err, domain.ErrPolicyViolation) {
				t.Errorf("got %v, want policy violation", err)
			}
		})
	}

	// A file exactly at the limit is accepted
	if _, err := g.Upload(ctx, "owner", "doc", 2, strings.NewReader(strings.Repeat("x", 64)), "fit.txt"); err != nil {
		t.Errorf("exact-fit upload: %v", err)
	}
}

func TestUploadExtensionCaseInsensitive(t *testing.T) {
	g := newTestGateway(t)
	if _, err := g.Upload(context.Background(), "owner", "doc", 1, strings.NewReader("x"), "NOTES.TXT"); err != nil {
		t.Errorf("uppercase extension: %v", err)
	}
}

func TestDeleteAbsentReportsNotFound(t *testing.T) {
	g := newTestGateway(t)
	err := g.Delete(context.Background(), "owner/2026/01/01/doc/v1.txt")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("got %v, want not found", err)
	}
}

func TestCopyDuplicatesBlob(t *testing.T) {
	g := newTestGateway(t)
	ctx := context.Background()

	blob, err := g.Upload(ctx, "owner", "doc", 1, strings.NewReader("template"), "t.md")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	destKey, err := g.Copy(ctx, blob.Key, "owner", "doc-copy", 1)
	if err != nil {
		t.Fatalf("copy: %v", err)
	}
	if destKey == blob.Key {
		t.Error("copy must produce a distinct key")
	}
	if !strings.HasSuffix(destKey, "/doc-copy/v1.md") {
		t.Errorf("dest key layout: got %q", destKey)
	}

	reader, err := g.Download(ctx, destKey)
	if err != nil {
		t.Fatalf("download copy: %v", err)
	}
	defer reader.Close()
	data, _ := io.ReadAll(reader)
	if string(data) != "template" {
		t.Errorf("copy bytes: got %q", data)
	}

	// Source is untouched
	if ok, _ := g.Exists(ctx, blob.Key); !ok {
		t.Error("source blob should survive the copy")
	}
}

func TestResolveRejectsTraversal(t *testing.T) {
	g := newTestGateway(t)
	ctx := context.Background()

	for _, key := range []string{"../escape.txt", "/etc/passwd", "a/../../b.txt"} {
		if _, err := g.Download(ctx, key); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("key %q: got %v, want validation error", key, err)
		}
	}
}

func TestUploadHonorsContextCancellation(t *testing.T) {
	g := newTestGateway(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.Upload(ctx, "owner", "doc", 1, strings.NewReader("data"), "f.txt")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}

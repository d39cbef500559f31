package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultStoragePolicy(t *testing.T) {
	policy := DefaultStoragePolicy()
	if policy.MaxFileSizeBytes != 50<<20 {
		t.Errorf("default max size: got %d, want %d", policy.MaxFileSizeBytes, 50<<20)
	}
	if !policy.ExtensionAllowed(".pdf") {
		t.Error(".pdf should be allowed by default")
	}
	if policy.ExtensionAllowed(".exe") {
		t.Error(".exe should not be allowed by default")
	}
}

func TestExtensionAllowedCaseInsensitive(t *testing.T) {
	policy := &StoragePolicy{AllowedExtensions: []string{".txt", ".PDF"}}

	tests := []struct {
		ext  string
		want bool
	}{
		{ext: ".txt", want: true},
		{ext: ".TXT", want: true},
		{ext: ".pdf", want: true},
		{ext: ".Pdf", want: true},
		{ext: ".doc", want: false},
		{ext: "", want: false},
	}

	for _, tt := range tests {
		if got := policy.ExtensionAllowed(tt.ext); got != tt.want {
			t.Errorf("ExtensionAllowed(%q) = %v, want %v", tt.ext, got, tt.want)
		}
	}
}

func TestLoadStoragePolicy(t *testing.T) {
	t.Run("empty path returns defaults", func(t *testing.T) {
		policy, err := LoadStoragePolicy("")
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if policy.MaxFileSizeBytes != DefaultStoragePolicy().MaxFileSizeBytes {
			t.Error("empty path should yield defaults")
		}
	})

	t.Run("yaml overrides", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "policy.yaml")
		content := "max_file_size_bytes: 1024\nallowed_extensions:\n  - .txt\n"
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}

		policy, err := LoadStoragePolicy(path)
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if policy.MaxFileSizeBytes != 1024 {
			t.Errorf("max size: got %d, want 1024", policy.MaxFileSizeBytes)
		}
		if !policy.ExtensionAllowed(".txt") || policy.ExtensionAllowed(".pdf") {
			t.Error("allow-list should be fully replaced by the file")
		}
	})

	t.Run("partial yaml inherits defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "policy.yaml")
		if err := os.WriteFile(path, []byte("max_file_size_bytes: 2048\n"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}

		policy, err := LoadStoragePolicy(path)
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if policy.MaxFileSizeBytes != 2048 {
			t.Errorf("max size: got %d, want 2048", policy.MaxFileSizeBytes)
		}
		if !policy.ExtensionAllowed(".pdf") {
			t.Error("unset allow-list should inherit defaults")
		}
	})

	t.Run("missing file errors", func(t *testing.T) {
		if _, err := LoadStoragePolicy(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
			t.Error("want error for missing file")
		}
	})
}

func TestGetTablePrefix(t *testing.T) {
	tests := []struct {
		env  string
		want string
	}{
		{env: "prod", want: "prod_"},
		{env: "test", want: "test_"},
		{env: "dev", want: "dev_"},
		{env: "anything-else", want: "dev_"},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			t.Setenv("TABLE_PREFIX", "")
			if got := getTablePrefix(tt.env); got != tt.want {
				t.Errorf("getTablePrefix(%q) = %q, want %q", tt.env, got, tt.want)
			}
		})
	}

	t.Run("explicit override wins", func(t *testing.T) {
		t.Setenv("TABLE_PREFIX", "custom_")
		if got := getTablePrefix("prod"); got != "custom_" {
			t.Errorf("override: got %q, want custom_", got)
		}
	})
}

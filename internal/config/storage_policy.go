package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// StoragePolicy is the upload validation policy: maximum blob size and the
// case-insensitive file extension allow-list.
type StoragePolicy struct {
	MaxFileSizeBytes  int64    `yaml:"max_file_size_bytes"`
	AllowedExtensions []string `yaml:"allowed_extensions"`
}

// DefaultStoragePolicy returns the built-in policy used when no YAML file is
// configured.
func DefaultStoragePolicy() *StoragePolicy {
	return &StoragePolicy{
		MaxFileSizeBytes: 50 << 20, // 50 MiB
		AllowedExtensions: []string{
			".txt", ".md", ".pdf", ".doc", ".docx", ".xls", ".xlsx",
			".ppt", ".pptx", ".csv", ".json", ".png", ".jpg", ".jpeg",
		},
	}
}

// LoadStoragePolicy reads a policy from a YAML file, falling back to the
// defaults when path is empty. Missing fields inherit the defaults.
func LoadStoragePolicy(path string) (*StoragePolicy, error) {
	policy := DefaultStoragePolicy()
	if path == "" {
		return policy, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read storage policy: %w", err)
	}

	var loaded StoragePolicy
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("parse storage policy: %w", err)
	}

	if loaded.MaxFileSizeBytes > 0 {
		policy.MaxFileSizeBytes = loaded.MaxFileSizeBytes
	}
	if len(loaded.AllowedExtensions) > 0 {
		policy.AllowedExtensions = loaded.AllowedExtensions
	}
	return policy, nil
}

// ExtensionAllowed reports whether ext (with leading dot) is in the
// allow-list. Comparison is case-insensitive.
func (p *StoragePolicy) ExtensionAllowed(ext string) bool {
	for _, allowed := range p.AllowedExtensions {
		if strings.EqualFold(allowed, ext) {
			return true
		}
	}
	return false
}

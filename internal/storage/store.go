// Package storage persists uploaded check-in photos.
package storage

import (
	"context"
	"io"
)

// FileInfo describes a stored file.
type FileInfo struct {
	URL         string `json:"url"`
	Key         string `json:"key"`
	FileName    string `json:"fileName"`
	FileSize    int64  `json:"fileSize"`
	ContentType string `json:"contentType"`
}

// Store is implemented by LocalStore (development) and R2Store (production).
type Store interface {
	// Save writes size bytes from r under key.
	Save(ctx context.Context, key string, r io.Reader, size int64, contentType string) (*FileInfo, error)
	// Delete removes key. A missing key is not an error.
	Delete(ctx context.Context, key string) error
	// URL returns the address clients use to fetch key.
	URL(key string) string
}

// Remote reports whether URL(key) points outside this server, in which case
// file requests are redirected instead of served.
func Remote(s Store) bool {
	_, ok := s.(*R2Store)
	return ok
}

// Package storage persists uploaded post images. Two drivers share the
// same contract: local disk under the configured upload root, and
// S3-compatible object storage. Stored paths are opaque handles; the
// public URL is derived per driver.
package storage

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store is the file-storage contract the post service depends on.
//
// Delete treats a missing file as success; any other failure is
// returned so the caller can abort the paired database removal.
type Store interface {
	// Save writes the file under a post-scoped unique name and returns
	// the stored path handle.
	Save(ctx context.Context, postID uuid.UUID, fileName string, contentType string, data []byte) (string, error)
	// SaveThumb writes a pre-generated thumbnail next to the original.
	SaveThumb(ctx context.Context, postID uuid.UUID, data []byte) (string, error)
	// Delete removes a stored file by its path handle.
	Delete(ctx context.Context, path string) error
	// FileURL converts a stored path handle into a public URL.
	FileURL(path string) string
}

// allowedExtensions and allowedContentTypes define the accepted image
// upload formats.
var (
	allowedExtensions   = map[string]bool{".jpg": true, ".jpeg": true, ".png": true}
	allowedContentTypes = map[string]bool{"image/jpeg": true, "image/png": true}
)

// ValidImage reports whether the file name extension and declared
// content type are both an accepted image format.
func ValidImage(fileName, contentType string) bool {
	ext := strings.ToLower(filepath.Ext(fileName))
	return allowedExtensions[ext] && allowedContentTypes[strings.ToLower(contentType)]
}

// SizeOK reports whether the file size is within the configured maximum.
func SizeOK(size, maxBytes int64) bool {
	return size > 0 && size <= maxBytes
}

// objectName builds a unique stored file name preserving the extension.
func objectName(fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	return uuid.New().String() + ext
}

package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/google/uuid"
)

// Local stores files on disk under an upload root, one directory per
// post. Path handles are slash-separated and relative to the root.
type Local struct {
	root string
}

// NewLocal creates a disk-backed store rooted at the given directory.
func NewLocal(root string) *Local {
	return &Local{root: root}
}

// Save writes the file to <root>/posts/<postID>/<uuid><ext>.
func (l *Local) Save(_ context.Context, postID uuid.UUID, fileName string, _ string, data []byte) (string, error) {
	handle := path.Join("posts", postID.String(), objectName(fileName))
	return handle, l.write(handle, data)
}

// SaveThumb writes a thumbnail to the post's directory as JPEG.
func (l *Local) SaveThumb(_ context.Context, postID uuid.UUID, data []byte) (string, error) {
	handle := path.Join("posts", postID.String(), objectName("thumb.jpg"))
	return handle, l.write(handle, data)
}

func (l *Local) write(handle string, data []byte) error {
	full := filepath.Join(l.root, filepath.FromSlash(handle))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("create upload dir: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return fmt.Errorf("write file %s: %w", handle, err)
	}
	return nil
}

// Delete removes the stored file. A file that is already gone counts
// as deleted; other I/O failures are returned.
func (l *Local) Delete(_ context.Context, handle string) error {
	full := filepath.Join(l.root, filepath.FromSlash(handle))
	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete file %s: %w", handle, err)
	}
	return nil
}

// FileURL maps a stored path handle to its public URL under /uploads/.
func (l *Local) FileURL(handle string) string {
	return "/uploads/" + handle
}

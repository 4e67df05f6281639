// Package storage holds the attachment store collaborators. Uploads return an
// opaque reference that doubt and reply payloads carry around.
package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"
)

// AttachmentStore accepts uploaded binary content and returns a stable
// reference to it.
type AttachmentStore interface {
	Save(ctx context.Context, filename string, r io.Reader, size int64, contentType string) (string, error)
}

var imageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
}

// AllowedContentType restricts uploads to images.
func AllowedContentType(contentType string) bool {
	return imageTypes[strings.ToLower(contentType)]
}

// objectKey builds a collision-free reference from the original filename.
func objectKey(filename string) string {
	name := filepath.Base(filename)
	name = strings.ReplaceAll(name, " ", "_")
	if name == "" || name == "." {
		name = "attachment"
	}
	return fmt.Sprintf("%d-%s", time.Now().UnixNano(), name)
}

// Package filestore keeps uploaded files and hands back the URL they are
// served from.
package filestore

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Store interface {
	// Put stores r under key and returns its public URL.
	Put(ctx context.Context, key, contentType string, r io.Reader) (string, error)
}

// NewKey builds a unique object key under prefix, keeping the extension of
// the original file name or deriving one from the content type.
func NewKey(prefix, filename, contentType string) string {
	ext := strings.ToLower(path.Ext(filename))
	if ext == "" {
		if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
			ext = exts[0]
		}
	}
	d := time.Now()
	return fmt.Sprintf("%s/%d/%02d/%02d/%s%s", prefix, d.Year(), d.Month(), d.Day(), uuid.New(), ext)
}

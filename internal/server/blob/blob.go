// Package blob stores uploaded car images. Two backends: local disk for
// development and S3-compatible object storage for deployments.
package blob

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"carsapi/internal/common"
)

// MaxFileSize is the largest upload accepted, in bytes.
const MaxFileSize = 10 << 20

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

// File is an upload handed to a Store.
type File struct {
	Name   string
	Size   int64
	Reader io.Reader
}

// Store persists uploads and resolves their public URLs.
//
// Upload returns a path relative to the store root; that path is what
// gets persisted alongside the car record. Delete reports whether the
// object was removed, callers treat a miss as non-fatal.
type Store interface {
	Upload(ctx context.Context, f File, category string) (string, error)
	Delete(ctx context.Context, relativePath string) bool
	PublicURL(relativePath string) string
}

// ValidateFile checks the upload against the size cap and the image
// extension allow-list.
func ValidateFile(f File) error {
	if f.Size > MaxFileSize {
		return common.WithDetails(common.ErrValidation,
			fmt.Sprintf("file: exceeds maximum size of %d bytes", MaxFileSize))
	}
	ext := strings.ToLower(filepath.Ext(f.Name))
	if !allowedExtensions[ext] {
		return common.WithDetails(common.ErrValidation,
			fmt.Sprintf("file: extension %q is not an allowed image type", ext))
	}
	return nil
}

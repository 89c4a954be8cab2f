package blob

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LocalStore writes uploads to disk under a root directory. Files are
// served back by the HTTP layer as static content under baseURL.
type LocalStore struct {
	root    string
	baseURL string
}

func NewLocalStore(root, baseURL string) *LocalStore {
	return &LocalStore{root: root, baseURL: strings.TrimRight(baseURL, "/")}
}

func (s *LocalStore) Upload(ctx context.Context, f File, category string) (string, error) {
	if err := ValidateFile(f); err != nil {
		return "", err
	}

	dir := filepath.Join(s.root, category)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating upload dir: %w", err)
	}

	name := uuid.NewString() + strings.ToLower(filepath.Ext(f.Name))
	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("creating upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, io.LimitReader(f.Reader, MaxFileSize)); err != nil {
		return "", fmt.Errorf("writing upload: %w", err)
	}

	return path.Join(category, name), nil
}

func (s *LocalStore) Delete(ctx context.Context, relativePath string) bool {
	// Reject anything that escapes the root.
	clean := filepath.Clean(relativePath)
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return false
	}
	return os.Remove(filepath.Join(s.root, clean)) == nil
}

func (s *LocalStore) PublicURL(relativePath string) string {
	return s.baseURL + "/uploads/" + strings.TrimLeft(relativePath, "/")
}

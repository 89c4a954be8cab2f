package blob

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carsapi/internal/common"
)

func TestValidateFile(t *testing.T) {
	tests := []struct {
		name    string
		file    File
		wantErr bool
	}{
		{"jpg ok", File{Name: "photo.jpg", Size: 100}, false},
		{"uppercase ext ok", File{Name: "photo.PNG", Size: 100}, false},
		{"gif ok", File{Name: "anim.gif", Size: 100}, false},
		{"too large", File{Name: "photo.jpg", Size: MaxFileSize + 1}, true},
		{"bad extension", File{Name: "script.exe", Size: 100}, true},
		{"no extension", File{Name: "photo", Size: 100}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFile(tt.file)
			if tt.wantErr {
				assert.True(t, errors.Is(err, common.ErrValidation))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLocalStore_UploadAndDelete(t *testing.T) {
	root := t.TempDir()
	store := NewLocalStore(root, "http://localhost:8080")

	rel, err := store.Upload(context.Background(), File{
		Name:   "Photo.JPG",
		Size:   5,
		Reader: strings.NewReader("hello"),
	}, "cars")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(rel, "cars/"))
	assert.True(t, strings.HasSuffix(rel, ".jpg"))

	data, err := os.ReadFile(filepath.Join(root, rel))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	assert.True(t, store.Delete(context.Background(), rel))
	assert.False(t, store.Delete(context.Background(), rel))
}

func TestLocalStore_UploadRejectsInvalid(t *testing.T) {
	store := NewLocalStore(t.TempDir(), "http://localhost:8080")

	_, err := store.Upload(context.Background(), File{
		Name:   "malware.exe",
		Size:   5,
		Reader: strings.NewReader("nope"),
	}, "cars")
	assert.True(t, errors.Is(err, common.ErrValidation))
}

func TestLocalStore_DeleteRejectsTraversal(t *testing.T) {
	store := NewLocalStore(t.TempDir(), "http://localhost:8080")

	assert.False(t, store.Delete(context.Background(), "../etc/passwd"))
	assert.False(t, store.Delete(context.Background(), "/etc/passwd"))
}

func TestLocalStore_PublicURL(t *testing.T) {
	store := NewLocalStore("uploads", "http://localhost:8080/")

	assert.Equal(t, "http://localhost:8080/uploads/cars/a.jpg", store.PublicURL("cars/a.jpg"))
}

package filestorage

import (
	"context"
	"errors"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrObjectNotFound is returned when a key has no stored object
var ErrObjectNotFound = errors.New("object not found")

// ErrInvalidKey is returned for keys that escape the storage root
var ErrInvalidKey = errors.New("invalid object key")

// BlobStore holds uploaded file bytes under opaque keys
type BlobStore interface {
	// Put stores the content under key and returns the number of bytes written
	Put(ctx context.Context, key string, content io.Reader) (int64, error)

	// Open returns a reader for the object; the caller closes it
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the object. Deleting a missing object is not an error.
	Delete(ctx context.Context, key string) error
}

// ObjectKey builds a collision-free key for a student's upload,
// e.g. "students/<student>/<uuid>.pdf". Only letters and digits of the
// file extension are kept.
func ObjectKey(studentID, filename string) string {
	return path.Join("students", studentID, uuid.New().String()+safeExt(filename))
}

func safeExt(filename string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	var b strings.Builder
	for _, r := range ext {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return ""
	}
	return "." + b.String()
}

// cleanKey rejects empty, absolute and parent-relative keys
func cleanKey(key string) (string, error) {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return "", ErrInvalidKey
	}
	cleaned := path.Clean(key)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", ErrInvalidKey
	}
	return cleaned, nil
}

package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var (
	// ErrPhotoNotFound is returned when a key has no stored object.
	ErrPhotoNotFound = errors.New("photo not found")
	// ErrPhotoTooLarge is returned for uploads over the configured size limit.
	ErrPhotoTooLarge = errors.New("photo too large")
	// ErrPhotoType is returned for uploads that are not images.
	ErrPhotoType = errors.New("photo must be an image")
)

// Photo is a stored complaint photo.
type Photo struct {
	Key         string
	ContentType string
	Data        []byte
}

// PhotoStore persists complaint photos and resolves their public URLs.
type PhotoStore interface {
	Put(ctx context.Context, photo Photo) error
	Get(ctx context.Context, key string) (*Photo, error)
	Delete(ctx context.Context, key string) error
	URL(ctx context.Context, key string) (string, error)
}

// ValidatePhoto checks an upload against the size limit and image content
// types.
func ValidatePhoto(size int64, contentType string, maxBytes int64) error {
	if size <= 0 {
		return fmt.Errorf("%w: empty file", ErrPhotoType)
	}
	if maxBytes > 0 && size > maxBytes {
		return ErrPhotoTooLarge
	}
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "image/") {
		return ErrPhotoType
	}
	return nil
}

// NewPhotoKey builds a unique key, keeping a short alphanumeric extension of
// the uploaded file name.
func NewPhotoKey(filename string) string {
	key := "complaint-" + uuid.NewString()
	ext := strings.ToLower(filepath.Ext(filename))
	if len(ext) < 2 || len(ext) > 6 {
		return key
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return key
		}
	}
	return key + ext
}

package storage

import (
	"context"
	"net/url"
	"strings"
	"sync"
)

type memoryPhotoStore struct {
	mu      sync.RWMutex
	photos  map[string]Photo
	baseURL string
}

// NewMemoryPhotoStore keeps photos in memory. URLs point at baseURL, where
// the photo download handler is mounted.
func NewMemoryPhotoStore(baseURL string) PhotoStore {
	return &memoryPhotoStore{
		photos:  make(map[string]Photo),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (s *memoryPhotoStore) Put(_ context.Context, photo Photo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	photo.Data = append([]byte(nil), photo.Data...)
	s.photos[photo.Key] = photo
	return nil
}

func (s *memoryPhotoStore) Get(_ context.Context, key string) (*Photo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	photo, ok := s.photos[key]
	if !ok {
		return nil, ErrPhotoNotFound
	}
	return &photo, nil
}

func (s *memoryPhotoStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.photos, key)
	return nil
}

func (s *memoryPhotoStore) URL(_ context.Context, key string) (string, error) {
	if key == "" {
		return "", nil
	}
	return s.baseURL + "/" + url.PathEscape(key), nil
}

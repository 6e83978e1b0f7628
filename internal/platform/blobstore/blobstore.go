// Package blobstore provides attachment storage for the concierge platform.
// It defines the Store interface (upload bytes under a path, get back a
// public URL), an in-memory implementation for testing and development, an
// S3 implementation, and an HTTP gateway implementation with transport-level
// retry.
package blobstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"
)

var (
	ErrFileTooLarge = errors.New("file exceeds maximum allowed size")
	ErrEmptyPath    = errors.New("object path is required")
	ErrNotStored    = errors.New("object not found")
)

// MaxFileSize is the maximum allowed blob size in bytes (50 MB, enough for
// short symptom videos).
const MaxFileSize = 50 * 1024 * 1024

// Store is the contract for blob storage backends. Upload stores the content
// under path and returns a publicly resolvable URL. Implementations must not
// return a URL unless the bytes are durably stored.
type Store interface {
	Upload(ctx context.Context, path, contentType string, content io.Reader) (string, error)
}

// ---------------------------------------------------------------------------
// In-memory implementation
// ---------------------------------------------------------------------------

type storedObject struct {
	contentType string
	content     []byte
	storedAt    time.Time
}

// MemoryStore is a thread-safe, in-memory Store for testing and development.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]*storedObject
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string]*storedObject)}
}

func (s *MemoryStore) Upload(_ context.Context, path, contentType string, content io.Reader) (string, error) {
	if path == "" {
		return "", ErrEmptyPath
	}

	data, err := io.ReadAll(io.LimitReader(content, MaxFileSize+1))
	if err != nil {
		return "", fmt.Errorf("reading content: %w", err)
	}
	if int64(len(data)) > MaxFileSize {
		return "", ErrFileTooLarge
	}

	s.mu.Lock()
	s.objects[path] = &storedObject{
		contentType: contentType,
		content:     data,
		storedAt:    time.Now().UTC(),
	}
	s.mu.Unlock()

	return "memory://" + path, nil
}

// Get returns the stored bytes and content type for a path. Test helper.
func (s *MemoryStore) Get(path string) ([]byte, string, error) {
	s.mu.RLock()
	obj, ok := s.objects[path]
	s.mu.RUnlock()

	if !ok {
		return nil, "", ErrNotStored
	}
	return bytes.Clone(obj.content), obj.contentType, nil
}

// Len returns the number of stored objects. Test helper.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}

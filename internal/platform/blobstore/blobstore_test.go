package blobstore

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

func TestMemoryStore_UploadAndGet(t *testing.T) {
	store := NewMemoryStore()

	url, err := store.Upload(context.Background(), "m1/s1/photo.jpg", "image/jpeg", strings.NewReader("bytes"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != "memory://m1/s1/photo.jpg" {
		t.Errorf("unexpected url: %s", url)
	}

	data, ct, err := store.Get("m1/s1/photo.jpg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != "bytes" || ct != "image/jpeg" {
		t.Errorf("stored object mismatch: %q %q", data, ct)
	}
}

func TestMemoryStore_EmptyPath(t *testing.T) {
	store := NewMemoryStore()
	if _, err := store.Upload(context.Background(), "", "image/png", strings.NewReader("x")); err != ErrEmptyPath {
		t.Errorf("expected ErrEmptyPath, got %v", err)
	}
}

func TestGatewayStore_Upload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || !strings.HasPrefix(r.URL.Path, "/objects/") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"url": "https://cdn.example.com" + strings.TrimPrefix(r.URL.Path, "/objects"),
		})
	}))
	defer srv.Close()

	store := NewGatewayStore(srv.URL)
	url, err := store.Upload(context.Background(), "m1/s1/video.mp4", "video/mp4", strings.NewReader("frames"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != "https://cdn.example.com/m1/s1/video.mp4" {
		t.Errorf("unexpected url: %s", url)
	}
}

func TestGatewayStore_RetriesTransientFailures(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) <= 2 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"url": "https://cdn.example.com/ok"})
	}))
	defer srv.Close()

	store := NewGatewayStore(srv.URL)
	url, err := store.Upload(context.Background(), "m1/s1/a.png", "image/png", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("expected retries to recover, got: %v", err)
	}
	if url != "https://cdn.example.com/ok" {
		t.Errorf("unexpected url: %s", url)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("expected 3 attempts, got %d", got)
	}
}

func TestGatewayStore_GivesUpAfterRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	store := NewGatewayStore(srv.URL)
	if _, err := store.Upload(context.Background(), "m1/s1/a.png", "image/png", strings.NewReader("x")); err == nil {
		t.Fatal("expected error after exhausting retries")
	}
}

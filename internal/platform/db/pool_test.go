package db

import (
	"context"
	"testing"
)

func TestNewPool_InvalidURL(t *testing.T) {
	if _, err := NewPool(context.Background(), "://not-a-url", 5, 1); err == nil {
		t.Fatal("expected error for malformed database url")
	}
}

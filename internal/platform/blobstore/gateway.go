package blobstore

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/go-resty/resty/v2"
)

// GatewayStore uploads blobs through an HTTP blob gateway. Transient failures
// are retried at the transport layer: 3 attempts with a doubling wait.
type GatewayStore struct {
	client *resty.Client
}

type gatewayUploadResponse struct {
	URL string `json:"url"`
}

func NewGatewayStore(baseURL string) *GatewayStore {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(60 * time.Second).
		SetRetryCount(3).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(4 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= 500
		})

	return &GatewayStore{client: client}
}

func (s *GatewayStore) Upload(ctx context.Context, path, contentType string, content io.Reader) (string, error) {
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

	var out gatewayUploadResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", contentType).
		SetBody(data).
		SetResult(&out).
		Put("/objects/" + path)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", path, err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("upload %s: gateway returned %s", path, resp.Status())
	}
	if out.URL == "" {
		return "", fmt.Errorf("upload %s: gateway returned no url", path)
	}

	return out.URL, nil
}

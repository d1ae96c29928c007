package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client uploads objects to a bucket-based storage service over its REST API.
// Uploaded objects are publicly retrievable under a stable URL derived from
// the bucket and object name.
type Client struct {
	BaseURL string
	Key     string
	HTTP    *http.Client
}

// New creates a storage client.
func New(baseURL, key string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Key:     key,
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Upload stores data under bucket/object, overwriting any existing object at
// that path, and returns the public retrieval URL.
func (c *Client) Upload(ctx context.Context, bucket, object, contentType string, data []byte) (string, error) {
	endpoint := fmt.Sprintf("%s/storage/v1/object/%s/%s", c.BaseURL, bucket, object)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("storage: create request failed: %w", err)
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req.Header.Set("Authorization", "Bearer "+c.Key)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-upsert", "true")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("storage: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("storage: upload failed (%d): %s", resp.StatusCode, string(body))
	}
	return c.PublicURL(bucket, object), nil
}

// PublicURL returns the public retrieval URL for an object.
func (c *Client) PublicURL(bucket, object string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", c.BaseURL, bucket, object)
}

package storage

import (
	"bytes"
	"context"
	"crypto/md5" // For simple URL hashing
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"scout/scout/config"
	"scout/scout/types"
)

type MinIOClient struct {
	client *minio.Client
	bucket string
}

// CachedContent wraps an extracted page with the time it was cached.
type CachedContent struct {
	URL       string           `json:"url"`
	Content   types.WebContent `json:"content"`
	Timestamp time.Time        `json:"timestamp"`
}

func NewMinIOClient(cfg config.Config) (*MinIOClient, error) {
	// Use insecure for local (no HTTPS)
	bucket := cfg.MinIOBucket
	client, err := minio.New(
		cfg.MinIOEndpoint,
		&minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinIOAccessKey, cfg.MinIOSecretKey, ""),
			Secure: false,
		},
	)
	if err != nil {
		return nil, err
	}
	// Create bucket if not exists
	exists, err := client.BucketExists(context.Background(), bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := client.MakeBucket(context.Background(), bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, err
		}
	}
	return &MinIOClient{client: client, bucket: bucket}, nil
}

func cacheKey(url string) string {
	// Hash URL for key (avoid special chars)
	hash := fmt.Sprintf("%x", md5.Sum([]byte(url)))
	return filepath.Join("webcache", fmt.Sprintf("%s.json", hash))
}

// PutWebContent stores an extracted page keyed by its URL hash.
func (m *MinIOClient) PutWebContent(ctx context.Context, url string, content types.WebContent) (string, error) {
	key := cacheKey(url)
	obj := CachedContent{
		URL:       url,
		Content:   content,
		Timestamp: time.Now(),
	}
	data, err := json.Marshal(obj)
	if err != nil {
		return "", err
	}

	_, err = m.client.PutObject(ctx, m.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return "", err
	}
	return key, nil
}

// GetWebContent returns the cached extraction for url, or an error when the
// object is absent or unreadable.
func (m *MinIOClient) GetWebContent(ctx context.Context, url string) (*types.WebContent, error) {
	obj, err := m.client.GetObject(ctx, m.bucket, cacheKey(url), minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()
	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, err
	}
	var cached CachedContent
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, err
	}
	return &cached.Content, nil
}

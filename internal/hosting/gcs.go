package hosting

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCSStore hosts images in a Google Cloud Storage bucket fronted by the
// deployment's hosting domain.
type GCSStore struct {
	client *storage.Client
	bucket string
}

// NewGCSStore connects to the hosting bucket. An empty credentials path
// falls back to application-default credentials.
func NewGCSStore(ctx context.Context, bucket, credentialsPath string) (*GCSStore, error) {
	if bucket == "" {
		return nil, fmt.Errorf("hosting bucket is required")
	}

	var opts []option.ClientOption
	if credentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsPath))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS storage client: %w", err)
	}
	return &GCSStore{client: client, bucket: bucket}, nil
}

// Provision verifies the bucket is reachable and writes a marker object
// for the subdomain so the static-hosting frontend can map it.
func (s *GCSStore) Provision(ctx context.Context, subdomain string) error {
	if _, err := s.client.Bucket(s.bucket).Attrs(ctx); err != nil {
		return fmt.Errorf("hosting bucket %s unavailable: %w", s.bucket, err)
	}
	marker := fmt.Sprintf(".hosting/%s", subdomain)
	return s.Write(ctx, marker, "text/plain", []byte(subdomain))
}

func (s *GCSStore) Write(ctx context.Context, objectPath, contentType string, data []byte) error {
	obj := s.client.Bucket(s.bucket).Object(objectPath)
	writer := obj.NewWriter(ctx)
	writer.ContentType = contentType
	writer.CacheControl = "public, max-age=31536000"

	if _, err := io.Copy(writer, bytes.NewReader(data)); err != nil {
		writer.Close()
		return fmt.Errorf("failed to copy image bytes to GCS object %s: %w", objectPath, err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close GCS writer for %s: %w", objectPath, err)
	}
	return nil
}

func (s *GCSStore) Close() error {
	return s.client.Close()
}

package supabase

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	storage "github.com/supabase-community/storage-go"
)

const publicObjectPrefix = "/storage/v1/object/public/"

type StorageClient struct {
	client  *storage.Client
	baseURL string
}

func NewStorageClient(supabaseURL, serviceRoleKey string) (*StorageClient, error) {
	baseURL := strings.TrimRight(supabaseURL, "/")
	if baseURL == "" {
		return nil, fmt.Errorf("storage base url is empty")
	}
	client := storage.NewClient(baseURL+"/storage/v1", serviceRoleKey, nil)

	return &StorageClient{
		client:  client,
		baseURL: baseURL,
	}, nil
}

// Upload stores data at bucket/storagePath and returns its public URL.
func (s *StorageClient) Upload(_ context.Context, bucket, storagePath, contentType string, data []byte) (string, error) {
	upsert := false
	_, err := s.client.UploadFile(bucket, storagePath, bytes.NewReader(data), storage.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}
	return s.PublicURL(bucket, storagePath), nil
}

func (s *StorageClient) PublicURL(bucket, storagePath string) string {
	return fmt.Sprintf("%s%s%s/%s", s.baseURL, publicObjectPrefix, bucket, storagePath)
}

func (s *StorageClient) Remove(_ context.Context, bucket, storagePath string) error {
	if _, err := s.client.RemoveFile(bucket, []string{storagePath}); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// DeleteByURL removes the object behind a public URL issued by this project.
func (s *StorageClient) DeleteByURL(ctx context.Context, publicURL string) error {
	bucket, storagePath, ok := s.ParsePublicURL(publicURL)
	if !ok {
		return fmt.Errorf("not a storage url: %s", publicURL)
	}
	return s.Remove(ctx, bucket, storagePath)
}

// ParsePublicURL splits a public object URL into bucket and path. URLs that
// point at another host or outside the public object prefix are rejected.
func (s *StorageClient) ParsePublicURL(raw string) (string, string, bool) {
	return PathFromPublicURL(s.baseURL, raw)
}

func PathFromPublicURL(baseURL, raw string) (string, string, bool) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return "", "", false
	}
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host != base.Host {
		return "", "", false
	}

	rest, ok := strings.CutPrefix(u.Path, base.Path+publicObjectPrefix)
	if !ok {
		return "", "", false
	}
	bucket, storagePath, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || storagePath == "" {
		return "", "", false
	}
	for _, part := range strings.Split(storagePath, "/") {
		if part == "" || part == "." || part == ".." {
			return "", "", false
		}
	}
	return bucket, storagePath, true
}

package store

import (
	"bytes"
	"context"
	"fmt"
	"net/url"

	storage_go "github.com/supabase-community/storage-go"
	"github.com/supabase-community/supabase-go"
)

const DefaultBucket = "comic-images"

// ObjectStore keeps panel images and hands back public URLs.
type ObjectStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
	BucketExists(ctx context.Context) (bool, error)
	Bucket() string
}

type SupabaseStore struct {
	client *supabase.Client
	bucket string
}

func NewSupabaseStore(supabaseURL, key, bucket string) (*SupabaseStore, error) {
	client, err := supabase.NewClient(supabaseURL, key, &supabase.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("creating supabase client: %w", err)
	}
	if bucket == "" {
		bucket = DefaultBucket
	}
	return &SupabaseStore{client: client, bucket: bucket}, nil
}

func (s *SupabaseStore) Bucket() string { return s.bucket }

// Upload overwrites any object under key. The storage client has no context
// support, so ctx is only checked before the call.
func (s *SupabaseStore) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	upsert := true
	_, err := s.client.Storage.UploadFile(s.bucket, key, bytes.NewReader(data), storage_go.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return "", fmt.Errorf("uploading %s: %w", key, err)
	}

	pub := s.client.Storage.GetPublicUrl(s.bucket, key)
	if pub.SignedURL == "" {
		return "", fmt.Errorf("no public url for %s", key)
	}
	return pub.SignedURL, nil
}

func (s *SupabaseStore) BucketExists(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	buckets, err := s.client.Storage.ListBuckets()
	if err != nil {
		return false, fmt.Errorf("listing buckets: %w", err)
	}
	for _, b := range buckets {
		if b.Name == s.bucket || b.Id == s.bucket {
			return true, nil
		}
	}
	return false, nil
}

// HostOf returns the host of rawURL, or "" when it does not parse.
func HostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

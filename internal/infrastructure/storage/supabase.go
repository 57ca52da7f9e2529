package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"job-portal/internal/config"

	supabase "github.com/nedpals/supabase-go"
)

var ErrNotConfigured = errors.New("object storage not configured")

// SupabaseStore keeps uploaded assets in a Supabase Storage bucket and hands
// out public URLs for them.
type SupabaseStore struct {
	client *supabase.Client
	bucket string
}

func NewSupabaseStore(cfg config.StorageConfig) (*SupabaseStore, error) {
	if cfg.SupabaseURL == "" || cfg.SupabaseKey == "" {
		return nil, fmt.Errorf("%w: SUPABASE_URL and SUPABASE_KEY are required", ErrNotConfigured)
	}
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, fmt.Errorf("%w: empty bucket", ErrNotConfigured)
	}
	return &SupabaseStore{client: supabase.CreateClient(cfg.SupabaseURL, cfg.SupabaseKey), bucket: bucket}, nil
}

func (s *SupabaseStore) Put(ctx context.Context, key string, r io.Reader, contentType string) (string, error) {
	var url string
	err := withContext(ctx, func() error {
		resp := s.client.Storage.From(s.bucket).Upload(key, r, &supabase.FileUploadOptions{ContentType: contentType})
		if resp.Key == "" {
			return fmt.Errorf("supabase upload %s: %s", key, resp.Message)
		}
		url = s.client.Storage.From(s.bucket).GetPublicUrl(key).SignedUrl
		return nil
	})
	if err != nil {
		return "", err
	}
	if url == "" {
		return "", fmt.Errorf("supabase upload %s: empty public url", key)
	}
	return url, nil
}

func (s *SupabaseStore) Delete(ctx context.Context, key string) error {
	return withContext(ctx, func() error {
		resp := s.client.Storage.From(s.bucket).Remove([]string{key})
		if resp.Message != "" && resp.Key == "" && !strings.Contains(strings.ToLower(resp.Message), "success") {
			return fmt.Errorf("supabase remove %s: %s", key, resp.Message)
		}
		return nil
	})
}

// withContext runs fn on its own goroutine so a hung provider call is bounded
// by ctx. The SDK panics on transport errors; those become errors here.
func withContext(ctx context.Context, fn func() error) error {
	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fmt.Errorf("storage provider: %v", r)
			}
		}()
		done <- fn()
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Disabled stands in when no storage credentials are configured. Every
// upload fails with ErrNotConfigured.
type Disabled struct{}

func (Disabled) Put(context.Context, string, io.Reader, string) (string, error) {
	return "", ErrNotConfigured
}

func (Disabled) Delete(context.Context, string) error {
	return ErrNotConfigured
}

package fetcher

import (
	"context"
	"errors"
	"testing"
)

// TestMockFetcherImplementsInterface ensures MockFetcher implements Interface
func TestMockFetcherImplementsInterface(t *testing.T) {
	t.Parallel()

	var _ Interface = &MockFetcher{}
}

// TestMockFetcherFetchWithCache tests the mock implementation
func TestMockFetcherFetchWithCache(t *testing.T) {
	t.Parallel()

	expectedContent := []byte("test content")
	expectedError := errors.New("test error")

	mock := &MockFetcher{
		FetchWithCacheFunc: func(_ context.Context, url string) (Result, error) {
			if url == "error-url" {
				return Result{}, expectedError
			}
			return Result{Content: expectedContent, FromCache: true}, nil
		},
	}

	res, err := mock.FetchWithCache(context.Background(), "test-url")
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if string(res.Content) != string(expectedContent) {
		t.Errorf("Expected content %s, got %s", expectedContent, res.Content)
	}
	if !res.FromCache {
		t.Error("Expected FromCache to be true")
	}

	// Load falls back to FetchWithCacheFunc
	if _, err := mock.Load(context.Background(), "error-url"); err != expectedError {
		t.Errorf("Expected error %v, got %v", expectedError, err)
	}
}

package fetcher

import "context"

// MockFetcher is a mock implementation of the Fetcher interface for testing
type MockFetcher struct {
	FetchWithCacheFunc func(ctx context.Context, url string) (Result, error)
	LoadFunc           func(ctx context.Context, source string) (Result, error)
}

// FetchWithCache implements Interface.FetchWithCache
func (m *MockFetcher) FetchWithCache(ctx context.Context, url string) (Result, error) {
	if m.FetchWithCacheFunc != nil {
		return m.FetchWithCacheFunc(ctx, url)
	}
	return Result{}, nil
}

// Load implements Interface.Load. Without LoadFunc it defers to FetchWithCacheFunc.
func (m *MockFetcher) Load(ctx context.Context, source string) (Result, error) {
	if m.LoadFunc != nil {
		return m.LoadFunc(ctx, source)
	}
	return m.FetchWithCache(ctx, source)
}

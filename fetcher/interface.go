package fetcher

import "context"

// Interface defines the contract for retrieving master playlists
type Interface interface {
	// FetchWithCache fetches a playlist URL with a cache-first strategy
	FetchWithCache(ctx context.Context, url string) (Result, error)

	// Load reads a playlist from a URL or a local file
	Load(ctx context.Context, source string) (Result, error)
}

var _ Interface = (*Fetcher)(nil)

package cache

import "context"

// Cache stores raw GPA responses keyed by the exact request URL.
// Entries live for one crawl run and are never evicted during it.
type Cache interface {
	// Get returns ErrCacheMiss when the key has not been stored.
	Get(ctx context.Context, key string) ([]byte, error)

	Set(ctx context.Context, key string, value []byte) error

	// Clear drops every entry of the run.
	Clear(ctx context.Context) error
}

type CacheError string

func (e CacheError) Error() string { return string(e) }

const ErrCacheMiss CacheError = "cache miss"

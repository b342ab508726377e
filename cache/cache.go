// Package cache provides ETag and TTL aware caching of API responses
// backed by the filesystem.
package cache

import (
	"encoding/json"
	"time"
)

// Entry is a cached API response with revalidation metadata.
type Entry struct {
	ETag      string          `json:"etag,omitempty"`
	FetchedAt time.Time       `json:"fetched_at"`
	Body      json.RawMessage `json:"body"`
}

// Reader retrieves cache entries.
type Reader interface {
	// Read returns the entry for key and true when it exists and is younger
	// than maxAge. A stale entry is still returned (with false) so callers
	// can revalidate it with If-None-Match.
	Read(key string, maxAge time.Duration) (*Entry, bool)
}

// Writer stores cache entries.
type Writer interface {
	Write(key string, entry *Entry) error
}

// ETagger exposes the stored ETag for conditional requests.
type ETagger interface {
	GetETag(key string) string
}

// KeyGenerator derives a stable cache key from a request.
type KeyGenerator interface {
	KeyFor(path string, params map[string]string) string
}

// Cache combines all cache operations.
type Cache interface {
	Reader
	Writer
	ETagger
	KeyGenerator
}

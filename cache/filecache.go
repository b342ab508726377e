package cache

import (
	"crypto/md5"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"os/user"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// FileCache stores entries as JSON files under the user's cache directory.
type FileCache struct {
	dir string
}

// NewFileCache creates a file-backed cache under ~/.fitconnect/cache/<subdir>.
func NewFileCache(subdir string) (*FileCache, error) {
	usr, err := user.Current()
	if err != nil {
		return nil, err
	}

	dir := filepath.Join(usr.HomeDir, ".fitconnect", "cache")
	if subdir != "" {
		dir = filepath.Join(dir, subdir)
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}

	return &FileCache{dir: dir}, nil
}

// NewFileCacheAt creates a cache rooted at an explicit directory.
func NewFileCacheAt(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir}, nil
}

// NewStravaCache creates the cache used for Strava API calls.
func NewStravaCache() (*FileCache, error) {
	return NewFileCache("strava")
}

// NewWithingsCache creates the cache used for Withings API calls.
func NewWithingsCache() (*FileCache, error) {
	return NewFileCache("withings")
}

// Read implements Reader.
func (fc *FileCache) Read(key string, maxAge time.Duration) (*Entry, bool) {
	data, err := os.ReadFile(fc.path(key))
	if err != nil {
		return nil, false
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, false
	}

	if maxAge > 0 && time.Since(entry.FetchedAt) > maxAge {
		return &entry, false // stale, caller may revalidate
	}

	return &entry, true
}

// Write implements Writer.
func (fc *FileCache) Write(key string, entry *Entry) error {
	entry.FetchedAt = time.Now()

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return err
	}

	// Write to a temp file then rename so readers never see a partial entry.
	path := fc.path(key)
	tmp := path + fmt.Sprintf(".tmp.%d", rand.Int())
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// GetETag implements ETagger.
func (fc *FileCache) GetETag(key string) string {
	entry, _ := fc.Read(key, 0)
	if entry == nil {
		return ""
	}
	return entry.ETag
}

// KeyFor implements KeyGenerator. Keys are stable across param ordering.
func (fc *FileCache) KeyFor(path string, params map[string]string) string {
	parts := make([]string, 0, len(params))
	for k, v := range params {
		parts = append(parts, k+"="+v)
	}
	sort.Strings(parts)

	key := strings.ReplaceAll(strings.Trim(path, "/"), "/", "_")
	if len(parts) > 0 {
		key = key + "__" + strings.Join(parts, "__")
	}
	return sanitizeKey(key) + ".json"
}

func (fc *FileCache) path(key string) string {
	return filepath.Join(fc.dir, key)
}

func sanitizeKey(key string) string {
	// Long keys get hashed to stay inside filename limits.
	if len(key) > 200 {
		return fmt.Sprintf("hash_%x", md5.Sum([]byte(key)))
	}

	unsafe := []string{":", "?", "&", "=", "#", "<", ">", "|", "*", "\""}
	for _, char := range unsafe {
		key = strings.ReplaceAll(key, char, "_")
	}
	return key
}

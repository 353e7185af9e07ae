package countries

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/aluiziolira/go-books-catalog/storage"
)

type cacheDocument struct {
	FetchedAt float64  `json:"_fetched_at"`
	Countries []string `json:"countries"`
}

// FileCache persists a timestamped country list. An entry older than ttl is
// treated as absent.
type FileCache struct {
	path string
	ttl  time.Duration
	now  func() time.Time
}

// NewFileCache returns a cache stored at path.
func NewFileCache(path string, ttl time.Duration) *FileCache {
	return &FileCache{path: path, ttl: ttl, now: time.Now}
}

// Load returns the cached list while it is fresh. Missing, unreadable,
// malformed and expired files all report a miss.
func (c *FileCache) Load() ([]string, bool) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, false
	}

	var doc cacheDocument
	if err := json.Unmarshal(data, &doc); err != nil || doc.Countries == nil {
		return nil, false
	}

	fetchedAt := time.Unix(0, int64(doc.FetchedAt*float64(time.Second)))
	if c.now().Sub(fetchedAt) >= c.ttl {
		return nil, false
	}
	return doc.Countries, true
}

// Save stamps countries with the current time and writes them to disk.
func (c *FileCache) Save(countries []string) error {
	now := c.now()
	doc := cacheDocument{
		FetchedAt: float64(now.UnixNano()) / float64(time.Second),
		Countries: countries,
	}
	if err := storage.WriteJSON(c.path, doc); err != nil {
		return fmt.Errorf("save country cache: %w", err)
	}
	return nil
}

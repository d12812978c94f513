package catalog

import (
	"encoding/json"
	"time"

	"github.com/mmcdole/cinescope/internal/domain"
)

// KeyHomeCache is the storage key for the cached home listings
const KeyHomeCache = "cache:home"

// HomeCache keeps the last fetched home listings in durable storage so the
// browser can render them before the network answers.
type HomeCache struct {
	kv  domain.KVStore
	key string
	ttl time.Duration
	now func() time.Time
}

type cachedHome struct {
	Home      Home      `json:"home"`
	FetchedAt time.Time `json:"fetched_at"`
}

// NewHomeCache creates a cache. A ttl of zero never expires entries.
func NewHomeCache(kv domain.KVStore, namespace string, ttl time.Duration) *HomeCache {
	return &HomeCache{kv: kv, key: namespace + KeyHomeCache, ttl: ttl, now: time.Now}
}

// Get returns the cached listings if present, readable and fresh
func (c *HomeCache) Get() (*Home, bool) {
	raw, ok, err := c.kv.Get(c.key)
	if err != nil || !ok {
		return nil, false
	}
	var entry cachedHome
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return nil, false
	}
	if c.ttl > 0 && c.now().Sub(entry.FetchedAt) > c.ttl {
		return nil, false
	}
	return &entry.Home, true
}

// Save stores the listings with the current time
func (c *HomeCache) Save(h *Home) error {
	data, err := json.Marshal(cachedHome{Home: *h, FetchedAt: c.now()})
	if err != nil {
		return &domain.StorageError{Op: "encode", Key: c.key, Err: err}
	}
	return c.kv.Set(c.key, string(data))
}

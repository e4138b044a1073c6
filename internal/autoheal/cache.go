package autoheal

import (
	"container/list"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// CacheEntry is a healed selector remembered for a key
type CacheEntry struct {
	Key        string    `json:"key"`
	Selector   string    `json:"selector"`
	Source     Source    `json:"source"`
	Confidence float64   `json:"confidence"`
	StoredAt   time.Time `json:"stored_at"`
}

// CacheMetrics summarises cache effectiveness
type CacheMetrics struct {
	Hits         int64   `json:"hits"`
	Misses       int64   `json:"misses"`
	Evictions    int64   `json:"evictions"`
	TotalEntries int     `json:"total_entries"`
	HitRate      float64 `json:"hit_rate"`
}

// Cache is a size-bounded LRU of selectors whose entries expire after a TTL.
// It is safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	maxSize int
	order   *list.List
	entries map[string]*list.Element
	now     func() time.Time

	hits      int64
	misses    int64
	evictions int64
}

// NewCache creates a cache. A ttl of zero disables expiry; maxSize below one means unbounded.
func NewCache(ttl time.Duration, maxSize int) *Cache {
	return &Cache{
		ttl:     ttl,
		maxSize: maxSize,
		order:   list.New(),
		entries: make(map[string]*list.Element),
		now:     time.Now,
	}
}

// CacheKey identifies an element by page path, selector and description
func CacheKey(path, selector, description string) string {
	return path + "|" + selector + "|" + description
}

// Get returns the live entry for key, counting a hit or a miss
func (c *Cache) Get(key string) (CacheEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		c.misses++
		return CacheEntry{}, false
	}
	entry := el.Value.(CacheEntry)
	if c.expired(entry) {
		c.removeElement(el)
		c.evictions++
		c.misses++
		return CacheEntry{}, false
	}
	c.order.MoveToFront(el)
	c.hits++
	return entry, true
}

// Put stores entry, evicting the least recently used entry when full
func (c *Cache) Put(entry CacheEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry.StoredAt.IsZero() {
		entry.StoredAt = c.now()
	}
	if el, ok := c.entries[entry.Key]; ok {
		el.Value = entry
		c.order.MoveToFront(el)
		return
	}
	c.entries[entry.Key] = c.order.PushFront(entry)

	for c.maxSize > 0 && c.order.Len() > c.maxSize {
		c.removeElement(c.order.Back())
		c.evictions++
	}
}

// Invalidate drops key, e.g. when its selector no longer resolves
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		c.removeElement(el)
	}
}

// Reject drops an entry returned by Get whose selector no longer resolves.
// The lookup that returned it is recounted as a miss.
func (c *Cache) Reject(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		return
	}
	c.removeElement(el)
	if c.hits > 0 {
		c.hits--
	}
	c.misses++
}

// Clear drops every entry. Counters are kept.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.order.Init()
	c.entries = make(map[string]*list.Element)
}

// Len returns the number of stored entries, including expired ones not yet evicted
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Metrics returns a snapshot of the counters
func (c *Cache) Metrics() CacheMetrics {
	c.mu.Lock()
	defer c.mu.Unlock()

	m := CacheMetrics{
		Hits:         c.hits,
		Misses:       c.misses,
		Evictions:    c.evictions,
		TotalEntries: c.order.Len(),
	}
	if lookups := c.hits + c.misses; lookups > 0 {
		m.HitRate = float64(c.hits) / float64(lookups)
	}
	return m
}

// Entries returns the live entries, most recently used first
func (c *Cache) Entries() []CacheEntry {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]CacheEntry, 0, c.order.Len())
	for el := c.order.Front(); el != nil; el = el.Next() {
		entry := el.Value.(CacheEntry)
		if !c.expired(entry) {
			out = append(out, entry)
		}
	}
	return out
}

// cacheFile is the on-disk layout written by Save
type cacheFile struct {
	SavedAt time.Time    `json:"saved_at"`
	Entries []CacheEntry `json:"entries"`
}

// Save writes the live entries to path as JSON
func (c *Cache) Save(path string) error {
	data, err := json.MarshalIndent(cacheFile{SavedAt: c.now(), Entries: c.Entries()}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode cache: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create cache directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write cache: %w", err)
	}
	return nil
}

// Load adds the unexpired entries stored at path. A missing file is not an error.
func (c *Cache) Load(path string) (int, error) {
	entries, err := ReadCacheFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	loaded := 0
	// oldest first so the most recently used entry ends up in front
	for i := len(entries) - 1; i >= 0; i-- {
		c.mu.Lock()
		expired := c.expired(entries[i])
		c.mu.Unlock()
		if expired {
			continue
		}
		c.Put(entries[i])
		loaded++
	}
	return loaded, nil
}

// ReadCacheFile decodes a file written by Save
func ReadCacheFile(path string) ([]CacheEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read cache: %w", err)
	}
	var f cacheFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to decode cache: %w", err)
	}
	return f.Entries, nil
}

func (c *Cache) expired(entry CacheEntry) bool {
	return c.ttl > 0 && c.now().Sub(entry.StoredAt) > c.ttl
}

func (c *Cache) removeElement(el *list.Element) {
	c.order.Remove(el)
	delete(c.entries, el.Value.(CacheEntry).Key)
}

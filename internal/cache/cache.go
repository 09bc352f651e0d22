// Package cache is a TTL- and size-bounded local store for fetched drama
// content, keyword lists, and video preload markers. Storage failures never
// propagate: a failed write is a no-op and a failed read is a miss, so callers
// stay correct (just slower) when the cache is unavailable.
package cache

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// Entry is the persisted representation of one cached value.
type Entry struct {
	Value          json.RawMessage `json:"data"`
	CreatedAt      time.Time       `json:"timestamp"`
	ExpiresAt      time.Time       `json:"expiresAt"`
	AccessCount    int             `json:"accessCount"`
	LastAccessedAt time.Time       `json:"lastAccessed"`
}

// SizeBytes is the entry's contribution to the cache budget.
func (e *Entry) SizeBytes() int {
	return len(e.Value)
}

// Stats summarizes the live cache contents.
type Stats struct {
	SizeBytes        int
	ItemCount        int
	PreloadQueueSize int
}

// Options configures a Cache. Namespace prefixes every storage key so Clear
// cannot affect unrelated stored state. BudgetBytes bounds the sum of live
// entry sizes; exceeding it evicts least-recently-used entries.
type Options struct {
	Namespace   string
	BudgetBytes int
	Storage     Storage
	Logger      *slog.Logger
	Now         func() time.Time
}

// Cache is safe for concurrent use. Same-key writes are last-writer-wins.
type Cache struct {
	mu        sync.Mutex
	namespace string
	budget    int
	storage   Storage
	logger    *slog.Logger
	now       func() time.Time
	entries   map[string]*Entry
}

func New(opts Options) *Cache {
	if opts.Namespace == "" {
		opts.Namespace = "dramalearn"
	}
	if opts.Storage == nil {
		opts.Storage = NewMemoryStorage()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	c := &Cache{
		namespace: opts.Namespace,
		budget:    opts.BudgetBytes,
		storage:   opts.Storage,
		logger:    opts.Logger,
		now:       opts.Now,
		entries:   make(map[string]*Entry),
	}
	c.loadFromStorage()
	return c
}

// DramaKey returns the cache key for a drama payload.
func DramaKey(dramaID string) string {
	return "drama_" + dramaID
}

// KeywordsKey returns the cache key for a drama's keyword list.
func KeywordsKey(dramaID string) string {
	return "keywords_" + dramaID
}

func preloadKey(url string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(url))
	return fmt.Sprintf("preload_%08x", h.Sum32())
}

// Set serializes value and stores it under key for ttl. Serialization or
// storage failures are logged and leave the cache unchanged.
func (c *Cache) Set(key string, value any, ttl time.Duration) {
	raw, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("cache set skipped, value not serializable", "key", key, "error", err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	entry := &Entry{
		Value:          raw,
		CreatedAt:      now,
		ExpiresAt:      now.Add(ttl),
		AccessCount:    0,
		LastAccessedAt: now,
	}
	c.entries[key] = entry
	c.persist(key, entry)
	c.evictOverBudget()
}

// Get loads the value stored under key into dest. It returns false on a miss:
// absent key, expired entry (which is deleted), or any storage/decoding
// failure.
func (c *Cache) Get(key string, dest any) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return false
	}
	if c.now().After(entry.ExpiresAt) {
		c.remove(key)
		return false
	}

	if err := json.Unmarshal(entry.Value, dest); err != nil {
		c.logger.Warn("cache entry not decodable, treating as miss", "key", key, "error", err)
		c.remove(key)
		return false
	}

	entry.AccessCount++
	entry.LastAccessedAt = c.now()
	c.persist(key, entry)
	return true
}

// Delete removes the entry stored under key, if any.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.remove(key)
}

// CacheDramaContent stores the drama payload and its keyword list under two
// independently-expirable keys.
func (c *Cache) CacheDramaContent(dramaID string, drama, keywords any, ttl time.Duration) {
	c.Set(DramaKey(dramaID), drama, ttl)
	c.Set(KeywordsKey(dramaID), keywords, ttl)
}

// MarkVideoPreloaded records that url's video data has been fetched locally.
func (c *Cache) MarkVideoPreloaded(url string, ttl time.Duration) {
	c.Set(preloadKey(url), url, ttl)
}

// IsVideoPreloaded reports whether a non-expired preload marker exists for url.
func (c *Cache) IsVideoPreloaded(url string) bool {
	var stored string
	return c.Get(preloadKey(url), &stored)
}

// GetStats returns size, item count, and preload queue size for live entries.
func (c *Cache) GetStats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := Stats{}
	now := c.now()
	for key, entry := range c.entries {
		if now.After(entry.ExpiresAt) {
			continue
		}
		stats.ItemCount++
		stats.SizeBytes += entry.SizeBytes()
		if strings.HasPrefix(key, "preload_") {
			stats.PreloadQueueSize++
		}
	}
	return stats
}

// Clear removes every entry in this cache's namespace. Entries stored by
// other namespaces sharing the same Storage are untouched.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		c.remove(key)
	}
}

// Sweep proactively purges expired entries and returns how many were removed.
// TTL expiry otherwise only fires lazily on Get.
func (c *Cache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for key, entry := range c.entries {
		if now.After(entry.ExpiresAt) {
			c.remove(key)
			removed++
		}
	}
	return removed
}

func (c *Cache) storageKey(key string) string {
	return c.namespace + "_" + key
}

func (c *Cache) persist(key string, entry *Entry) {
	data, err := json.Marshal(entry)
	if err != nil {
		c.logger.Warn("cache entry not persistable", "key", key, "error", err)
		return
	}
	if err := c.storage.Write(c.storageKey(key), data); err != nil {
		c.logger.Warn("cache persist failed", "key", key, "error", err)
	}
}

func (c *Cache) remove(key string) {
	delete(c.entries, key)
	if err := c.storage.Delete(c.storageKey(key)); err != nil {
		c.logger.Warn("cache delete failed", "key", key, "error", err)
	}
}

// evictOverBudget drops least-recently-used entries until the live size fits
// the configured budget. Runs with the lock held.
func (c *Cache) evictOverBudget() {
	if c.budget <= 0 {
		return
	}

	size := 0
	for _, entry := range c.entries {
		size += entry.SizeBytes()
	}
	for size > c.budget && len(c.entries) > 0 {
		oldestKey := ""
		var oldest time.Time
		for key, entry := range c.entries {
			if oldestKey == "" || entry.LastAccessedAt.Before(oldest) {
				oldestKey = key
				oldest = entry.LastAccessedAt
			}
		}
		size -= c.entries[oldestKey].SizeBytes()
		c.logger.Debug("evicting least-recently-used cache entry", "key", oldestKey)
		c.remove(oldestKey)
	}
}

func (c *Cache) loadFromStorage() {
	keys, err := c.storage.Keys()
	if err != nil {
		c.logger.Warn("cache index load failed, starting empty", "error", err)
		return
	}

	prefix := c.namespace + "_"
	for _, storageKey := range keys {
		if !strings.HasPrefix(storageKey, prefix) {
			continue
		}
		data, err := c.storage.Read(storageKey)
		if err != nil {
			c.logger.Warn("cache entry load failed, skipping", "key", storageKey, "error", err)
			continue
		}
		var entry Entry
		if err := json.Unmarshal(data, &entry); err != nil {
			c.logger.Warn("cache entry not decodable, skipping", "key", storageKey, "error", err)
			continue
		}
		c.entries[strings.TrimPrefix(storageKey, prefix)] = &entry
	}
}

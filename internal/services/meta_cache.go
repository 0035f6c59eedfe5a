package services

import (
	"errors"
	"sync"
	"time"

	apperrors "plutus/internal/errors"
	"plutus/internal/repository"
)

// MetaCache is a read-through cache over the meta table. Entries expire
// after the configured TTL; writes go through to storage and update the
// cache in place. Import invalidates the whole cache explicitly, so stale
// reads cannot outlive a snapshot restore.
type MetaCache struct {
	store repository.Store
	ttl   time.Duration

	mu      sync.RWMutex
	entries map[string]metaCacheEntry
}

type metaCacheEntry struct {
	value     string
	exists    bool
	fetchedAt time.Time
}

// NewMetaCache creates a MetaCache with the given TTL.
func NewMetaCache(store repository.Store, ttl time.Duration) *MetaCache {
	return &MetaCache{
		store:   store,
		ttl:     ttl,
		entries: map[string]metaCacheEntry{},
	}
}

// Get returns the value for key, reading through to storage on a miss or an
// expired entry. ok is false when the key does not exist.
func (c *MetaCache) Get(key string) (string, bool, error) {
	c.mu.RLock()
	e, cached := c.entries[key]
	c.mu.RUnlock()
	if cached && time.Since(e.fetchedAt) < c.ttl {
		return e.value, e.exists, nil
	}

	m, err := c.store.Meta().Get(key)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.put(key, "", false)
			return "", false, nil
		}
		return "", false, apperrors.Wrap(apperrors.ErrStorage, err)
	}
	c.put(key, m.Value, true)
	return m.Value, true, nil
}

// Set writes the value to storage and refreshes the cached entry.
func (c *MetaCache) Set(key, value string) error {
	if err := c.store.Meta().Set(key, value); err != nil {
		return apperrors.Wrap(apperrors.ErrStorage, err)
	}
	c.put(key, value, true)
	return nil
}

// Delete removes keys from storage and the cache.
func (c *MetaCache) Delete(keys ...string) error {
	if err := c.store.Meta().DeleteKeys(keys); err != nil {
		return apperrors.Wrap(apperrors.ErrStorage, err)
	}
	c.mu.Lock()
	for _, k := range keys {
		delete(c.entries, k)
	}
	c.mu.Unlock()
	return nil
}

// Invalidate drops every cached entry. Subsequent reads go to storage.
func (c *MetaCache) Invalidate() {
	c.mu.Lock()
	c.entries = map[string]metaCacheEntry{}
	c.mu.Unlock()
}

func (c *MetaCache) put(key, value string, exists bool) {
	c.mu.Lock()
	c.entries[key] = metaCacheEntry{value: value, exists: exists, fetchedAt: time.Now()}
	c.mu.Unlock()
}

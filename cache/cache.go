// Package cache is a small file-backed key-value store for session state:
// the authenticated user id, the onboarding-complete flag and the cached
// profile JSON. It is read once at startup and written through on every
// mutation, so a restart resumes the last session.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

const (
	KeyUserID             = "user_id"
	KeyOnboardingComplete = "onboarding_complete"
	KeyProfile            = "user_profile"
)

type Cache struct {
	path string

	mu     sync.RWMutex
	values map[string]string
}

// Open loads the cache file at path, creating an empty cache when the file
// does not exist yet.
func Open(path string) (*Cache, error) {
	c := &Cache{
		path:   path,
		values: make(map[string]string),
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}

	if err := json.Unmarshal(data, &c.values); err != nil {
		return nil, fmt.Errorf("failed to parse cache file: %w", err)
	}
	return c, nil
}

// Get returns the value for key and whether it was present.
func (c *Cache) Get(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.values[key]
	return v, ok
}

// Set stores key=value and writes the cache file.
func (c *Cache) Set(key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value
	return c.flush()
}

// Delete removes key and writes the cache file.
func (c *Cache) Delete(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.values, key)
	return c.flush()
}

// SetJSON marshals v and stores it under key.
func (c *Cache) SetJSON(key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode cache value: %w", err)
	}
	return c.Set(key, string(data))
}

// GetJSON unmarshals the value under key into v. Returns false when the key
// is absent.
func (c *Cache) GetJSON(key string, v interface{}) (bool, error) {
	raw, ok := c.Get(key)
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return true, fmt.Errorf("failed to decode cache value: %w", err)
	}
	return true, nil
}

// Clear drops every key and writes the empty cache file. Used on logout.
func (c *Cache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values = make(map[string]string)
	return c.flush()
}

// flush writes the current map to disk. Callers hold c.mu.
func (c *Cache) flush() error {
	data, err := json.MarshalIndent(c.values, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode cache: %w", err)
	}

	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	return os.Rename(tmp, c.path)
}

package cache

import (
	"sync"
)

// KeyRegistry is the in-process index of keys known to have been
// written, kept so prefix invalidation does not depend on backend scan
// support. It is shared by request-serving writes and the background
// reconciler, so all operations are safe for concurrent use.
type KeyRegistry struct {
	mu   sync.RWMutex
	keys map[string]struct{}
}

// NewKeyRegistry creates an empty registry
func NewKeyRegistry() *KeyRegistry {
	return &KeyRegistry{keys: make(map[string]struct{})}
}

// Add records a key
func (r *KeyRegistry) Add(key string) {
	r.mu.Lock()
	r.keys[key] = struct{}{}
	r.mu.Unlock()
}

// Remove forgets a key
func (r *KeyRegistry) Remove(key string) {
	r.mu.Lock()
	delete(r.keys, key)
	r.mu.Unlock()
}

// TakeByPrefix removes and returns every known key sharing the prefix
func (r *KeyRegistry) TakeByPrefix(prefix string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []string
	for key := range r.keys {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			matched = append(matched, key)
			delete(r.keys, key)
		}
	}
	return matched
}

// Len returns the number of known keys
func (r *KeyRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.keys)
}

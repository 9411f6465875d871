package ui

import (
	"hash/fnv"
	"strconv"
	"sync"
)

// RenderCache keeps rendered strings keyed by a hash of their inputs.
// When full, the oldest entry is evicted.
type RenderCache struct {
	mu      sync.Mutex
	entries map[uint64]string
	order   []uint64
	maxSize int

	hits   int
	misses int
}

// NewRenderCache creates a cache holding at most maxSize entries.
// A maxSize below 1 is treated as 1.
func NewRenderCache(maxSize int) *RenderCache {
	if maxSize < 1 {
		maxSize = 1
	}
	return &RenderCache{
		entries: make(map[uint64]string, maxSize),
		maxSize: maxSize,
	}
}

// ComputeKey hashes the inputs with FNV-1a. Only string, int and bool
// inputs contribute; anything else is ignored.
func ComputeKey(inputs ...interface{}) uint64 {
	h := fnv.New64a()
	for _, input := range inputs {
		switch v := input.(type) {
		case string:
			h.Write([]byte(v))
		case int:
			h.Write([]byte(strconv.Itoa(v)))
		case bool:
			if v {
				h.Write([]byte{1})
			} else {
				h.Write([]byte{0})
			}
		}
		// Separator so ("ab","c") and ("a","bc") differ.
		h.Write([]byte{0xff})
	}
	return h.Sum64()
}

// Get returns cached content for key.
func (rc *RenderCache) Get(key uint64) (string, bool) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	content, ok := rc.entries[key]
	if ok {
		rc.hits++
	} else {
		rc.misses++
	}
	return content, ok
}

// Set stores content for key.
func (rc *RenderCache) Set(key uint64, content string) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	if _, ok := rc.entries[key]; !ok {
		if len(rc.order) >= rc.maxSize {
			oldest := rc.order[0]
			rc.order = rc.order[1:]
			delete(rc.entries, oldest)
		}
		rc.order = append(rc.order, key)
	}
	rc.entries[key] = content
}

// GetOrCompute returns the cached content or renders and stores it.
func (rc *RenderCache) GetOrCompute(key uint64, compute func() string) string {
	if content, ok := rc.Get(key); ok {
		return content
	}
	content := compute()
	rc.Set(key, content)
	return content
}

// Len returns the number of cached entries.
func (rc *RenderCache) Len() int {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return len(rc.entries)
}

// Stats returns hit and miss counts.
func (rc *RenderCache) Stats() (hits, misses int) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return rc.hits, rc.misses
}

// Clear empties the cache.
func (rc *RenderCache) Clear() {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.entries = make(map[uint64]string, rc.maxSize)
	rc.order = nil
}

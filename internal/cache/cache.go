/*
Package cache implements the bounded knowledge cache.

The cache stores serialized results under fingerprint keys with a
recency+frequency eviction policy: each resident entry is scored as
accessCount / (secondsSinceLastAccess + 1) and the minimum-score entry
is evicted when capacity is reached. Ties are broken deterministically
by evicting the oldest inserted entry first.

Large values (serialized length above 1000 bytes) are transparently
compressed with snappy. Compression is a storage-size concern only and
never affects retrieval.
*/
package cache

import (
	"sync"
	"time"

	"github.com/golang/snappy"
)

const (
	// DefaultMaxSize is the default entry capacity.
	DefaultMaxSize = 10000

	// DefaultCompressionThreshold is carried as a recognized configuration
	// knob but is not consumed by any decision yet. Eligibility is decided
	// by compressMinBytes alone.
	DefaultCompressionThreshold = 0.8

	// compressMinBytes is the serialized length above which a value is
	// considered large enough to compress.
	compressMinBytes = 1000
)

// entry is a resident cache entry.
type entry struct {
	value            []byte
	lastAccess       time.Time
	accessCount      int
	compressed       bool
	compressionRatio float64
	seq              uint64
}

// Cache is a bounded key/value store. Safe for concurrent use.
type Cache struct {
	mu                   sync.Mutex
	maxSize              int
	compressionThreshold float64
	entries              map[string]*entry
	nextSeq              uint64
}

// New creates a cache with the given capacity. A non-positive maxSize
// falls back to DefaultMaxSize.
func New(maxSize int) *Cache {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	return &Cache{
		maxSize:              maxSize,
		compressionThreshold: DefaultCompressionThreshold,
		entries:              make(map[string]*entry),
	}
}

// Get returns the value stored under key.
//
// A hit updates the entry's last access time and access count; the read
// side effect feeds the eviction score.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}

	e.lastAccess = time.Now()
	e.accessCount++

	if !e.compressed {
		value := make([]byte, len(e.value))
		copy(value, e.value)
		return value, true
	}

	decoded, err := snappy.Decode(nil, e.value)
	if err != nil {
		// A corrupt entry cannot be served; drop it and report a miss.
		delete(c.entries, key)
		return nil, false
	}
	return decoded, true
}

// Set stores value under key, evicting one entry first if the cache is
// at capacity. Values longer than 1000 bytes are snappy-compressed when
// compress is true.
func (c *Cache) Set(key string, value []byte, compress bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, resident := c.entries[key]; !resident && len(c.entries) >= c.maxSize {
		c.evictLocked()
	}

	e := &entry{
		lastAccess: time.Now(),
		seq:        c.nextSeq,
	}
	c.nextSeq++

	if prev, ok := c.entries[key]; ok {
		// Overwrite keeps the access count so a hot key is not demoted
		// to eviction candidate by a refresh.
		e.accessCount = prev.accessCount
		e.seq = prev.seq
	}

	if compress && len(value) > compressMinBytes {
		encoded := snappy.Encode(nil, value)
		e.value = encoded
		e.compressed = true
		e.compressionRatio = float64(len(encoded)) / float64(len(value))
	} else {
		stored := make([]byte, len(value))
		copy(stored, value)
		e.value = stored
	}

	c.entries[key] = e
}

// evictLocked removes the entry with the minimum eviction score.
// Ties evict the oldest inserted entry. Caller must hold c.mu.
func (c *Cache) evictLocked() {
	var victim string
	var victimScore float64
	var victimSeq uint64
	first := true

	now := time.Now()
	for key, e := range c.entries {
		score := evictionScore(e, now)
		if first || score < victimScore || (score == victimScore && e.seq < victimSeq) {
			victim = key
			victimScore = score
			victimSeq = e.seq
			first = false
		}
	}

	if !first {
		delete(c.entries, victim)
	}
}

// evictionScore is accessCount / (secondsSinceLastAccess + 1).
func evictionScore(e *entry, now time.Time) float64 {
	age := now.Sub(e.lastAccess).Seconds()
	if age < 0 {
		age = 0
	}
	return float64(e.accessCount) / (age + 1)
}

// Len returns the number of resident entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Contains reports whether key is resident without touching access
// metadata.
func (c *Cache) Contains(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok
}

// Stats summarizes the cache contents.
type Stats struct {
	Entries           int     `json:"entries"`
	MaxSize           int     `json:"maxSize"`
	CompressedEntries int     `json:"compressedEntries"`
	StoredBytes       int     `json:"storedBytes"`
	MeanRatio         float64 `json:"meanCompressionRatio"`
}

// Snapshot returns current cache statistics.
func (c *Cache) Snapshot() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := Stats{Entries: len(c.entries), MaxSize: c.maxSize}
	ratioSum := 0.0
	for _, e := range c.entries {
		stats.StoredBytes += len(e.value)
		if e.compressed {
			stats.CompressedEntries++
			ratioSum += e.compressionRatio
		}
	}
	if stats.CompressedEntries > 0 {
		stats.MeanRatio = ratioSum / float64(stats.CompressedEntries)
	}
	return stats
}

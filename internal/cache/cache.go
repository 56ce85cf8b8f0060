// Package cache implements a ResultCache: a bounded map from a canonical
// query fingerprint to its already-serialized result, with a time-based
// expiry and oldest-first eviction when the soft size cap is reached. The
// mutex-guarded map plus background sweep follow the shape of app/cache/cache.go's
// own result cache, with its LRU ordering replaced by insertion-timestamp
// ordering.
package cache

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/minio/highwayhash"

	"github.com/scrapbird/holidayfinder/internal/obs"
)

// fingerprintKey is the fixed 32-byte key highwayhash.New requires. The
// value has no secrecy requirement (this is a cache key, not an HMAC); it
// only needs to be fixed so two processes hash the same fingerprint the
// same way.
var fingerprintKey = []byte{
	0x68, 0x6f, 0x6c, 0x69, 0x64, 0x61, 0x79, 0x66,
	0x69, 0x6e, 0x64, 0x65, 0x72, 0x2d, 0x72, 0x65,
	0x73, 0x75, 0x6c, 0x74, 0x2d, 0x63, 0x61, 0x63,
	0x68, 0x65, 0x2d, 0x76, 0x31, 0x00, 0x00, 0x00,
}

// Fingerprint is a cache key: the highwayhash digest of a query's canonical
// string form. Two semantically identical queries hash to the same
// Fingerprint; any difference in the canonical form hashes differently.
type Fingerprint [highwayhash.Size]byte

// Fingerprint256 hashes canonical, the output of Query.Canonicalize, into a
// Fingerprint.
func Fingerprint256(canonical string) Fingerprint {
	h, err := highwayhash.New(fingerprintKey)
	if err != nil {
		// fingerprintKey is a fixed, correctly-sized literal; New only ever
		// fails on a malformed key.
		panic(err)
	}
	h.Write([]byte(canonical))
	var fp Fingerprint
	copy(fp[:], h.Sum(nil))
	return fp
}

type entry struct {
	value []byte
	createdAt time.Time
	expiresAt time.Time
}

// Stats reports cache effectiveness, as returned by StatsSnapshot.
type Stats struct {
	Entries int
	Hits int64
	Misses int64
}

// ResultCache is a bounded fingerprint → serialized-result map.
// Readers take the read lock; writers install on miss under the write lock,
// kept short enough not to serialize the request workload. No single-flight
// coalescing: a duplicate compute under contention is accepted.
type ResultCache struct {
	mu sync.RWMutex
	entries map[Fingerprint]*entry
	ttl time.Duration
	maxSize int

	hits int64
	misses int64

	logger obs.Logger
	stop chan struct{}
	once sync.Once
}

// New returns a ResultCache with the given TTL, soft entry cap, and sweep
// interval. A sweepEvery of zero disables the background reaper; callers
// may instead invoke Sweep manually (as tests do).
func New(ttl time.Duration, maxEntries int, sweepEvery time.Duration, logger obs.Logger) *ResultCache {
	if logger == nil {
		logger = obs.Nop
	}
	c := &ResultCache{
		entries: make(map[Fingerprint]*entry),
		ttl: ttl,
		maxSize: maxEntries,
		logger: logger,
		stop: make(chan struct{}),
	}
	if sweepEvery > 0 {
		go c.sweepLoop(sweepEvery)
	}
	return c
}

// Get returns the cached value for fp if present and not expired.
func (c *ResultCache) Get(fp Fingerprint) ([]byte, bool) {
	c.mu.RLock()
	e, ok := c.entries[fp]
	c.mu.RUnlock()

	if !ok || time.Now().After(e.expiresAt) {
		atomic.AddInt64(&c.misses, 1)
		return nil, false
	}
	atomic.AddInt64(&c.hits, 1)
	return e.value, true
}

// Set installs value under fp, evicting the oldest 10% of entries first if
// the cache is already at its soft cap.
func (c *ResultCache) Set(fp Fingerprint, value []byte) {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.maxSize > 0 && len(c.entries) >= c.maxSize {
		c.evictOldestLocked()
	}
	c.entries[fp] = &entry{value: value, createdAt: now, expiresAt: now.Add(c.ttl)}
}

// evictOldestLocked drops the oldest 10% of entries by insertion timestamp,
// at least one. Caller must hold c.mu.
func (c *ResultCache) evictOldestLocked() {
	n := len(c.entries)
	if n == 0 {
		return
	}
	toEvict := n / 10
	if toEvict < 1 {
		toEvict = 1
	}

	keys := make([]Fingerprint, 0, n)
	for k := range c.entries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return c.entries[keys[i]].createdAt.Before(c.entries[keys[j]].createdAt)
	})
	for _, k := range keys[:toEvict] {
		delete(c.entries, k)
	}
}

// Sweep reaps every expired entry. Called periodically by sweepLoop, and
// directly by tests.
func (c *ResultCache) Sweep() {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, k)
		}
	}
}

func (c *ResultCache) sweepLoop(every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			c.Sweep()
		case <-c.stop:
			return
		}
	}
}

// Close stops the background sweep goroutine, if running.
func (c *ResultCache) Close() {
	c.once.Do(func() { close(c.stop) })
}

// StatsSnapshot reports the cache's current size and effectiveness counters.
func (c *ResultCache) StatsSnapshot() Stats {
	c.mu.RLock()
	n := len(c.entries)
	c.mu.RUnlock()
	return Stats{
		Entries: n,
		Hits: atomic.LoadInt64(&c.hits),
		Misses: atomic.LoadInt64(&c.misses),
	}
}

// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package cache

import (
	"sort"
	"sync"
)

type cacheEntry struct {
	state          ResidencyState
	bytes          uint64
	lastUsedTick   uint64
	pinCount       uint32
	datasetVersion string
	hasVersion     bool
}

// Cache is a deterministic, byte-budgeted residency cache. All exported
// methods are safe for concurrent use.
type Cache struct {
	mu sync.Mutex

	budget      MemoryBudget
	usedBytes   uint64
	tick        uint64
	nextRequest RequestID

	entries        map[CacheKey]*cacheEntry
	requests       map[RequestID]CacheKey
	pinnedVersions map[string]string
}

// NewCache returns an empty Cache bounded by budget.
func NewCache(budget MemoryBudget) *Cache {
	return &Cache{
		budget:         budget,
		entries:        make(map[CacheKey]*cacheEntry),
		requests:       make(map[RequestID]CacheKey),
		pinnedVersions: make(map[string]string),
	}
}

// Budget returns the cache's configured byte budget.
func (c *Cache) Budget() MemoryBudget {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.budget
}

// UsedBytes returns the total size of currently resident entries.
func (c *Cache) UsedBytes() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.usedBytes
}

// Len returns the number of tracked entries, of any state.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// IsEmpty reports whether the cache tracks no entries at all.
func (c *Cache) IsEmpty() bool {
	return c.Len() == 0
}

// State returns key's current residency state, if tracked.
func (c *Cache) State(key CacheKey) (ResidencyState, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return 0, false
	}
	return e.state, true
}

// PinnedDatasetVersion returns the version currently pinned for a
// dataset, if any.
func (c *Cache) PinnedDatasetVersion(datasetID string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.pinnedVersions[datasetID]
	return v, ok
}

// KeyForRequest resolves a RequestID back to the key it was issued for.
func (c *Cache) KeyForRequest(req RequestID) (CacheKey, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	k, ok := c.requests[req]
	return k, ok
}

func (c *Cache) entryOrNew(key CacheKey) *cacheEntry {
	e, ok := c.entries[key]
	if !ok {
		e = &cacheEntry{state: StateRequested}
		c.entries[key] = e
	}
	return e
}

// Request records that key has been asked for, creating its entry if
// necessary. A non-resident entry transitions to StateRequested and
// records the dataset's currently pinned version; a resident entry keeps
// its state, bytes and recorded version. Advances the tick.
func (c *Cache) Request(key CacheKey) RequestID {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.tick++

	version, hasVersion := c.pinnedVersions[key.DatasetID]
	e := c.entryOrNew(key)
	if e.state != StateResident {
		e.datasetVersion = version
		e.hasVersion = hasVersion
		e.state = StateRequested
	}
	e.lastUsedTick = c.tick

	req := c.nextRequest + 1
	c.nextRequest = req
	c.requests[req] = key
	return req
}

// Touch refreshes key's last-used tick without changing its state.
// Advances the tick.
func (c *Cache) Touch(key CacheKey) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.tick++
	e, ok := c.entries[key]
	if !ok {
		return ErrUnknownKey
	}
	e.lastUsedTick = c.tick
	return nil
}

// Pin increments key's pin count, making it ineligible for eviction.
func (c *Cache) Pin(key CacheKey) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return ErrUnknownKey
	}
	e.pinCount++
	return nil
}

// Unpin decrements key's pin count, saturating at zero.
func (c *Cache) Unpin(key CacheKey) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return ErrUnknownKey
	}
	if e.pinCount > 0 {
		e.pinCount--
	}
	return nil
}

// SetState forces key's residency state directly, bypassing the normal
// MarkResident/evict accounting. Callers that set StateResident this
// way are responsible for keeping UsedBytes consistent themselves.
func (c *Cache) SetState(key CacheKey, state ResidencyState) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return ErrUnknownKey
	}
	e.state = state
	return nil
}

// PinDatasetVersion pins dataset to an immutable version. Any resident
// entry for that dataset recorded against a different version is
// evicted and its recorded version refreshed to the pinned one.
// Returns the keys that were evicted, in deterministic key order.
func (c *Cache) PinDatasetVersion(datasetID, version string) []CacheKey {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pinnedVersions[datasetID] = version

	keys := c.sortedKeysForDataset(datasetID)
	var evicted []CacheKey
	for _, k := range keys {
		e := c.entries[k]
		if e.hasVersion && e.datasetVersion == version {
			continue
		}
		e.datasetVersion = version
		e.hasVersion = true

		if e.state == StateResident {
			c.evictLocked(k)
			evicted = append(evicted, k)
		}
	}
	return evicted
}

// MarkResident marks key resident with the given size, evicting other
// entries as needed to stay within budget. If the entry's recorded
// dataset version no longer matches the dataset's currently pinned
// version, its prior contents are invalidated first. Returns the keys
// evicted to make room, in deterministic order.
func (c *Cache) MarkResident(key CacheKey, bytes uint64) ([]CacheKey, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if bytes > c.budget.MaxBytes {
		return nil, &BudgetExceeded{Requested: bytes, Max: c.budget.MaxBytes}
	}

	c.tick++

	pinnedVersion, hasPinned := c.pinnedVersions[key.DatasetID]
	e := c.entryOrNew(key)

	if e.hasVersion != hasPinned || e.datasetVersion != pinnedVersion {
		if e.state == StateResident {
			c.usedBytes -= minUint64(c.usedBytes, e.bytes)
		}
		e.bytes = 0
		e.state = StateEvicted
		e.datasetVersion = pinnedVersion
		e.hasVersion = hasPinned
	}

	if e.state == StateResident {
		c.usedBytes -= minUint64(c.usedBytes, e.bytes)
	}

	e.bytes = bytes
	e.state = StateResident
	e.lastUsedTick = c.tick
	c.usedBytes += bytes

	return c.evictAsNeededLocked(&key)
}

// Evict forces key to StateEvicted and reclaims its bytes.
func (c *Cache) Evict(key CacheKey) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.evictWithError(key)
}

func (c *Cache) evictWithError(key CacheKey) error {
	e, ok := c.entries[key]
	if !ok {
		return ErrUnknownKey
	}
	if e.state == StateResident {
		c.usedBytes -= minUint64(c.usedBytes, e.bytes)
	}
	e.bytes = 0
	e.state = StateEvicted
	return nil
}

func (c *Cache) evictLocked(key CacheKey) {
	_ = c.evictWithError(key)
}

// evictAsNeededLocked evicts the least-recently-used unpinned resident
// entry, repeatedly, until UsedBytes fits within budget. It prefers to
// spare protected (the just-inserted entry), falling back to evicting
// it only if nothing else is eligible.
func (c *Cache) evictAsNeededLocked(protected *CacheKey) ([]CacheKey, error) {
	var evicted []CacheKey
	for c.usedBytes > c.budget.MaxBytes {
		candidate, ok := c.pickEvictionCandidate(protected)
		if !ok {
			candidate, ok = c.pickEvictionCandidate(nil)
		}
		if !ok {
			return evicted, ErrNoEvictableEntries
		}
		c.evictLocked(candidate)
		evicted = append(evicted, candidate)
	}
	return evicted, nil
}

func (c *Cache) pickEvictionCandidate(exclude *CacheKey) (CacheKey, bool) {
	var best CacheKey
	var bestEntry *cacheEntry
	found := false

	for _, k := range c.sortedKeys() {
		if exclude != nil && k == *exclude {
			continue
		}
		e := c.entries[k]
		if e.state != StateResident || e.pinCount != 0 {
			continue
		}
		if !found {
			best, bestEntry, found = k, e, true
			continue
		}
		if e.lastUsedTick < bestEntry.lastUsedTick ||
			(e.lastUsedTick == bestEntry.lastUsedTick && k.Less(best)) {
			best, bestEntry = k, e
		}
	}
	return best, found
}

func (c *Cache) sortedKeys() []CacheKey {
	keys := make([]CacheKey, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	sortKeys(keys)
	return keys
}

func (c *Cache) sortedKeysForDataset(datasetID string) []CacheKey {
	keys := make([]CacheKey, 0)
	for k := range c.entries {
		if k.DatasetID == datasetID {
			keys = append(keys, k)
		}
	}
	sortKeys(keys)
	return keys
}

func sortKeys(keys []CacheKey) {
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
}

func minUint64(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}

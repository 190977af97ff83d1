// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package cache

import "testing"

func TestLRUEvictionIsDeterministic(t *testing.T) {
	c := NewCache(NewMemoryBudget(10))
	a := NewCacheKey("ds", "a")
	b := NewCacheKey("ds", "b")

	if _, err := c.MarkResident(a, 6); err != nil {
		t.Fatalf("mark a: %v", err)
	}
	if _, err := c.MarkResident(b, 6); err != nil {
		t.Fatalf("mark b: %v", err)
	}

	stateA, _ := c.State(a)
	stateB, _ := c.State(b)
	if stateA != StateEvicted {
		t.Errorf("a should be evicted (older), got %v", stateA)
	}
	if stateB != StateResident {
		t.Errorf("b should remain resident, got %v", stateB)
	}
	if c.UsedBytes() > c.Budget().MaxBytes {
		t.Errorf("used bytes %d exceeds budget %d", c.UsedBytes(), c.Budget().MaxBytes)
	}
}

func TestPinnedEntriesAreNotEvicted(t *testing.T) {
	c := NewCache(NewMemoryBudget(10))
	a := NewCacheKey("ds", "a")
	b := NewCacheKey("ds", "b")

	if _, err := c.MarkResident(a, 6); err != nil {
		t.Fatalf("mark a: %v", err)
	}
	if err := c.Pin(a); err != nil {
		t.Fatalf("pin a: %v", err)
	}
	if _, err := c.MarkResident(b, 6); err != nil {
		t.Fatalf("mark b: %v", err)
	}

	stateA, _ := c.State(a)
	stateB, _ := c.State(b)
	if stateA != StateResident {
		t.Errorf("pinned a should remain resident, got %v", stateA)
	}
	if stateB != StateEvicted {
		t.Errorf("b should be evicted instead, got %v", stateB)
	}
}

func TestNoEvictableEntriesWhenAllPinned(t *testing.T) {
	c := NewCache(NewMemoryBudget(10))
	a := NewCacheKey("ds", "a")
	b := NewCacheKey("ds", "b")

	if _, err := c.MarkResident(a, 6); err != nil {
		t.Fatalf("mark a: %v", err)
	}
	if err := c.Pin(a); err != nil {
		t.Fatalf("pin a: %v", err)
	}
	c.Request(b)
	if err := c.Pin(b); err != nil {
		t.Fatalf("pin b: %v", err)
	}

	_, err := c.MarkResident(b, 6)
	if err != ErrNoEvictableEntries {
		t.Fatalf("expected ErrNoEvictableEntries, got %v", err)
	}
}

func TestBudgetExceededForOversizedResource(t *testing.T) {
	c := NewCache(NewMemoryBudget(10))
	a := NewCacheKey("ds", "a")

	_, err := c.MarkResident(a, 11)
	be, ok := err.(*BudgetExceeded)
	if !ok || be.Requested != 11 || be.Max != 10 {
		t.Fatalf("expected BudgetExceeded{11,10}, got %v", err)
	}
}

func TestPinningDatasetVersionInvalidatesStaleResidentEntries(t *testing.T) {
	c := NewCache(NewMemoryBudget(100))
	a := NewCacheKey("ds", "a")

	if _, err := c.MarkResident(a, 10); err != nil {
		t.Fatalf("mark a: %v", err)
	}
	state, _ := c.State(a)
	if state != StateResident || c.UsedBytes() != 10 {
		t.Fatalf("expected resident/10 bytes, got state=%v used=%d", state, c.UsedBytes())
	}

	evicted := c.PinDatasetVersion("ds", "v1")
	if len(evicted) != 1 || evicted[0] != a {
		t.Fatalf("expected [a] evicted, got %v", evicted)
	}
	version, ok := c.PinnedDatasetVersion("ds")
	if !ok || version != "v1" {
		t.Fatalf("expected pinned version v1, got %q ok=%v", version, ok)
	}
	state, _ = c.State(a)
	if state != StateEvicted || c.UsedBytes() != 0 {
		t.Fatalf("expected evicted/0 bytes, got state=%v used=%d", state, c.UsedBytes())
	}

	if _, err := c.MarkResident(a, 10); err != nil {
		t.Fatalf("re-mark a: %v", err)
	}
	state, _ = c.State(a)
	if state != StateResident || c.UsedBytes() != 10 {
		t.Fatalf("expected resident/10 bytes after re-mark, got state=%v used=%d", state, c.UsedBytes())
	}
}

func TestMarkResidentInvalidatesEntryOnVersionDrift(t *testing.T) {
	c := NewCache(NewMemoryBudget(100))
	a := NewCacheKey("ds", "a")

	if _, err := c.MarkResident(a, 10); err != nil {
		t.Fatalf("mark a: %v", err)
	}
	// Pin a new version by writing the pin map directly, skipping
	// PinDatasetVersion's own sweep, so the entry stays resident under
	// its old recorded version; re-marking must notice the stale
	// recorded version and invalidate before reinserting.
	c.pinnedVersions["ds"] = "v2"

	evictedBytesBefore := c.UsedBytes()
	if _, err := c.MarkResident(a, 20); err != nil {
		t.Fatalf("re-mark a: %v", err)
	}
	if c.UsedBytes() != 20 {
		t.Fatalf("expected used bytes 20 after invalidate+resize, got %d (was %d)", c.UsedBytes(), evictedBytesBefore)
	}
	version, _ := c.PinnedDatasetVersion("ds")
	if version != "v2" {
		t.Fatalf("expected pinned version v2, got %q", version)
	}
}

func TestTouchUnknownKeyReturnsError(t *testing.T) {
	c := NewCache(NewMemoryBudget(10))
	if err := c.Touch(NewCacheKey("ds", "missing")); err != ErrUnknownKey {
		t.Fatalf("expected ErrUnknownKey, got %v", err)
	}
}

func TestEvictUnknownKeyReturnsError(t *testing.T) {
	c := NewCache(NewMemoryBudget(10))
	if err := c.Evict(NewCacheKey("ds", "missing")); err != ErrUnknownKey {
		t.Fatalf("expected ErrUnknownKey, got %v", err)
	}
}

func TestRequestTracksRequestID(t *testing.T) {
	c := NewCache(NewMemoryBudget(10))
	key := NewCacheKey("ds", "a")

	req := c.Request(key)
	resolved, ok := c.KeyForRequest(req)
	if !ok || resolved != key {
		t.Fatalf("expected %v, got %v ok=%v", key, resolved, ok)
	}

	state, _ := c.State(key)
	if state != StateRequested {
		t.Fatalf("expected requested state, got %v", state)
	}
}

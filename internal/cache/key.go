// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package cache

// CacheKey identifies a single cached resource within a dataset.
type CacheKey struct {
	DatasetID  string
	ResourceID string
}

// NewCacheKey builds a CacheKey.
func NewCacheKey(datasetID, resourceID string) CacheKey {
	return CacheKey{DatasetID: datasetID, ResourceID: resourceID}
}

// Less gives CacheKey a total order (dataset ID, then resource ID),
// used to break eviction ties deterministically.
func (k CacheKey) Less(other CacheKey) bool {
	if k.DatasetID != other.DatasetID {
		return k.DatasetID < other.DatasetID
	}
	return k.ResourceID < other.ResourceID
}

// RequestID identifies a single call to Cache.Request.
type RequestID uint64

// MemoryBudget caps how many bytes of resident data a Cache may hold.
type MemoryBudget struct {
	MaxBytes uint64
}

// NewMemoryBudget builds a MemoryBudget.
func NewMemoryBudget(maxBytes uint64) MemoryBudget {
	return MemoryBudget{MaxBytes: maxBytes}
}

// ResidencyState is the lifecycle state of a cache entry.
type ResidencyState int

const (
	StateRequested ResidencyState = iota
	StateResident
	StateEvicted
)

func (s ResidencyState) String() string {
	switch s {
	case StateRequested:
		return "requested"
	case StateResident:
		return "resident"
	case StateEvicted:
		return "evicted"
	default:
		return "unknown"
	}
}

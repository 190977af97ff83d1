// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package cache

import (
	"errors"
	"fmt"
)

// ErrUnknownKey is returned by operations on a CacheKey the cache has
// never seen via Request or MarkResident.
var ErrUnknownKey = errors.New("cache: unknown key")

// ErrNoEvictableEntries is returned when eviction is needed to stay
// within budget but every resident entry is pinned.
var ErrNoEvictableEntries = errors.New("cache: no evictable entries (all pinned?)")

// BudgetExceeded is returned by MarkResident when a single resource is
// larger than the cache's entire budget, regardless of eviction.
type BudgetExceeded struct {
	Requested uint64
	Max       uint64
}

func (e *BudgetExceeded) Error() string {
	return fmt.Sprintf("cache: resource too large for budget: requested=%d max=%d", e.Requested, e.Max)
}

// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package queue

// FrameBudget tracks remaining abstract work-unit capacity for a single
// streaming frame or view update. Queue.PopNextWithBudget spends units as
// it pops items, so an expensive item can be deferred to the next frame
// rather than blowing past the frame's time budget. internal/session does
// not use a FrameBudget; it caps dispatch with MaxTilesPerView and
// MaxInflight.
type FrameBudget struct {
	remaining uint32
}

// NewFrameBudget returns a budget with capacity units available.
func NewFrameBudget(units uint32) *FrameBudget {
	return &FrameBudget{remaining: units}
}

// Remaining returns the unspent capacity.
func (b *FrameBudget) Remaining() uint32 {
	return b.remaining
}

// TryConsume deducts cost units if the budget can cover it, returning
// whether the deduction happened.
func (b *FrameBudget) TryConsume(cost uint32) bool {
	if cost > b.remaining {
		return false
	}
	b.remaining -= cost
	return true
}

// Reset restores the budget to units, discarding any prior consumption.
func (b *FrameBudget) Reset(units uint32) {
	b.remaining = units
}

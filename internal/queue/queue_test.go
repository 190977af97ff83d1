// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package queue

import "testing"

func TestSamePriorityIsInsertionOrder(t *testing.T) {
	q := New[string]()
	q.Push(0, "a")
	q.Push(0, "b")
	q.Push(0, "c")

	_, _, a, _ := q.PopNext()
	_, _, b, _ := q.PopNext()
	_, _, c, _ := q.PopNext()

	if a != "a" || b != "b" || c != "c" {
		t.Fatalf("got (%q,%q,%q), want (a,b,c)", a, b, c)
	}
}

func TestLowerPriorityValueRunsFirst(t *testing.T) {
	q := New[string]()
	q.Push(10, "late")
	q.Push(-1, "early")

	_, _, v, ok := q.PopNext()
	if !ok || v != "early" {
		t.Fatalf("got %q, want early", v)
	}
}

func TestCancelSkipsItem(t *testing.T) {
	q := New[string]()
	a := q.Push(0, "a")
	q.Push(0, "b")

	if !q.Cancel(a) {
		t.Fatal("Cancel(a) returned false")
	}

	_, _, v, ok := q.PopNext()
	if !ok || v != "b" {
		t.Fatalf("got %q, want b", v)
	}

	if _, _, _, ok := q.PopNext(); ok {
		t.Fatal("expected empty queue after popping sole remaining item")
	}
}

func TestCancelUnknownIDReturnsFalse(t *testing.T) {
	q := New[string]()
	q.Push(0, "a")
	if q.Cancel(WorkID(999)) {
		t.Fatal("expected Cancel of unknown id to return false")
	}
}

func TestBackpressureRejectsWhenFull(t *testing.T) {
	q := NewWithMaxLen[string](2)
	if _, err := q.TryPush(0, "a"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := q.TryPush(0, "b"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := q.TryPush(0, "c")
	full, ok := err.(*Full)
	if !ok || full.MaxLen != 2 {
		t.Fatalf("expected Full{MaxLen:2}, got %v", err)
	}
}

func TestBackpressureIgnoresCanceledSlots(t *testing.T) {
	q := NewWithMaxLen[string](1)
	id, err := q.TryPush(0, "a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	q.Cancel(id)

	if _, err := q.TryPush(0, "b"); err != nil {
		t.Fatalf("expected room after cancel, got: %v", err)
	}
}

func TestPopRespectsBudgetUnits(t *testing.T) {
	q := New[string]()
	q.PushWithCost(0, 2, "expensive")

	budget := NewFrameBudget(1)
	if _, _, _, ok := q.PopNextWithBudget(budget); ok {
		t.Fatal("expected pop to fail with insufficient budget")
	}
	if q.Len() != 1 {
		t.Fatalf("item should remain queued, len=%d", q.Len())
	}

	budget2 := NewFrameBudget(2)
	_, _, v, ok := q.PopNextWithBudget(budget2)
	if !ok || v != "expensive" {
		t.Fatalf("expected pop to succeed, got v=%q ok=%v", v, ok)
	}
	if !q.IsEmpty() {
		t.Fatal("queue should be empty after pop")
	}
}

func TestPopNextWithBudgetDoesNotSearchForCheaperItem(t *testing.T) {
	q := New[string]()
	q.PushWithCost(0, 5, "expensive-but-first")
	q.PushWithCost(1, 1, "cheap-but-second")

	budget := NewFrameBudget(1)
	if _, _, _, ok := q.PopNextWithBudget(budget); ok {
		t.Fatal("expected pop to decline rather than skip to the cheaper lower-priority item")
	}
	if q.Len() != 2 {
		t.Fatalf("both items should remain queued, len=%d", q.Len())
	}
}

// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package registry

import (
	"testing"

	"github.com/tomtom215/cartographus/internal/datasource"
)

func TestRegisterAndGet(t *testing.T) {
	r := New()
	src := datasource.NewMemorySource(datasource.Metadata{Name: "terrain"})
	r.Register("terrain", src)

	got, ok := r.Get("terrain")
	if !ok || got != src {
		t.Fatalf("expected registered source back, got %v ok=%v", got, ok)
	}
}

func TestReregisteringSwapsSource(t *testing.T) {
	r := New()
	first := datasource.NewMemorySource(datasource.Metadata{Name: "a"})
	second := datasource.NewMemorySource(datasource.Metadata{Name: "b"})

	r.Register("layer", first)
	r.Register("layer", second)

	got, ok := r.Get("layer")
	if !ok || got != second {
		t.Fatalf("expected second registration to win, got %v", got)
	}
	if r.Len() != 1 {
		t.Fatalf("expected len 1, got %d", r.Len())
	}
}

func TestUnregisterRemovesSource(t *testing.T) {
	r := New()
	r.Register("a", datasource.NewMemorySource(datasource.Metadata{Name: "a"}))
	r.Unregister("a")

	if _, ok := r.Get("a"); ok {
		t.Fatalf("expected source to be gone after unregister")
	}
}

func TestListIsSortedAndStable(t *testing.T) {
	r := New()
	r.Register("zeta", datasource.NewMemorySource(datasource.Metadata{Name: "zeta"}))
	r.Register("alpha", datasource.NewMemorySource(datasource.Metadata{Name: "alpha"}))
	r.Register("mid", datasource.NewMemorySource(datasource.Metadata{Name: "mid"}))

	names := r.List()
	want := []string{"alpha", "mid", "zeta"}
	if len(names) != len(want) {
		t.Fatalf("got %v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("got %v want %v", names, want)
		}
	}
}

func TestGetUnknownNameReturnsFalse(t *testing.T) {
	r := New()
	if _, ok := r.Get("missing"); ok {
		t.Fatalf("expected not found")
	}
}

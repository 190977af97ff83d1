// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package registry

import (
	"sort"
	"sync"

	"github.com/tomtom215/cartographus/internal/datasource"
)

// Registry holds the named data sources a server has available. Safe
// for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	sources map[string]datasource.DataSource
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{sources: make(map[string]datasource.DataSource)}
}

// Register adds or replaces the source known as name. Re-registering an
// existing name swaps its source; callers holding a reference to the
// old one keep working against it, they just won't be looked up by name
// anymore.
func (r *Registry) Register(name string, source datasource.DataSource) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources[name] = source
}

// Unregister removes name, if present.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sources, name)
}

// Get looks up a source by name.
func (r *Registry) Get(name string) (datasource.DataSource, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sources[name]
	return s, ok
}

// List returns every registered source name, sorted for deterministic
// iteration order (view-update fan-out over "all layers" must visit
// sources in a stable order across calls).
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.sources))
	for name := range r.sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len reports how many sources are currently registered.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sources)
}

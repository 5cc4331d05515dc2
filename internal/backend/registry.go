package backend

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Registry is a thread-safe container for registered backends.
type Registry struct {
	mu       sync.RWMutex
	backends map[string]Backend
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		backends: make(map[string]Backend),
	}
}

// Register adds a backend. Same-name registration overwrites
// (last-write-wins).
func (r *Registry) Register(b Backend) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backends[b.Name()] = b
}

// Get retrieves a backend by name, or nil when unknown.
func (r *Registry) Get(name string) Backend {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.backends[name]
}

// List returns all registered backend names in alphabetical order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.backends))
	for name := range r.backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Available returns the backends that pass validation, alphabetically.
func (r *Registry) Available(ctx context.Context) []Backend {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var available []Backend
	for _, b := range r.backends {
		if err := b.Validate(ctx); err == nil {
			available = append(available, b)
		}
	}
	sort.Slice(available, func(i, j int) bool {
		return available[i].Name() < available[j].Name()
	})
	return available
}

// MustGet retrieves a backend or panics. Use only for names guaranteed to
// be registered.
func (r *Registry) MustGet(name string) Backend {
	b := r.Get(name)
	if b == nil {
		panic(fmt.Sprintf("backend: %q not registered", name))
	}
	return b
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gl

import (
	"errors"
	"sort"
	"sync"
)

// DrawableOptions configures a drawable created through the registry.
type DrawableOptions struct {
	Width  int
	Height int

	// Format requests a drawable format. Nil selects the backend default.
	Format *DrawableFormat
}

// DrawableFactory creates a new Drawable with the given options.
type DrawableFactory func(opts DrawableOptions) (Drawable, error)

// RegistryEntry represents a registered platform backend.
type RegistryEntry struct {
	// Name is the unique identifier for this backend.
	Name string

	// Priority determines selection order (higher = preferred).
	// Hardware backends use 100, software backends 10.
	Priority int

	Factory DrawableFactory

	// Available reports if the backend is usable on this system.
	Available func() bool
}

var globalRegistry = &Registry{}

// Registry manages registered platform backends.
//
// Backends register themselves from an init function:
//
//	func init() {
//	    gl.Register("glx", 100, newGLXDrawable, glxAvailable)
//	}
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*RegistryEntry
}

// NewRegistry creates a new empty registry.
// Most code should use the global registry via Register and NewDrawable.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]*RegistryEntry),
	}
}

// Register adds a backend to the global registry.
// If available is nil, the backend is assumed always available.
func Register(name string, priority int, factory DrawableFactory, available func() bool) {
	globalRegistry.Register(name, priority, factory, available)
}

// Unregister removes a backend from the global registry.
func Unregister(name string) {
	globalRegistry.Unregister(name)
}

// List returns all registered backend names sorted by priority.
func List() []string {
	return globalRegistry.List()
}

// NewDrawable creates a drawable using the best available backend.
func NewDrawable(opts DrawableOptions) (Drawable, error) {
	return globalRegistry.NewDrawable(opts)
}

// NewDrawableByName creates a drawable using a specific backend.
func NewDrawableByName(name string, opts DrawableOptions) (Drawable, error) {
	return globalRegistry.NewDrawableByName(name, opts)
}

// Register adds a backend to this registry.
func (r *Registry) Register(name string, priority int, factory DrawableFactory, available func() bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.entries == nil {
		r.entries = make(map[string]*RegistryEntry)
	}
	if available == nil {
		available = func() bool { return true }
	}
	r.entries[name] = &RegistryEntry{
		Name:      name,
		Priority:  priority,
		Factory:   factory,
		Available: available,
	}
}

// Unregister removes a backend from this registry.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entries, name)
}

// List returns all registered backend names sorted by priority.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sortedNames(false)
}

// Get returns a copy of the entry registered under name.
func (r *Registry) Get(name string) (*RegistryEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[name]
	if !ok {
		return nil, false
	}
	entryCopy := *entry
	return &entryCopy, true
}

// NewDrawable creates a drawable using the best available backend.
func (r *Registry) NewDrawable(opts DrawableOptions) (Drawable, error) {
	r.mu.RLock()
	available := r.sortedNames(true)
	r.mu.RUnlock()

	var lastErr error
	for _, name := range available {
		d, err := r.NewDrawableByName(name, opts)
		if err == nil {
			return d, nil
		}
		lastErr = err
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, ErrNoBackendAvailable
}

// NewDrawableByName creates a drawable using a specific backend.
func (r *Registry) NewDrawableByName(name string, opts DrawableOptions) (Drawable, error) {
	r.mu.RLock()
	entry, ok := r.entries[name]
	r.mu.RUnlock()

	if !ok {
		return nil, &BackendNotFoundError{Name: name}
	}
	if !entry.Available() {
		return nil, &BackendUnavailableError{Name: name}
	}
	return entry.Factory(opts)
}

// sortedNames returns backend names sorted by priority (highest first).
// Must be called with lock held.
func (r *Registry) sortedNames(onlyAvailable bool) []string {
	type entry struct {
		name     string
		priority int
	}

	entries := make([]entry, 0, len(r.entries))
	for name, e := range r.entries {
		if onlyAvailable && !e.Available() {
			continue
		}
		entries = append(entries, entry{name: name, priority: e.Priority})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].priority == entries[j].priority {
			return entries[i].name < entries[j].name
		}
		return entries[i].priority > entries[j].priority
	})

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.name
	}
	return names
}

// ErrNoBackendAvailable is returned when no platform backend is registered
// or available on the current system.
var ErrNoBackendAvailable = errors.New("gl: no backend available")

// BackendNotFoundError indicates a named backend is not registered.
type BackendNotFoundError struct {
	Name string
}

func (e *BackendNotFoundError) Error() string {
	return "gl: backend not found: " + e.Name
}

// BackendUnavailableError indicates a backend exists but is not available.
type BackendUnavailableError struct {
	Name string
}

func (e *BackendUnavailableError) Error() string {
	return "gl: backend unavailable: " + e.Name
}

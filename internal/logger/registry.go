package logger

import (
	"sort"
	"sync"
)

// Built-in log categories.
const (
	CategoryApp      = "App"
	CategoryAuth     = "Auth"
	CategoryDatabase = "Database"
	CategoryPayments = "Payments"
	CategorySettings = "Settings"
	CategoryWeb      = "Web"
)

// Registry holds the category names known to the running build.
type Registry struct {
	mu    sync.RWMutex
	names map[string]struct{}
}

// NewRegistry returns a registry seeded with the built-in categories and names.
func NewRegistry(names ...string) *Registry {
	r := &Registry{names: make(map[string]struct{})}

	for _, n := range []string{
		CategoryApp,
		CategoryAuth,
		CategoryDatabase,
		CategoryPayments,
		CategorySettings,
		CategoryWeb,
	} {
		r.names[n] = struct{}{}
	}

	for _, n := range names {
		r.Register(n)
	}

	return r
}

// Register adds a category name. Empty names are ignored.
func (r *Registry) Register(name string) {
	if name == "" {
		return
	}

	r.mu.Lock()
	r.names[name] = struct{}{}
	r.mu.Unlock()
}

// Names returns the registered categories sorted by name.
func (r *Registry) Names() []string {
	r.mu.RLock()
	out := make([]string, 0, len(r.names))

	for n := range r.names {
		out = append(out, n)
	}
	r.mu.RUnlock()

	sort.Strings(out)

	return out
}

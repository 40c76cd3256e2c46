package client

import (
	"fmt"
	"sync"

	"github.com/vango-dev/pagewire/pkg/page"
)

// Component is a loaded client module, opaque to the runtime.
type Component any

// Adapter is the client half of a rendering adapter.
type Adapter interface {
	// Name returns the adapter name, matching the server descriptor.
	Name() string

	// Resolve loads the module for a component name. Unknown names must
	// return an error wrapping ErrUnknownComponent.
	Resolve(component string) (Component, error)

	// Swap mounts c with the props of p, replacing whatever was mounted.
	Swap(c Component, p page.Page) error
}

// Modules is a static component table. It is the module loader both
// bundled adapters use.
type Modules struct {
	mu      sync.RWMutex
	modules map[string]Component
}

// NewModules creates a table from a name→module map.
func NewModules(modules map[string]Component) *Modules {
	m := &Modules{modules: make(map[string]Component, len(modules))}
	for k, v := range modules {
		m.modules[k] = v
	}
	return m
}

// Add registers a module.
func (m *Modules) Add(name string, c Component) {
	m.mu.Lock()
	m.modules[name] = c
	m.mu.Unlock()
}

// Lookup returns the module for name.
func (m *Modules) Lookup(name string) (Component, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.modules[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownComponent, name)
	}
	return c, nil
}

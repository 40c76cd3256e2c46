package adapter

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Sentinel errors for registry and installation failures.
var (
	// ErrDuplicateAdapter is returned when a name is registered twice.
	ErrDuplicateAdapter = errors.New("adapter: already registered")

	// ErrAdapterNotFound is returned when resolving an unknown name.
	ErrAdapterNotFound = errors.New("adapter: not found")

	// ErrInvalidDescriptor is returned for descriptors without a name or middleware.
	ErrInvalidDescriptor = errors.New("adapter: invalid descriptor")

	// ErrRegistrySealed is returned when registering after Seal.
	ErrRegistrySealed = errors.New("adapter: registry sealed")

	// ErrAlreadyInstalled is returned when a stack installs an adapter twice.
	ErrAlreadyInstalled = errors.New("adapter: already installed")
)

// Registry maps adapter names to descriptors. Registration is append-only.
type Registry struct {
	mu       sync.RWMutex
	adapters map[string]Descriptor
	sealed   bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{adapters: make(map[string]Descriptor)}
}

// Default is the process-wide registry adapters register into.
var Default = NewRegistry()

// Register adds d. It fails if the name is empty or taken, or if the
// registry has been sealed.
func (r *Registry) Register(d Descriptor) error {
	if d.Name == "" || d.Middleware == nil {
		return fmt.Errorf("%w: %q", ErrInvalidDescriptor, d.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return fmt.Errorf("%w: cannot register %q", ErrRegistrySealed, d.Name)
	}
	if _, ok := r.adapters[d.Name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateAdapter, d.Name)
	}
	r.adapters[d.Name] = d
	return nil
}

// Resolve returns the descriptor registered under name.
func (r *Registry) Resolve(name string) (Descriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.adapters[name]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: %q (registered: %v)", ErrAdapterNotFound, name, r.namesLocked())
	}
	return d, nil
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.namesLocked()
}

func (r *Registry) namesLocked() []string {
	names := make([]string, 0, len(r.adapters))
	for name := range r.adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Seal makes the registry read-only. It is idempotent.
func (r *Registry) Seal() {
	r.mu.Lock()
	r.sealed = true
	r.mu.Unlock()
}

// Register adds d to Default.
func Register(d Descriptor) error {
	return Default.Register(d)
}

// MustRegister adds d to Default and panics on error. Adapter packages call
// it from init, where a duplicate name is a programming error.
func MustRegister(d Descriptor) {
	if err := Default.Register(d); err != nil {
		panic(err)
	}
}

// Resolve looks name up in Default.
func Resolve(name string) (Descriptor, error) {
	return Default.Resolve(name)
}

// Names lists the adapters in Default.
func Names() []string {
	return Default.Names()
}

package vue

import (
	"sync"

	"github.com/vango-dev/pagewire/pkg/client"
	"github.com/vango-dev/pagewire/pkg/page"
)

// Host is the Vue application the binding drives. Mount replaces the root
// component; Update patches the reactive props of the mounted one.
type Host interface {
	Mount(c client.Component, props page.Props) error
	Update(props page.Props) error
}

// Binding is the client half of the Vue adapter. Swapping to the component
// already mounted patches its props instead of remounting it, which keeps
// local component state across partial reloads.
type Binding struct {
	modules *client.Modules
	host    Host

	mu        sync.Mutex
	component string
}

// NewBinding creates a binding resolving components from modules.
func NewBinding(modules *client.Modules, host Host) *Binding {
	return &Binding{modules: modules, host: host}
}

// Name implements client.Adapter.
func (b *Binding) Name() string { return Name }

// Resolve implements client.Adapter.
func (b *Binding) Resolve(component string) (client.Component, error) {
	return b.modules.Lookup(component)
}

// Swap implements client.Adapter.
func (b *Binding) Swap(c client.Component, p page.Page) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.component == p.Component() {
		return b.host.Update(p.Props())
	}
	if err := b.host.Mount(c, p.Props()); err != nil {
		return err
	}
	b.component = p.Component()
	return nil
}

// Mounted returns the name of the mounted component.
func (b *Binding) Mounted() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.component
}

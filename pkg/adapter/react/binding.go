package react

import (
	"sync"

	"github.com/vango-dev/pagewire/pkg/client"
	"github.com/vango-dev/pagewire/pkg/page"
)

// RenderFunc renders a component tree with props into the mount root.
// React re-renders from the top on every page, so it is called for every
// swap, including partial reloads of the same component.
type RenderFunc func(c client.Component, props page.Props) error

// Binding is the client half of the React adapter.
type Binding struct {
	modules *client.Modules
	render  RenderFunc

	mu      sync.Mutex
	renders int
	last    page.Page
}

// NewBinding creates a binding resolving components from modules.
func NewBinding(modules *client.Modules, render RenderFunc) *Binding {
	return &Binding{modules: modules, render: render}
}

// Name implements client.Adapter.
func (b *Binding) Name() string { return Name }

// Resolve implements client.Adapter.
func (b *Binding) Resolve(component string) (client.Component, error) {
	return b.modules.Lookup(component)
}

// Swap implements client.Adapter.
func (b *Binding) Swap(c client.Component, p page.Page) error {
	if b.render != nil {
		if err := b.render(c, p.Props()); err != nil {
			return err
		}
	}
	b.mu.Lock()
	b.renders++
	b.last = p
	b.mu.Unlock()
	return nil
}

// Renders returns how many times the tree was rendered.
func (b *Binding) Renders() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.renders
}

// Page returns the last rendered page.
func (b *Binding) Page() page.Page {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.last
}

package adapter

import (
	"fmt"
	"net/http"
)

// Stack is one request pipeline's set of installed adapter middleware.
// It is built at startup and is not safe for concurrent Install calls.
type Stack struct {
	installed map[string]struct{}
	order     []Descriptor
}

// NewStack creates an empty stack.
func NewStack() *Stack {
	return &Stack{installed: make(map[string]struct{})}
}

// Install adds d's middleware to the stack. Installing the same adapter
// twice is a configuration error.
func (s *Stack) Install(d Descriptor) error {
	if d.Middleware == nil {
		return fmt.Errorf("%w: %q has no middleware", ErrInvalidDescriptor, d.Name)
	}
	if _, dup := s.installed[d.Name]; dup {
		return fmt.Errorf("%w: %q", ErrAlreadyInstalled, d.Name)
	}
	s.installed[d.Name] = struct{}{}
	s.order = append(s.order, d)
	return nil
}

// Installed reports whether name has been installed.
func (s *Stack) Installed(name string) bool {
	_, ok := s.installed[name]
	return ok
}

// Descriptors returns the installed descriptors in install order.
func (s *Stack) Descriptors() []Descriptor {
	out := make([]Descriptor, len(s.order))
	copy(out, s.order)
	return out
}

// Len returns the number of installed adapters.
func (s *Stack) Len() int {
	return len(s.order)
}

// Handler wraps next with the installed middleware, first installed outermost.
func (s *Stack) Handler(next http.Handler) http.Handler {
	h := next
	for i := len(s.order) - 1; i >= 0; i-- {
		h = s.order[i].Middleware()(h)
	}
	return h
}

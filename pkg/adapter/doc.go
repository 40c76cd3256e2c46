// Package adapter binds the pagewire protocol to client rendering runtimes.
//
// An adapter is a named Descriptor with two hooks: a middleware factory that
// installs negotiation into a request pipeline, and an ExtendResponse hook
// that adds the runtime's bootstrap markup to the first-load HTML shell.
// Adapters register themselves at process start, usually from an init
// function, and the registry is read-only once a server has been built:
//
//	import _ "github.com/vango-dev/pagewire/pkg/adapter/react"
//
//	desc, err := adapter.Resolve("react")
//
// Registering the same name twice fails, as does installing the same
// adapter twice on one Stack. Both errors surface while the server is being
// constructed, never while serving a request.
package adapter

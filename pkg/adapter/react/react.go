// Package react is the React adapter. Importing it registers the "react"
// descriptor with adapter.Default.
package react

import (
	"github.com/vango-dev/pagewire/pkg/adapter"
	"github.com/vango-dev/pagewire/pkg/render"
)

// Name is the adapter name used in configuration.
const Name = "react"

// Entry is the bundle name of the React client entry point. It is resolved
// through the asset manifest.
const Entry = "react/app.js"

// refreshPreamble installs the react-refresh runtime hooks a dev server
// expects before any component module loads.
const refreshPreamble = `import RefreshRuntime from "/@react-refresh";
RefreshRuntime.injectIntoGlobalHook(window);
window.$RefreshReg$ = () => {};
window.$RefreshSig$ = () => (type) => type;
window.__vite_plugin_react_preamble_installed__ = true;`

// Descriptor is the registered React adapter.
var Descriptor = adapter.Define(Name, Extend)

func init() {
	adapter.MustRegister(Descriptor)
}

// Extend adds the React bootstrap to a shell.
func Extend(s *render.Shell) {
	entry := s.Asset(Entry)
	s.SetAttr("data-adapter", Name)
	if s.Dev {
		s.AddScript(render.ScriptTag{Module: true, Inline: refreshPreamble})
	} else {
		s.AddLink(render.LinkTag{Rel: "modulepreload", Href: entry})
	}
	s.AddScript(render.ScriptTag{Src: entry, Module: true})
}

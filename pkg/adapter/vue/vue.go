// Package vue is the Vue adapter. Importing it registers the "vue"
// descriptor with adapter.Default.
package vue

import (
	"github.com/vango-dev/pagewire/pkg/adapter"
	"github.com/vango-dev/pagewire/pkg/render"
)

// Name is the adapter name used in configuration.
const Name = "vue"

// Entry is the bundle name of the Vue client entry point.
const Entry = "vue/app.js"

// Stylesheet is the bundle name of the extracted single-file-component CSS.
const Stylesheet = "vue/app.css"

// Descriptor is the registered Vue adapter.
var Descriptor = adapter.Define(Name, Extend)

func init() {
	adapter.MustRegister(Descriptor)
}

// Extend adds the Vue bootstrap to a shell. Production builds extract
// component styles, so the stylesheet link is only added outside dev mode.
func Extend(s *render.Shell) {
	s.SetAttr("data-adapter", Name)
	if !s.Dev {
		s.AddLink(render.LinkTag{Rel: "stylesheet", Href: s.Asset(Stylesheet)})
	}
	s.AddScript(render.ScriptTag{Src: s.Asset(Entry), Module: true})
}

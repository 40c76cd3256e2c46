package server

import "github.com/vango-dev/pagewire/pkg/render"

// RenderOption customizes a single Render call.
type RenderOption func(*renderOptions)

type renderOptions struct {
	always []string
	title  string
	extend []render.Extender
}

// Always adds keys to the props sent on partial reloads of this render,
// on top of Config.AlwaysInclude.
func Always(keys ...string) RenderOption {
	return func(o *renderOptions) {
		o.always = append(o.always, keys...)
	}
}

// WithTitle overrides the document title of a first-load shell.
func WithTitle(title string) RenderOption {
	return func(o *renderOptions) {
		o.title = title
	}
}

// WithExtender runs fn on the first-load shell of this render.
func WithExtender(fn render.Extender) RenderOption {
	return func(o *renderOptions) {
		if fn != nil {
			o.extend = append(o.extend, fn)
		}
	}
}

package assets

import "strings"

// Resolver maps a source asset name to the URL a page should reference.
// Adapters use it to emit their bootstrap script tags.
type Resolver interface {
	Asset(source string) string
}

type manifestResolver struct {
	manifest *Manifest
	prefix   string
}

// NewResolver creates a Resolver from a Manifest with a URL prefix.
//
//	resolver := assets.NewResolver(manifest, "/build/")
//	resolver.Asset("app.js") // "/build/app.a1b2c3d4.js"
func NewResolver(m *Manifest, prefix string) Resolver {
	return &manifestResolver{
		manifest: m,
		prefix:   normalizePrefix(prefix),
	}
}

func (r *manifestResolver) Asset(source string) string {
	return r.prefix + r.manifest.Resolve(source)
}

type passthrough struct {
	prefix string
}

// NewPassthroughResolver returns source names unchanged apart from the
// prefix. It is the development resolver, where bundles are not fingerprinted.
func NewPassthroughResolver(prefix string) Resolver {
	return &passthrough{prefix: normalizePrefix(prefix)}
}

func (p *passthrough) Asset(source string) string {
	return p.prefix + source
}

// normalizePrefix ensures a non-empty prefix ends with a slash.
func normalizePrefix(prefix string) string {
	if prefix == "" || strings.HasSuffix(prefix, "/") {
		return prefix
	}
	return prefix + "/"
}

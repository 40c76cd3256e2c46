// Package assets resolves fingerprinted asset paths and derives the asset
// version that pagewire clients assert on every visit.
//
// The build step writes a manifest.json mapping source asset names to their
// fingerprinted names:
//
//	{
//	  "app.js": "app.a1b2c3d4.js",
//	  "app.css": "app.e5f6a7b8.css"
//	}
//
// The manifest is loaded once at boot, from disk or from S3:
//
//	manifest, _ := assets.Load("dist/manifest.json")
//	resolver := assets.NewResolver(manifest, "/build/")
//	resolver.Asset("app.js") // "/build/app.a1b2c3d4.js"
//	manifest.Version()       // "3f2a9c0d81be", changes whenever any entry changes
package assets

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"
)

// versionLen is the number of hex characters kept from the manifest digest.
const versionLen = 12

// Versioner supplies the current asset version.
type Versioner interface {
	Version() string
}

// StaticVersion is a Versioner for an explicitly configured version string.
type StaticVersion string

// Version returns v.
func (v StaticVersion) Version() string { return string(v) }

// Manifest holds the mapping from source asset paths to fingerprinted paths.
// It is safe for concurrent use.
type Manifest struct {
	entries map[string]string
	mu      sync.RWMutex
}

// NewManifest creates an empty manifest.
// Use Load() or LoadS3() to create a manifest from a build output.
func NewManifest() *Manifest {
	return &Manifest{
		entries: make(map[string]string),
	}
}

// Parse decodes manifest JSON of the form {"source.js": "source.abc123.js"}.
func Parse(data []byte) (*Manifest, error) {
	var entries map[string]string
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("assets: parse manifest: %w", err)
	}
	if entries == nil {
		entries = make(map[string]string)
	}
	return &Manifest{entries: entries}, nil
}

// Load reads a manifest.json file and returns a Manifest.
//
// If the file does not exist or cannot be read, an error is returned.
// In development, you may want to ignore the error and use NewPassthroughResolver.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Resolve returns the fingerprinted path for the given source path.
// If not found, returns the original path unchanged.
func (m *Manifest) Resolve(source string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if resolved, ok := m.entries[source]; ok {
		return resolved
	}
	return source
}

// Has returns true if the manifest contains the given source path.
func (m *Manifest) Has(source string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.entries[source]
	return ok
}

// Set adds or updates an entry in the manifest.
func (m *Manifest) Set(source, resolved string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[source] = resolved
}

// Len returns the number of entries in the manifest.
func (m *Manifest) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.entries)
}

// All returns a copy of all manifest entries.
func (m *Manifest) All() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make(map[string]string, len(m.entries))
	for k, v := range m.entries {
		result[k] = v
	}
	return result
}

// Version returns a short digest of the manifest entries. Any change to a
// fingerprinted file name changes the version, so a redeploy with new
// bundles invalidates every client still running the old ones. An empty
// manifest has an empty version.
func (m *Manifest) Version() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.entries) == 0 {
		return ""
	}

	keys := make([]string, 0, len(m.entries))
	for k := range m.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	h := sha256.New()
	for _, k := range keys {
		fmt.Fprintf(h, "%s=%s\n", k, m.entries[k])
	}
	return hex.EncodeToString(h.Sum(nil))[:versionLen]
}

// Replace swaps in the entries of next. Resolvers built on m see the new
// entries immediately.
func (m *Manifest) Replace(next *Manifest) {
	entries := next.All()
	m.mu.Lock()
	m.entries = entries
	m.mu.Unlock()
}

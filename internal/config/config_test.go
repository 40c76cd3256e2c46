package config

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/vango-dev/pagewire/internal/errors"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func code(err error) string {
	var pe *errors.PagewireError
	if stderrors.As(err, &pe) {
		return pe.Code
	}
	return ""
}

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Adapter != DefaultAdapter {
		t.Errorf("Adapter = %q, want %q", cfg.Adapter, DefaultAdapter)
	}
	if cfg.Addr != DefaultAddr {
		t.Errorf("Addr = %q, want %q", cfg.Addr, DefaultAddr)
	}
	if cfg.Assets.Prefix != DefaultAssetPrefix {
		t.Errorf("Assets.Prefix = %q, want %q", cfg.Assets.Prefix, DefaultAssetPrefix)
	}
	if cfg.Dev.Interval() != DefaultPollInterval {
		t.Errorf("Dev.Interval() = %v, want %v", cfg.Dev.Interval(), DefaultPollInterval)
	}
	if cfg.Metrics.Path != DefaultMetricsPath || cfg.Metrics.Namespace != DefaultNamespace {
		t.Errorf("Metrics = %+v", cfg.Metrics)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestLoadJSON(t *testing.T) {
	dir := t.TempDir()
	if _, err := Load(dir); code(err) != "E100" {
		t.Fatalf("Load(empty dir) error = %v, want E100", err)
	}

	writeFile(t, dir, JSONFileName, `{
  "name": "demo",
  "adapter": "vue",
  "addr": "127.0.0.1:8080",
  "alwaysInclude": ["user", "flash"],
  "assets": {"manifest": "public/build/manifest.json"},
  "dev": {"enabled": true, "reload": true, "pollInterval": "250ms"},
  "metrics": {"enabled": true}
}
`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Name != "demo" || cfg.Adapter != "vue" || cfg.Addr != "127.0.0.1:8080" {
		t.Errorf("cfg = %+v", cfg)
	}
	if !reflect.DeepEqual(cfg.AlwaysInclude, []string{"user", "flash"}) {
		t.Errorf("AlwaysInclude = %v", cfg.AlwaysInclude)
	}
	if !cfg.Dev.Enabled || !cfg.Dev.Reload || cfg.Dev.Interval() != 250*time.Millisecond {
		t.Errorf("Dev = %+v", cfg.Dev)
	}
	// Unset fields keep their defaults.
	if cfg.Assets.Prefix != DefaultAssetPrefix || cfg.Metrics.Path != DefaultMetricsPath {
		t.Errorf("defaults lost: assets=%+v metrics=%+v", cfg.Assets, cfg.Metrics)
	}
	if want := filepath.Join(dir, "public/build/manifest.json"); cfg.ManifestPath() != want {
		t.Errorf("ManifestPath() = %q, want %q", cfg.ManifestPath(), want)
	}
	if cfg.PageTitle() != "demo" {
		t.Errorf("PageTitle() = %q, want name fallback", cfg.PageTitle())
	}
	if cfg.Dir() != dir {
		t.Errorf("Dir() = %q, want %q", cfg.Dir(), dir)
	}
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, YAMLFileName, `name: shop
adapter: react
title: Shop
version: release-42
assets:
  prefix: /static
  s3:
    bucket: shop-assets
    key: build/manifest.json
    region: eu-west-1
`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.PageTitle() != "Shop" || cfg.Version != "release-42" {
		t.Errorf("cfg = %+v", cfg)
	}
	if !cfg.Assets.S3.Enabled() || cfg.Assets.S3.Region != "eu-west-1" {
		t.Errorf("S3 = %+v", cfg.Assets.S3)
	}
	if cfg.Assets.Prefix != "/static" {
		t.Errorf("Prefix = %q", cfg.Assets.Prefix)
	}
}

func TestLoadPrefersJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, JSONFileName, `{"adapter": "vue"}`)
	writeFile(t, dir, YAMLFileName, "adapter: react\n")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Adapter != "vue" {
		t.Errorf("Adapter = %q, want the JSON file to win", cfg.Adapter)
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, JSONFileName, "{\n  \"adapter\": \"vue\",\n  \"addr\": \n}\n")

	_, err := LoadFile(path)
	if code(err) != "E101" {
		t.Fatalf("error = %v, want E101", err)
	}
	var pe *errors.PagewireError
	stderrors.As(err, &pe)
	if pe.Location == nil || pe.Location.Line != 4 {
		t.Errorf("Location = %v, want line 4", pe.Location)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, YAMLFileName, "name: demo\nalwaysInclude: user\n")

	_, err := LoadFile(path)
	if code(err) != "E101" {
		t.Fatalf("error = %v, want E101", err)
	}
	var pe *errors.PagewireError
	stderrors.As(err, &pe)
	if pe.Location == nil || pe.Location.Line != 2 {
		t.Errorf("Location = %v, want line 2", pe.Location)
	}
	if len(pe.Context) == 0 {
		t.Error("Context not loaded")
	}
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "pagewire.json"))
	if code(err) != "E100" {
		t.Errorf("error = %v, want E100", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty adapter", func(c *Config) { c.Adapter = " " }},
		{"addr without port", func(c *Config) { c.Addr = "localhost" }},
		{"port out of range", func(c *Config) { c.Addr = ":70000" }},
		{"bad poll interval", func(c *Config) { c.Dev.PollInterval = "soon" }},
		{"negative poll interval", func(c *Config) { c.Dev.PollInterval = "-1s" }},
		{"relative metrics path", func(c *Config) { c.Metrics.Path = "metrics" }},
		{"s3 bucket without key", func(c *Config) { c.Assets.S3.Bucket = "b" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			if err := cfg.Validate(); code(err) != "E102" {
				t.Errorf("Validate() = %v, want E102", err)
			}
		})
	}

	ipv6 := New()
	ipv6.Addr = "[::1]:3000"
	if err := ipv6.Validate(); err != nil {
		t.Errorf("Validate(%q) = %v", ipv6.Addr, err)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	for _, name := range []string{JSONFileName, YAMLFileName} {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			cfg := New()
			cfg.Name = "roundtrip"
			cfg.Adapter = "vue"
			cfg.AlwaysInclude = []string{"user"}

			if err := cfg.Save(); err == nil {
				t.Error("Save() without a path should fail")
			}
			if err := cfg.SaveTo(filepath.Join(dir, name)); err != nil {
				t.Fatal(err)
			}

			got, err := Load(dir)
			if err != nil {
				t.Fatal(err)
			}
			if got.Name != "roundtrip" || got.Adapter != "vue" || !reflect.DeepEqual(got.AlwaysInclude, []string{"user"}) {
				t.Errorf("loaded %+v", got)
			}

			got.Title = "Changed"
			if err := got.Save(); err != nil {
				t.Fatal(err)
			}
			again, _ := Load(dir)
			if again.Title != "Changed" {
				t.Errorf("Title = %q after Save", again.Title)
			}
		})
	}
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, YMLFileName, "adapter: react\n")
	nested := filepath.Join(root, "cmd", "app")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := FindProjectRoot(nested)
	if err != nil {
		t.Fatal(err)
	}
	if got != root {
		t.Errorf("FindProjectRoot = %q, want %q", got, root)
	}

	if _, err := FindProjectRoot(t.TempDir()); code(err) != "E100" {
		t.Errorf("error = %v, want E100", err)
	}
}

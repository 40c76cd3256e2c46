package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/pagewire/internal/errors"
)

// Project file names, in lookup order.
const (
	JSONFileName = "pagewire.json"
	YAMLFileName = "pagewire.yaml"
	YMLFileName  = "pagewire.yml"
)

// Defaults.
const (
	DefaultAdapter      = "react"
	DefaultAddr         = ":3000"
	DefaultAssetPrefix  = "/build"
	DefaultPollInterval = 500 * time.Millisecond
	DefaultMetricsPath  = "/metrics"
	DefaultNamespace    = "pagewire"
)

var fileNames = []string{JSONFileName, YAMLFileName, YMLFileName}

// Config is the pagewire project file.
type Config struct {
	// Name is the project name. It is the default page title.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Adapter names the front-end adapter ("react", "vue").
	Adapter string `json:"adapter,omitempty" yaml:"adapter,omitempty"`

	// Addr is the listen address of pagewire serve.
	Addr string `json:"addr,omitempty" yaml:"addr,omitempty"`

	// Title is the <title> of the HTML shell.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`

	// Version overrides the manifest-derived asset version.
	Version string `json:"version,omitempty" yaml:"version,omitempty"`

	// AlwaysInclude lists props sent on every partial reload. Empty means
	// the shared props.
	AlwaysInclude []string `json:"alwaysInclude,omitempty" yaml:"alwaysInclude,omitempty"`

	Assets  AssetsConfig  `json:"assets,omitempty" yaml:"assets,omitempty"`
	Dev     DevConfig     `json:"dev,omitempty" yaml:"dev,omitempty"`
	Metrics MetricsConfig `json:"metrics,omitempty" yaml:"metrics,omitempty"`

	configPath string
}

// AssetsConfig locates the bundle manifest.
type AssetsConfig struct {
	// Manifest is the path to manifest.json, relative to the project root.
	Manifest string `json:"manifest,omitempty" yaml:"manifest,omitempty"`

	// Prefix is the URL prefix bundles are served under.
	Prefix string `json:"prefix,omitempty" yaml:"prefix,omitempty"`

	S3 S3Config `json:"s3,omitempty" yaml:"s3,omitempty"`
}

// S3Config names a manifest object in S3.
type S3Config struct {
	Bucket string `json:"bucket,omitempty" yaml:"bucket,omitempty"`
	Key    string `json:"key,omitempty" yaml:"key,omitempty"`
	Region string `json:"region,omitempty" yaml:"region,omitempty"`
}

// Enabled reports whether an S3 manifest is configured.
func (s S3Config) Enabled() bool {
	return s.Bucket != "" && s.Key != ""
}

// DevConfig contains development settings.
type DevConfig struct {
	// Enabled turns on dev mode: the asset version is re-read per request
	// and adapters emit their dev tags.
	Enabled bool `json:"enabled,omitempty" yaml:"enabled,omitempty"`

	// Reload pushes new asset versions to open browsers over WebSocket.
	Reload bool `json:"reload,omitempty" yaml:"reload,omitempty"`

	// PollInterval is how often the manifest is checked, e.g. "250ms".
	PollInterval string `json:"pollInterval,omitempty" yaml:"pollInterval,omitempty"`
}

// Interval parses PollInterval, falling back to DefaultPollInterval.
func (d DevConfig) Interval() time.Duration {
	if v, err := time.ParseDuration(d.PollInterval); err == nil && v > 0 {
		return v
	}
	return DefaultPollInterval
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled   bool   `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Path      string `json:"path,omitempty" yaml:"path,omitempty"`
	Namespace string `json:"namespace,omitempty" yaml:"namespace,omitempty"`
}

// New returns a Config with defaults.
func New() *Config {
	return &Config{
		Adapter: DefaultAdapter,
		Addr:    DefaultAddr,
		Assets: AssetsConfig{
			Prefix: DefaultAssetPrefix,
		},
		Dev: DevConfig{
			PollInterval: DefaultPollInterval.String(),
		},
		Metrics: MetricsConfig{
			Path:      DefaultMetricsPath,
			Namespace: DefaultNamespace,
		},
	}
}

// Load reads the project file from dir.
func Load(dir string) (*Config, error) {
	path, ok := find(dir)
	if !ok {
		return nil, errors.New("E100").
			WithDetail("No " + JSONFileName + " or " + YAMLFileName + " found in " + dir).
			WithSuggestion("Create " + JSONFileName + ` with at least {"adapter": "react"}`)
	}
	return LoadFile(path)
}

// LoadFile reads a project file. The format follows the extension.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E100").WithDetail("No project file at " + path)
		}
		return nil, errors.New("E101").Wrap(err)
	}

	cfg := New()
	if isYAML(path) {
		err = yaml.Unmarshal(data, cfg)
	} else {
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, parseError(path, data, err)
	}

	cfg.configPath = path
	cfg.applyDefaults()
	return cfg, nil
}

// Save writes the config back to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the config to path, as YAML for .yaml/.yml files and JSON
// otherwise.
func (c *Config) SaveTo(path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return errors.New("E101").Wrap(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.New("E101").Wrap(err)
	}
	c.configPath = path
	return nil
}

// Path returns the file the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory of the project file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// ManifestPath returns the manifest path resolved against the project
// root, or "" when none is configured.
func (c *Config) ManifestPath() string {
	p := c.Assets.Manifest
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Dir(), p)
}

// PageTitle returns Title, or Name when no title is set.
func (c *Config) PageTitle() string {
	if c.Title != "" {
		return c.Title
	}
	return c.Name
}

func (c *Config) applyDefaults() {
	if c.Adapter == "" {
		c.Adapter = DefaultAdapter
	}
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.Assets.Prefix == "" {
		c.Assets.Prefix = DefaultAssetPrefix
	}
	if c.Dev.PollInterval == "" {
		c.Dev.PollInterval = DefaultPollInterval.String()
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
}

// Validate checks values that parse but cannot work.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Adapter) == "" {
		return c.invalid("adapter", "adapter must name a registered adapter")
	}
	if _, port, err := net.SplitHostPort(c.Addr); err != nil || !validPort(port) {
		return c.invalid("addr", `addr must be "host:port" with a port between 0 and 65535`)
	}
	if d, err := time.ParseDuration(c.Dev.PollInterval); err != nil || d <= 0 {
		return c.invalid("dev.pollInterval", `dev.pollInterval must be a positive duration such as "500ms"`)
	}
	if !strings.HasPrefix(c.Metrics.Path, "/") {
		return c.invalid("metrics.path", `metrics.path must start with "/"`)
	}
	if (c.Assets.S3.Bucket == "") != (c.Assets.S3.Key == "") {
		return c.invalid("assets.s3", "assets.s3 needs both bucket and key")
	}
	return nil
}

func (c *Config) invalid(field, hint string) *errors.PagewireError {
	return errors.New("E102").
		WithDetail("Invalid value for " + field + " in " + filepath.Base(c.configPath)).
		WithSuggestion(hint)
}

func validPort(s string) bool {
	n, err := strconv.Atoi(s)
	return err == nil && n >= 0 && n <= 65535
}

// Exists reports whether dir holds a project file.
func Exists(dir string) bool {
	_, ok := find(dir)
	return ok
}

// FindProjectRoot walks up from startDir to the first directory holding a
// project file.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}
	for {
		if Exists(dir) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("E100").
				WithDetail("No project file found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}

func find(dir string) (string, bool) {
	for _, name := range fileNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

var yamlLine = regexp.MustCompile(`line (\d+)`)

// parseError turns a decode error into E101 pointing at the bad line.
func parseError(path string, data []byte, err error) error {
	perr := errors.New("E101").Wrap(err)

	line, col := 0, 0
	var syn *json.SyntaxError
	var typ *json.UnmarshalTypeError
	switch {
	case asJSON(err, &syn):
		line, col = position(data, syn.Offset)
	case asJSON(err, &typ):
		line, col = position(data, typ.Offset)
	default:
		if m := yamlLine.FindStringSubmatch(err.Error()); m != nil {
			line, _ = strconv.Atoi(m[1])
		}
	}
	if line > 0 {
		perr.WithLocation(path, line, col)
	}
	if isYAML(path) {
		return perr.WithSuggestion("Check the indentation and types around the reported line")
	}
	return perr.WithSuggestion(fmt.Sprintf("Check that %s is valid JSON", filepath.Base(path)))
}

func asJSON[T error](err error, target *T) bool {
	if e, ok := err.(T); ok {
		*target = e
		return true
	}
	return false
}

// position converts a byte offset into a 1-based line and column.
func position(data []byte, offset int64) (int, int) {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	before := data[:offset]
	line := bytes.Count(before, []byte("\n")) + 1
	col := int(offset) - bytes.LastIndexByte(before, '\n') - 1
	if col < 1 {
		col = 1
	}
	return line, col
}

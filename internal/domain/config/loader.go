package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/felixgeelhaar/pkgreconcile/internal/ports"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Environment variables that override file settings.
const (
	EnvBackend  = "PKGRECONCILE_BACKEND"
	EnvLogLevel = "PKGRECONCILE_LOG_LEVEL"
)

// Loader loads configuration from the filesystem.
type Loader struct {
	fs        ports.FileSystem
	lookupEnv func(string) (string, bool)
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithLookupEnv replaces os.LookupEnv for environment overrides.
func WithLookupEnv(fn func(string) (string, bool)) LoaderOption {
	return func(l *Loader) {
		l.lookupEnv = fn
	}
}

// NewLoader creates a new Loader reading through fs.
func NewLoader(fs ports.FileSystem, opts ...LoaderOption) *Loader {
	l := &Loader{fs: fs, lookupEnv: os.LookupEnv}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads, parses and validates the configuration at path. The format is
// chosen by extension: .yaml/.yml or .toml.
func (l *Loader) Load(path string) (*Config, error) {
	path = ports.ExpandPath(path)

	data, err := l.fs.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, NewConfigNotFoundError(path)
		}
		return nil, err
	}

	cfg, err := Parse(path, data)
	if err != nil {
		return nil, err
	}

	l.applyEnv(cfg)
	cfg.applyDefaults()

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes data according to the extension of path.
func Parse(path string, data []byte) (*Config, error) {
	var cfg Config

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, NewYAMLParseError(path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, NewTOMLParseError(path, err)
		}
	default:
		return nil, NewConfigFormatError(path)
	}

	return &cfg, nil
}

func (l *Loader) applyEnv(cfg *Config) {
	if v, ok := l.lookupEnv(EnvBackend); ok && v != "" {
		cfg.Manager.Backend = v
	}
	if v, ok := l.lookupEnv(EnvLogLevel); ok && v != "" {
		cfg.LogLevel = v
	}
}

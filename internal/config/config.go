// Package config reads pyfix.toml and environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"pyfix/internal/driver"
	"pyfix/internal/fixer"
	"pyfix/internal/trace"
)

// FileName is the project configuration file looked up from the working
// directory upwards.
const FileName = "pyfix.toml"

// Environment variables that override file settings.
const (
	EnvJobs          = "PYFIX_JOBS"
	EnvMaxIterations = "PYFIX_MAX_ITERATIONS"
	EnvTraceLevel    = "PYFIX_TRACE_LEVEL"
	EnvNoCache       = "PYFIX_NO_CACHE"
)

// Config is the merged configuration.
type Config struct {
	// Path is the file the settings came from; empty when none was found.
	Path string `toml:"-"`
	// Root is the directory relative paths are resolved against.
	Root string `toml:"-"`

	Fixers FixersConfig `toml:"fixers"`
	Run    RunConfig    `toml:"run"`
	Rules  RulesConfig  `toml:"rules"`
	Cache  CacheConfig  `toml:"cache"`
	Trace  TraceConfig  `toml:"trace"`
}

type FixersConfig struct {
	// Enable names the fixers to run; empty means every non-explicit one.
	Enable  []string `toml:"enable"`
	Disable []string `toml:"disable"`
	// Explicit fixers to run in addition to the default set.
	Explicit []string `toml:"explicit"`
}

type RunConfig struct {
	Mode          string `toml:"mode"`
	MaxIterations int    `toml:"max_iterations"`
	Jobs          int    `toml:"jobs"`
}

type RulesConfig struct {
	Files []string `toml:"files"`
}

type CacheConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

type TraceConfig struct {
	Level string `toml:"level"`
}

// Default returns the settings used when no file is present.
func Default() *Config {
	return &Config{
		Run:   RunConfig{Mode: "single-pass"},
		Cache: CacheConfig{Enabled: true},
		Trace: TraceConfig{Level: "off"},
	}
}

// Lookup reads one environment variable.
type Lookup func(key string) (string, bool)

// Find walks up from startDir looking for FileName.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load finds and reads the configuration for startDir, then applies the
// process environment and a .env file next to it.
func Load(startDir string) (*Config, error) {
	return LoadWith(startDir, os.LookupEnv)
}

// LoadWith is Load with an explicit environment. Variables from lookup win
// over the .env file.
func LoadWith(startDir string, lookup Lookup) (*Config, error) {
	cfg := Default()
	path, ok, err := Find(startDir)
	if err != nil {
		return nil, err
	}
	if ok {
		if cfg, err = LoadFile(path); err != nil {
			return nil, err
		}
	} else if cfg.Root, err = filepath.Abs(orDot(startDir)); err != nil {
		return nil, err
	}

	dotenv, err := readDotEnv(filepath.Join(cfg.Root, ".env"))
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(chain(lookup, dotenv)); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads one configuration file on top of the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undec := meta.Undecoded(); len(undec) > 0 {
		return nil, fmt.Errorf("%s: unknown key %s", path, undec[0])
	}
	// an iteration cap on its own asks for fixed-point runs
	if meta.IsDefined("run", "max_iterations") && !meta.IsDefined("run", "mode") {
		cfg.Run.Mode = "fixed-point"
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	cfg.Path = abs
	cfg.Root = filepath.Dir(abs)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks values that toml decoding cannot.
func (c *Config) Validate() error {
	if _, err := c.Mode(); err != nil {
		return err
	}
	switch {
	case c.Run.MaxIterations < 0:
		return fmt.Errorf("[run].max_iterations must not be negative")
	case c.Run.Jobs < 0:
		return fmt.Errorf("[run].jobs must not be negative")
	}
	if _, err := trace.ParseLevel(c.Trace.Level); err != nil {
		return fmt.Errorf("[trace].level: %w", err)
	}
	for _, name := range c.Fixers.Enable {
		if name == "" {
			return fmt.Errorf("[fixers].enable: empty fixer name")
		}
	}
	return nil
}

// ApplyEnv overrides settings from environment variables.
func (c *Config) ApplyEnv(lookup Lookup) error {
	if v, ok := lookup(EnvJobs); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return fmt.Errorf("%s=%q: want a non-negative integer", EnvJobs, v)
		}
		c.Run.Jobs = n
	}
	if v, ok := lookup(EnvMaxIterations); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return fmt.Errorf("%s=%q: want a non-negative integer", EnvMaxIterations, v)
		}
		c.Run.MaxIterations = n
	}
	if v, ok := lookup(EnvTraceLevel); ok && v != "" {
		if _, err := trace.ParseLevel(v); err != nil {
			return fmt.Errorf("%s: %w", EnvTraceLevel, err)
		}
		c.Trace.Level = v
	}
	if v, ok := lookup(EnvNoCache); ok && v != "" {
		off, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s=%q: want a boolean", EnvNoCache, v)
		}
		if off {
			c.Cache.Enabled = false
		}
	}
	return nil
}

// Mode converts [run] into a driver mode.
func (c *Config) Mode() (driver.Mode, error) {
	switch strings.ToLower(strings.TrimSpace(c.Run.Mode)) {
	case "", "single-pass", "single":
		return driver.SinglePass(), nil
	case "fixed-point", "fixed":
		return driver.FixedPoint(c.Run.MaxIterations), nil
	}
	return driver.Mode{}, fmt.Errorf("[run].mode: unknown mode %q (want single-pass or fixed-point)", c.Run.Mode)
}

// Selection returns the names and exclusions to pass to Registry.Select.
func (c *Config) Selection() (names, exclude []string) {
	names = append(names, c.Fixers.Enable...)
	if len(c.Fixers.Explicit) > 0 {
		if len(names) == 0 {
			names = append(names, fixer.All)
		}
		names = append(names, c.Fixers.Explicit...)
	}
	return names, append([]string(nil), c.Fixers.Disable...)
}

// RuleFiles returns [rules].files resolved against Root.
func (c *Config) RuleFiles() []string {
	out := make([]string, 0, len(c.Rules.Files))
	for _, f := range c.Rules.Files {
		if !filepath.IsAbs(f) && c.Root != "" {
			f = filepath.Join(c.Root, f)
		}
		out = append(out, f)
	}
	return out
}

// CacheDir returns [cache].dir resolved against Root, or "" for the
// per-user default.
func (c *Config) CacheDir() string {
	d := c.Cache.Dir
	if d == "" || filepath.IsAbs(d) || c.Root == "" {
		return d
	}
	return filepath.Join(c.Root, d)
}

func readDotEnv(path string) (map[string]string, error) {
	env, err := godotenv.Read(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return env, nil
}

func chain(lookup Lookup, fallback map[string]string) Lookup {
	return func(key string) (string, bool) {
		if lookup != nil {
			if v, ok := lookup(key); ok {
				return v, true
			}
		}
		v, ok := fallback[key]
		return v, ok
	}
}

func orDot(dir string) string {
	if dir == "" {
		return "."
	}
	return dir
}

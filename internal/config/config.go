// Package config provides configuration loading and defaults for scriptpaths.
//
// Configuration is read from scriptpaths.toml in the config directory
// (normally the app root). The file is optional: every setting has a default,
// and environment variables still take precedence over CDN settings.
package config

//go:generate go run ../../cmd/genconfig

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/hashicorp/go-multierror"
	"tools.zach/dev/scriptpaths/internal/atomicfile"
	"tools.zach/dev/scriptpaths/internal/migrate"
	"tools.zach/dev/scriptpaths/internal/paths"
)

// FileName is the configuration file name looked up in the config directory.
const FileName = "scriptpaths.toml"

// ///////////////////////////////////////////////
// Configuration Types
// ///////////////////////////////////////////////

// Config represents the top-level configuration.
type Config struct {
	// Version is the config schema version used for migrations.
	Version int `toml:"version"`
	// Toolchain describes how the toolchain itself is installed.
	Toolchain ToolchainConfig `toml:"toolchain"`
	// CDN holds fallback CDN prefixes for library exports.
	CDN CDNConfig `toml:"cdn"`
	// Monorepo holds workspace detection settings.
	Monorepo MonorepoConfig `toml:"monorepo"`
	// Log holds logging settings.
	Log LogConfig `toml:"log"`
}

// ToolchainConfig describes the toolchain package.
type ToolchainConfig struct {
	// Package is the toolchain's npm package name, looked up in node_modules
	// to detect a linked install.
	Package string `toml:"package"`
	// TemplateDir is the bundled template, relative to the toolchain root,
	// used when building from the toolchain's own repository.
	TemplateDir string `toml:"template_dir"`
}

// CDNConfig holds CDN prefixes used when the matching environment variable
// is unset.
type CDNConfig struct {
	// Production is the fallback for CDN_PATH_PRODUCTION.
	Production string `toml:"production"`
	// Staging is the fallback for CDN_PATH_STAGING.
	Staging string `toml:"staging"`
}

// MonorepoConfig holds workspace detection settings.
type MonorepoConfig struct {
	// Enabled turns workspace detection on.
	Enabled bool `toml:"enabled"`
	// Ignore lists doublestar patterns of workspace packages to exclude from
	// source paths, relative to the workspace root.
	Ignore []string `toml:"ignore"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is the minimum log level (trace, debug, info, warn, error).
	Level string `toml:"level"`
	// File is a log file path; empty logs to stderr. Relative paths are
	// relative to the config directory.
	File string `toml:"file"`
	// MaxSizeMB is the maximum log file size in megabytes before rotation.
	MaxSizeMB int `toml:"max_size_mb"`
}

// ///////////////////////////////////////////////
// Default Configuration
// ///////////////////////////////////////////////

// DefaultConfig returns a Config populated with defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: migrate.Config.CurrentVersion,
		Toolchain: ToolchainConfig{
			Package:     paths.DefaultOwnPackage,
			TemplateDir: paths.DefaultTemplateDir,
		},
		CDN: CDNConfig{},
		Monorepo: MonorepoConfig{
			Enabled: true,
			Ignore:  []string{},
		},
		Log: LogConfig{
			Level:     "info",
			MaxSizeMB: 10,
		},
	}
}

// ExampleConfig returns a Config suitable for generating config.default.toml.
func ExampleConfig() *Config {
	return DefaultConfig()
}

// ///////////////////////////////////////////////
// PeekVersion
// ///////////////////////////////////////////////

// PeekVersion reads just the version field from raw TOML bytes.
// Returns 1 if the version field is missing or zero.
func PeekVersion(data []byte) int {
	var v struct {
		Version int `toml:"version"`
	}
	if err := toml.Unmarshal(data, &v); err != nil {
		return 1
	}
	if v.Version == 0 {
		return 1
	}
	return v.Version
}

// ///////////////////////////////////////////////
// Loading and Saving
// ///////////////////////////////////////////////

// Path returns the config file path inside dir.
func Path(dir string) string {
	return filepath.Join(dir, FileName)
}

// Load reads and parses dir/scriptpaths.toml. A missing file yields
// DefaultConfig. Files from older schema versions are migrated and
// re-saved; files from newer versions are rejected untouched.
func Load(dir string) (*Config, error) {
	path := Path(dir)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}

	version := PeekVersion(data)
	if version > migrate.Config.CurrentVersion {
		return nil, fmt.Errorf("config version %d is newer than supported version %d", version, migrate.Config.CurrentVersion)
	}
	migrated := migrate.Config.NeedsMigration(version)
	if migrated {
		if backupErr := os.WriteFile(path+".bak", data, 0o644); backupErr != nil {
			slog.Warn("failed to write config backup", "error", backupErr)
		}
		data, _, err = migrate.Config.Run(data, version)
		if err != nil {
			return nil, fmt.Errorf("migrate config: %w", err)
		}
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.Version = migrate.Config.CurrentVersion

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	if migrated {
		if err := cfg.Save(path); err != nil {
			slog.Warn("failed to save migrated config", "error", err)
		}
	}

	return cfg, nil
}

// Save writes the config to path as TOML using an atomic write.
func (c *Config) Save(path string) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return atomicfile.Write(path, buf.Bytes(), 0o644)
}

// ///////////////////////////////////////////////
// Validation
// ///////////////////////////////////////////////

// validLogLevels is the set of accepted log level strings.
var validLogLevels = map[string]bool{
	"trace": true, "debug": true, "info": true, "warn": true, "error": true,
}

// Validate checks every setting and reports all problems at once.
func (c *Config) Validate() error {
	var errs *multierror.Error

	if strings.TrimSpace(c.Toolchain.Package) == "" {
		errs = multierror.Append(errs, errors.New("toolchain.package must not be empty"))
	}
	if filepath.IsAbs(c.Toolchain.TemplateDir) {
		errs = multierror.Append(errs, fmt.Errorf("toolchain.template_dir %q must be relative to the toolchain root", c.Toolchain.TemplateDir))
	}

	if err := validateCDN("cdn.production", c.CDN.Production); err != nil {
		errs = multierror.Append(errs, err)
	}
	if err := validateCDN("cdn.staging", c.CDN.Staging); err != nil {
		errs = multierror.Append(errs, err)
	}

	for _, p := range c.Monorepo.Ignore {
		if !doublestar.ValidatePattern(p) {
			errs = multierror.Append(errs, fmt.Errorf("invalid monorepo.ignore pattern %q", p))
		}
	}

	if !validLogLevels[strings.ToLower(c.Log.Level)] {
		errs = multierror.Append(errs, fmt.Errorf("invalid log.level %q: must be trace, debug, info, warn, or error", c.Log.Level))
	}
	if c.Log.MaxSizeMB <= 0 {
		errs = multierror.Append(errs, fmt.Errorf("log.max_size_mb must be > 0, got %d", c.Log.MaxSizeMB))
	}

	return errs.ErrorOrNil()
}

// validateCDN accepts an empty prefix or an absolute URL without a trailing
// slash.
func validateCDN(key, prefix string) error {
	if prefix == "" {
		return nil
	}
	u, err := url.Parse(prefix)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, prefix, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid %s %q: must be an absolute URL", key, prefix)
	}
	if strings.HasSuffix(prefix, "/") {
		return fmt.Errorf("invalid %s %q: must not end with /", key, prefix)
	}
	return nil
}

// ///////////////////////////////////////////////
// Env Helpers
// ///////////////////////////////////////////////

// ApplyCDN fills unset CDN prefixes in env from the config.
func (c *Config) ApplyCDN(env paths.Env) paths.Env {
	if env.CDNProduction == "" {
		env.CDNProduction = c.CDN.Production
	}
	if env.CDNStaging == "" {
		env.CDNStaging = c.CDN.Staging
	}
	return env
}

// LogFile returns the configured log file resolved against dir, or "" when
// logging goes to stderr.
func (c *Config) LogFile(dir string) string {
	if c.Log.File == "" {
		return ""
	}
	if filepath.IsAbs(c.Log.File) {
		return c.Log.File
	}
	return filepath.Join(dir, c.Log.File)
}

package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Mode selects how slot artifacts are produced.
type Mode string

const (
	// ModeDirect writes one encoded media file per slot.
	ModeDirect Mode = "direct"
	// ModeIndirect writes one media file per unique item plus a JSON
	// pointer record per slot referencing it.
	ModeIndirect Mode = "indirect"
)

// Paths contains directory configuration.
type Paths struct {
	SourceDir string `toml:"source_dir"`
	OutputDir string `toml:"output_dir"`
	LogDir    string `toml:"log_dir"`
	CacheDir  string `toml:"cache_dir"`
}

// Keyspace contains slot-address sizing configuration.
type Keyspace struct {
	// MinHexWidth is the floor for the computed hex-digit width.
	MinHexWidth int `toml:"min_hex_width"`
}

// Encode contains image re-encoding configuration.
type Encode struct {
	Reencode bool `toml:"reencode"`
	// Format is the target encoding when Reencode is true: "jpeg" or "png".
	Format  string `toml:"format"`
	Quality int    `toml:"quality"`
	// Extension names slot files when Reencode is false and sources are
	// copied byte for byte.
	Extension string `toml:"extension"`
}

// Publish contains the routing surface configuration.
type Publish struct {
	// Domain is the request host matched by generated routing rules.
	Domain string `toml:"domain"`
	Mode   Mode   `toml:"mode"`
	// BaseURL prefixes redirect targets (a CDN or raw-host mirror). When
	// empty in direct mode, rules fall back to path-only rewrites.
	BaseURL string `toml:"base_url"`
}

// Build contains pipeline execution configuration.
type Build struct {
	// Workers bounds parallel artifact production; 0 means one worker per CPU.
	Workers int `toml:"workers"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for slotter.
type Config struct {
	Paths    Paths    `toml:"paths"`
	Keyspace Keyspace `toml:"keyspace"`
	Encode   Encode   `toml:"encode"`
	Publish  Publish  `toml:"publish"`
	Build    Build    `toml:"build"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path of the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/slotter/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("slotter.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories a build needs besides the
// output root, which the pipeline stages and swaps itself.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.LogDir, c.Paths.CacheDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// OutputExtension returns the extension (with leading dot) every slot and
// artifact file carries. Routing rules embed the same literal, so the
// value is fixed per run.
func (c *Config) OutputExtension() string {
	if !c.Encode.Reencode {
		return c.Encode.Extension
	}
	switch c.Encode.Format {
	case "png":
		return ".png"
	default:
		return ".jpg"
	}
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

package config

import (
	"errors"
	"fmt"
)

// maxHexWidth mirrors keyspace.MaxWidth; wider identifiers would overflow
// slot counts.
const maxHexWidth = 15

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateKeyspace(); err != nil {
		return err
	}
	if err := c.validateEncode(); err != nil {
		return err
	}
	if err := c.validatePublish(); err != nil {
		return err
	}
	if err := c.validateBuild(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.SourceDir == "" {
		return errors.New("paths.source_dir must be set")
	}
	if c.Paths.OutputDir == "" {
		return errors.New("paths.output_dir must be set")
	}
	if c.Paths.SourceDir == c.Paths.OutputDir {
		return errors.New("paths.output_dir must differ from paths.source_dir (the output tree is replaced on every build)")
	}
	return nil
}

func (c *Config) validateKeyspace() error {
	if c.Keyspace.MinHexWidth < 0 || c.Keyspace.MinHexWidth > maxHexWidth {
		return fmt.Errorf("keyspace.min_hex_width must be between 0 and %d", maxHexWidth)
	}
	return nil
}

func (c *Config) validateEncode() error {
	switch c.Encode.Format {
	case "jpeg", "png":
	default:
		return fmt.Errorf("encode.format must be \"jpeg\" or \"png\", got %q", c.Encode.Format)
	}
	if c.Encode.Quality < 1 || c.Encode.Quality > 100 {
		return errors.New("encode.quality must be between 1 and 100")
	}
	return nil
}

func (c *Config) validatePublish() error {
	if c.Publish.Domain == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/slotter/config.toml"
		}
		return fmt.Errorf("publish.domain is required for routing-rule generation. Edit %s (create with 'slotter config init')", defaultPath)
	}
	switch c.Publish.Mode {
	case ModeDirect, ModeIndirect:
	default:
		return fmt.Errorf("publish.mode must be \"direct\" or \"indirect\", got %q", c.Publish.Mode)
	}
	if c.Publish.Mode == ModeIndirect && c.Publish.BaseURL == "" {
		return errors.New("publish.base_url is required in indirect mode (slot records embed fully-qualified artifact URLs)")
	}
	return nil
}

func (c *Config) validateBuild() error {
	if c.Build.Workers < 0 {
		return errors.New("build.workers must be zero or positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be \"console\" or \"json\", got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}

package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeEncode()
	c.normalizePublish()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.SourceDir, err = expandPath(c.Paths.SourceDir); err != nil {
		return fmt.Errorf("paths.source_dir: %w", err)
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.CacheDir) == "" {
		c.Paths.CacheDir = defaultCacheDir
	}
	if c.Paths.CacheDir, err = expandPath(c.Paths.CacheDir); err != nil {
		return fmt.Errorf("paths.cache_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeEncode() {
	c.Encode.Format = strings.ToLower(strings.TrimSpace(c.Encode.Format))
	if c.Encode.Format == "jpg" {
		c.Encode.Format = "jpeg"
	}
	if c.Encode.Format == "" {
		c.Encode.Format = defaultEncodeFormat
	}
	if c.Encode.Quality == 0 {
		c.Encode.Quality = defaultEncodeQuality
	}
	c.Encode.Extension = strings.ToLower(strings.TrimSpace(c.Encode.Extension))
	if c.Encode.Extension == "" {
		c.Encode.Extension = defaultCopyExtension
	}
	if !strings.HasPrefix(c.Encode.Extension, ".") {
		c.Encode.Extension = "." + c.Encode.Extension
	}
}

func (c *Config) normalizePublish() {
	c.Publish.Domain = strings.TrimSpace(c.Publish.Domain)
	c.Publish.Mode = Mode(strings.ToLower(strings.TrimSpace(string(c.Publish.Mode))))
	if c.Publish.Mode == "" {
		c.Publish.Mode = ModeDirect
	}
	c.Publish.BaseURL = strings.TrimRight(strings.TrimSpace(c.Publish.BaseURL), "/")
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

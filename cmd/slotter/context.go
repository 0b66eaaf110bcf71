package main

import (
	"log/slog"
	"strings"
	"sync"

	"slotter/internal/catalog"
	"slotter/internal/config"
	"slotter/internal/logging"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	logger     *slog.Logger
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.logger = logger
	})
	return c.config, c.configErr
}

func (c *commandContext) loggerValue() *slog.Logger {
	if c.logger == nil {
		return logging.NewNop()
	}
	return c.logger
}

// openCatalog opens the scan cache and build history store. Failures are
// logged and tolerated: a build without a catalog just re-probes every
// image and records no history.
func (c *commandContext) openCatalog() *catalog.Store {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil
	}
	store, err := catalog.Open(cfg)
	if err != nil {
		c.loggerValue().Warn("catalog unavailable", logging.Error(err))
		return nil
	}
	return store
}

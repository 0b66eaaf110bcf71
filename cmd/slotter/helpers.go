package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"slotter/internal/build"
	"slotter/internal/config"
	"slotter/internal/keyspace"
)

const roundTo = 10 * time.Millisecond

func slotsFor(width int) int {
	return keyspace.SlotCount(width)
}

func rulesPath(cfg *config.Config) string {
	return filepath.Join(cfg.Paths.OutputDir, build.RulesFileName)
}

// applyOverrides folds per-run flag values into the loaded config and
// re-validates, so overrides obey the same rules as file settings.
func applyOverrides(cfg *config.Config, source, output, mode string) error {
	if source != "" {
		expanded, err := config.ExpandPath(source)
		if err != nil {
			return fmt.Errorf("resolve --source: %w", err)
		}
		cfg.Paths.SourceDir = expanded
	}
	if output != "" {
		expanded, err := config.ExpandPath(output)
		if err != nil {
			return fmt.Errorf("resolve --output: %w", err)
		}
		cfg.Paths.OutputDir = expanded
	}
	if mode != "" {
		cfg.Publish.Mode = config.Mode(strings.ToLower(strings.TrimSpace(mode)))
	}
	if source != "" || output != "" || mode != "" {
		return cfg.Validate()
	}
	return nil
}

package build

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"slotter/internal/catalog"
	"slotter/internal/config"
	"slotter/internal/encode"
	"slotter/internal/inventory"
	"slotter/internal/keyspace"
	"slotter/internal/logging"
	"slotter/internal/materialize"
	"slotter/internal/rules"
)

// ErrNoImages is returned when the scan finds zero classifiable items; the
// CLI maps it to a non-zero exit.
var ErrNoImages = errors.New("no classifiable images found")

// RulesFileName is the rule document written at the output root.
const RulesFileName = "rules.txt"

// Pipeline wires the scanner, converter, and catalog into one runnable
// build.
type Pipeline struct {
	cfg     *config.Config
	logger  *slog.Logger
	scanner *inventory.Scanner
	store   *catalog.Store
}

// Plan is the result of scanning and sizing, before anything is written.
type Plan struct {
	Library *inventory.Library
	Width   int
}

// Summary reports a completed run.
type Summary struct {
	RunID     string
	Width     int
	Mode      config.Mode
	Total     int
	Landscape int
	Portrait  int
	Written   int
	Skipped   int
	Duration  time.Duration
}

// New assembles a pipeline. The catalog store is optional; without it
// every scan re-probes each image and no history is recorded.
func New(cfg *config.Config, logger *slog.Logger, store *catalog.Store) *Pipeline {
	if logger == nil {
		logger = logging.NewNop()
	}

	classifier := inventory.ProbeClassifier()
	if store != nil {
		classifier = catalog.NewCachingClassifier(store, classifier, logger)
	}

	return &Pipeline{
		cfg:     cfg,
		logger:  logging.NewComponentLogger(logger, "build"),
		scanner: inventory.NewScanner(classifier, logger),
		store:   store,
	}
}

// Plan scans the source tree and computes the shared keyspace width. The
// width is derived from final post-scan counts only, never incrementally,
// so skipped files cannot leave the slot space undersized or oversized.
func (p *Pipeline) Plan(ctx context.Context) (*Plan, error) {
	library, err := p.scanner.Scan(ctx, p.cfg.Paths.SourceDir)
	if err != nil {
		return nil, err
	}
	if library.Len() == 0 {
		return nil, fmt.Errorf("%w under %s", ErrNoImages, p.cfg.Paths.SourceDir)
	}

	width := keyspace.Width(library.MaxGroupCount(), p.cfg.Keyspace.MinHexWidth)
	if width == 0 {
		// A zero-width keyspace leaves the router no random digits to draw.
		width = 1
	}
	return &Plan{Library: library, Width: width}, nil
}

// RulesSpec builds the rule-rendering input for a plan. Materialization and
// rule generation share these exact literals.
func (p *Pipeline) RulesSpec(plan *Plan) rules.Spec {
	return rules.Spec{
		Domain:    p.cfg.Publish.Domain,
		BaseURL:   p.cfg.Publish.BaseURL,
		Mode:      p.cfg.Publish.Mode,
		Width:     plan.Width,
		Extension: p.cfg.OutputExtension(),
		Groups:    plan.Library.MaterializedGroups(),
	}
}

// Run executes the full pipeline.
func (p *Pipeline) Run(ctx context.Context) (*Summary, error) {
	runID := uuid.NewString()
	started := time.Now()
	logger := p.logger.With(logging.String("run_id", runID))

	lock := flock.New(filepath.Join(p.cfg.Paths.CacheDir, "build.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire build lock: %w", err)
	}
	if !locked {
		return nil, errors.New("another build is already running against this cache")
	}
	defer func() { _ = lock.Unlock() }()

	plan, err := p.Plan(ctx)
	if err != nil {
		return nil, err
	}
	library := plan.Library
	ext := p.cfg.OutputExtension()

	logger.Info("plan ready",
		logging.Int("total", library.Len()),
		logging.Int("landscape", library.Count(inventory.GroupLandscape)),
		logging.Int("portrait", library.Count(inventory.GroupPortrait)),
		logging.Int("width", plan.Width),
		logging.Int("slots_per_group", keyspace.SlotCount(plan.Width)),
		logging.String("mode", string(p.cfg.Publish.Mode)))

	stagingDir := p.cfg.Paths.OutputDir + ".staging"
	if err := os.RemoveAll(stagingDir); err != nil {
		return nil, fmt.Errorf("clear staging directory: %w", err)
	}
	if err := os.MkdirAll(stagingDir, 0o755); err != nil {
		return nil, fmt.Errorf("create staging directory: %w", err)
	}
	defer func() { _ = os.RemoveAll(stagingDir) }()

	m := materialize.New(encode.New(p.cfg), p.cfg.Build.Workers, logger)
	var result materialize.Result
	switch p.cfg.Publish.Mode {
	case config.ModeIndirect:
		result, err = m.Indirect(ctx, library, stagingDir, plan.Width, ext, p.cfg.Publish.BaseURL)
	default:
		result, err = m.Direct(ctx, library, stagingDir, plan.Width, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("materialize: %w", err)
	}

	ruleText, err := rules.Render(p.RulesSpec(plan))
	if err != nil {
		return nil, fmt.Errorf("render rules: %w", err)
	}
	if err := os.WriteFile(filepath.Join(stagingDir, RulesFileName), []byte(ruleText), 0o644); err != nil {
		return nil, fmt.Errorf("write rules document: %w", err)
	}

	if err := swapOutput(stagingDir, p.cfg.Paths.OutputDir); err != nil {
		return nil, err
	}

	summary := &Summary{
		RunID:     runID,
		Width:     plan.Width,
		Mode:      p.cfg.Publish.Mode,
		Total:     library.Len(),
		Landscape: library.Count(inventory.GroupLandscape),
		Portrait:  library.Count(inventory.GroupPortrait),
		Written:   result.Written,
		Skipped:   result.Skipped,
		Duration:  time.Since(started),
	}

	if p.store != nil {
		record := catalog.BuildRecord{
			RunID:          runID,
			StartedAt:      started,
			FinishedAt:     time.Now(),
			Mode:           string(summary.Mode),
			Width:          summary.Width,
			TotalItems:     summary.Total,
			LandscapeItems: summary.Landscape,
			PortraitItems:  summary.Portrait,
			SlotsWritten:   summary.Written,
			SlotsSkipped:   summary.Skipped,
		}
		if err := p.store.RecordBuild(ctx, record); err != nil {
			logger.Warn("recording build history failed", logging.Error(err))
		}
	}

	logger.Info("build complete",
		logging.Int("written", summary.Written),
		logging.Int("skipped", summary.Skipped),
		logging.Duration("elapsed", summary.Duration))
	return summary, nil
}

// swapOutput replaces the previous output tree with the staged one. The
// previous tree is moved aside rather than deleted until the staged tree is
// in place, so a failed activation restores it and the output directory is
// either fully replaced or left untouched.
func swapOutput(stagingDir, outputDir string) error {
	if err := os.MkdirAll(filepath.Dir(outputDir), 0o755); err != nil {
		return fmt.Errorf("create output parent: %w", err)
	}

	previous := outputDir + ".old"
	if err := os.RemoveAll(previous); err != nil {
		return fmt.Errorf("clear previous-output holding area: %w", err)
	}

	hadPrevious := false
	if _, err := os.Stat(outputDir); err == nil {
		if err := os.Rename(outputDir, previous); err != nil {
			return fmt.Errorf("set aside previous output: %w", err)
		}
		hadPrevious = true
	}

	if err := os.Rename(stagingDir, outputDir); err != nil {
		if hadPrevious {
			_ = os.Rename(previous, outputDir)
		}
		return fmt.Errorf("activate staged output: %w", err)
	}

	if hadPrevious {
		_ = os.RemoveAll(previous)
	}
	return nil
}

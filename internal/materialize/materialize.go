package materialize

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"slotter/internal/encode"
	"slotter/internal/fileutil"
	"slotter/internal/inventory"
	"slotter/internal/keyspace"
	"slotter/internal/logging"
)

// Materializer produces the output tree from a scanned library.
type Materializer struct {
	converter encode.Converter
	logger    *slog.Logger
	workers   int
}

// Result reports what a materialization pass wrote.
type Result struct {
	Written int
	Skipped int
}

// New builds a materializer. workers <= 0 uses one worker per CPU.
func New(converter encode.Converter, workers int, logger *slog.Logger) *Materializer {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Materializer{
		converter: converter,
		logger:    logging.NewComponentLogger(logger, "materialize"),
		workers:   workers,
	}
}

// pointerRecord is the indirect-mode per-slot payload.
type pointerRecord struct {
	URL string `json:"url"`
}

// Direct writes outputRoot/<group>/<hexslot><ext> for every slot of every
// materialized group, invoking the converter once per slot. Group
// directories are fully created before any worker starts.
func (m *Materializer) Direct(ctx context.Context, library *inventory.Library, outputRoot string, width int, ext string) (Result, error) {
	slotCount := keyspace.SlotCount(width)
	groups := library.MaterializedGroups()

	for _, group := range groups {
		if err := os.MkdirAll(filepath.Join(outputRoot, string(group)), 0o755); err != nil {
			return Result{}, fmt.Errorf("create group directory %s: %w", group, err)
		}
	}

	var written, skipped atomic.Int64
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(m.workers)

	for _, group := range groups {
		mapping, err := keyspace.Allocate(library.Handles(group), slotCount)
		if err != nil {
			return Result{}, fmt.Errorf("allocate %s slots: %w", group, err)
		}
		groupDir := filepath.Join(outputRoot, string(group))
		for slot, handle := range mapping {
			target := filepath.Join(groupDir, keyspace.SlotName(slot, width)+ext)
			source := library.Item(handle).SourcePath
			eg.Go(func() error {
				if err := egCtx.Err(); err != nil {
					return err
				}
				if err := m.converter.Convert(egCtx, source, target); err != nil {
					// A failed conversion may have written part of the
					// target; a skipped slot must be absent, not garbage.
					_ = os.Remove(target)
					skipped.Add(1)
					m.logger.Warn("slot conversion failed",
						logging.String("source", source),
						logging.String("target", target),
						logging.Error(err))
					return nil
				}
				written.Add(1)
				return nil
			})
		}
	}

	if err := eg.Wait(); err != nil {
		return Result{}, err
	}
	return Result{Written: int(written.Load()), Skipped: int(skipped.Load())}, nil
}

// Indirect first materializes every item once into the flat artifact store
// under outputRoot/images, assigning each item its content-hashed name,
// then writes outputRoot/<group>/<hexslot>.json pointer records. Name
// assignment completes before any slot record is written, since records
// read the assigned names. Items whose artifacts are byte-identical share
// one name and one stored file.
func (m *Materializer) Indirect(ctx context.Context, library *inventory.Library, outputRoot string, width int, ext, baseURL string) (Result, error) {
	imagesDir := filepath.Join(outputRoot, "images")
	if err := os.MkdirAll(imagesDir, 0o755); err != nil {
		return Result{}, fmt.Errorf("create artifact store: %w", err)
	}

	if err := m.populateStore(ctx, library, imagesDir, ext); err != nil {
		return Result{}, err
	}

	return m.writeRecords(library, outputRoot, width, ext, baseURL)
}

// populateStore converts every item into the flat store. Each worker owns
// a disjoint item, so the name it assigns needs no locking; Wait provides
// the visibility barrier before slot records are rendered.
func (m *Materializer) populateStore(ctx context.Context, library *inventory.Library, imagesDir, ext string) error {
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(m.workers)

	for h := range library.Len() {
		item := library.Item(inventory.Handle(h))
		staged := filepath.Join(imagesDir, fmt.Sprintf(".staged-%d%s", h, ext))
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			if err := m.converter.Convert(egCtx, item.SourcePath, staged); err != nil {
				_ = os.Remove(staged)
				m.logger.Warn("artifact conversion failed",
					logging.String("source", item.SourcePath),
					logging.Error(err))
				return nil
			}
			name, err := fileutil.HashFile(staged)
			if err != nil {
				_ = os.Remove(staged)
				m.logger.Warn("artifact hashing failed",
					logging.String("source", item.SourcePath),
					logging.Error(err))
				return nil
			}
			final := filepath.Join(imagesDir, name+ext)
			if _, statErr := os.Stat(final); statErr == nil {
				// Duplicate content already stored under this name.
				_ = os.Remove(staged)
			} else if err := os.Rename(staged, final); err != nil {
				_ = os.Remove(staged)
				m.logger.Warn("artifact store rename failed",
					logging.String("source", item.SourcePath),
					logging.Error(err))
				return nil
			}
			item.ArtifactName = name
			return nil
		})
	}

	return eg.Wait()
}

func (m *Materializer) writeRecords(library *inventory.Library, outputRoot string, width int, ext, baseURL string) (Result, error) {
	slotCount := keyspace.SlotCount(width)
	result := Result{}

	for _, group := range library.MaterializedGroups() {
		groupDir := filepath.Join(outputRoot, string(group))
		if err := os.MkdirAll(groupDir, 0o755); err != nil {
			return Result{}, fmt.Errorf("create group directory %s: %w", group, err)
		}

		mapping, err := keyspace.Allocate(library.Handles(group), slotCount)
		if err != nil {
			return Result{}, fmt.Errorf("allocate %s slots: %w", group, err)
		}

		for slot, handle := range mapping {
			item := library.Item(handle)
			if item.ArtifactName == "" {
				result.Skipped++
				m.logger.Warn("slot references unmaterialized item",
					logging.String("group", string(group)),
					logging.String("slot", keyspace.SlotName(slot, width)),
					logging.String("source", item.SourcePath))
				continue
			}
			record := pointerRecord{URL: baseURL + "/images/" + item.ArtifactName + ext}
			payload, err := json.Marshal(record)
			if err != nil {
				return Result{}, fmt.Errorf("marshal slot record: %w", err)
			}
			target := filepath.Join(groupDir, keyspace.SlotName(slot, width)+".json")
			if err := os.WriteFile(target, payload, 0o644); err != nil {
				return Result{}, fmt.Errorf("write slot record %s: %w", target, err)
			}
			result.Written++
		}
	}

	return result, nil
}

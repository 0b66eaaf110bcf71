package inventory

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"slotter/internal/imagemeta"
	"slotter/internal/logging"
)

// Classifier reports the orientation of the image at path. Implementations
// wrap header decoding (imagemeta.Probe) or a cache in front of it.
type Classifier interface {
	Classify(ctx context.Context, path string) (imagemeta.Orientation, error)
}

// ClassifierFunc adapts a function to the Classifier interface.
type ClassifierFunc func(ctx context.Context, path string) (imagemeta.Orientation, error)

// Classify calls the wrapped function.
func (f ClassifierFunc) Classify(ctx context.Context, path string) (imagemeta.Orientation, error) {
	return f(ctx, path)
}

// ProbeClassifier classifies by decoding the image header on every call.
func ProbeClassifier() Classifier {
	return ClassifierFunc(func(_ context.Context, path string) (imagemeta.Orientation, error) {
		dims, err := imagemeta.Probe(path)
		if err != nil {
			return "", err
		}
		return dims.Orientation(), nil
	})
}

// imageExtensions is the case-insensitive allow-list applied during a walk.
var imageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".webp": {},
	".bmp":  {},
	".tif":  {},
	".tiff": {},
}

// RecognizedExtension reports whether path carries an allow-listed image
// extension.
func RecognizedExtension(path string) bool {
	_, ok := imageExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Scanner enumerates and classifies a source tree.
type Scanner struct {
	classifier Classifier
	logger     *slog.Logger
}

// NewScanner builds a scanner around the given classifier.
func NewScanner(classifier Classifier, logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Scanner{
		classifier: classifier,
		logger:     logging.NewComponentLogger(logger, "inventory"),
	}
}

// Scan walks root recursively, classifies every allow-listed file, and
// returns the populated library. A missing or unreadable root is fatal;
// a file that fails classification is logged and skipped so one corrupt
// image never aborts the run.
func (s *Scanner) Scan(ctx context.Context, root string) (*Library, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat source directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("source path %s is not a directory", root)
	}

	library := NewLibrary()
	skipped := 0

	walkErr := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if entry.IsDir() || !RecognizedExtension(path) {
			return nil
		}

		orientation, classifyErr := s.classifier.Classify(ctx, path)
		if classifyErr != nil {
			skipped++
			s.logger.Warn("skipping unclassifiable image",
				logging.String("path", path),
				logging.Error(classifyErr))
			return nil
		}

		library.Add(Item{SourcePath: path, Orientation: orientation})
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("walk source directory: %w", walkErr)
	}

	s.logger.Info("scan complete",
		logging.Int("total", library.Len()),
		logging.Int("landscape", library.Count(GroupLandscape)),
		logging.Int("portrait", library.Count(GroupPortrait)),
		logging.Int("skipped", skipped))
	return library, nil
}

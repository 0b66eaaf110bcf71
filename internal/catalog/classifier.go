package catalog

import (
	"context"
	"log/slog"
	"os"

	"slotter/internal/imagemeta"
	"slotter/internal/inventory"
	"slotter/internal/logging"
)

// cachingClassifier consults the catalog before falling back to the wrapped
// classifier. Cache faults are logged and degrade to a plain probe; they
// never fail a scan.
type cachingClassifier struct {
	store  *Store
	inner  inventory.Classifier
	logger *slog.Logger
}

// NewCachingClassifier wraps inner with the store's classification cache.
func NewCachingClassifier(store *Store, inner inventory.Classifier, logger *slog.Logger) inventory.Classifier {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &cachingClassifier{
		store:  store,
		inner:  inner,
		logger: logging.NewComponentLogger(logger, "catalog"),
	}
}

func (c *cachingClassifier) Classify(ctx context.Context, path string) (imagemeta.Orientation, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}

	cached, found, err := c.store.LookupClassification(ctx, path, info.Size(), info.ModTime())
	if err != nil {
		c.logger.Warn("classification cache lookup failed",
			logging.String("path", path),
			logging.Error(err))
	} else if found {
		return imagemeta.Orientation(cached), nil
	}

	orientation, err := c.inner.Classify(ctx, path)
	if err != nil {
		return "", err
	}

	if err := c.store.StoreClassification(ctx, path, info.Size(), info.ModTime(), string(orientation)); err != nil {
		c.logger.Warn("classification cache store failed",
			logging.String("path", path),
			logging.Error(err))
	}
	return orientation, nil
}

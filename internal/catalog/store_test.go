package catalog_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"slotter/internal/catalog"
	"slotter/internal/config"
	"slotter/internal/imagemeta"
	"slotter/internal/inventory"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Paths.CacheDir = t.TempDir()
	cfg.Paths.LogDir = t.TempDir()
	return &cfg
}

func TestClassificationRoundTrip(t *testing.T) {
	store, err := catalog.Open(testConfig(t))
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	modTime := time.Now()

	if _, found, err := store.LookupClassification(ctx, "/img/a.jpg", 100, modTime); err != nil || found {
		t.Fatalf("expected miss on empty cache, found=%v err=%v", found, err)
	}

	if err := store.StoreClassification(ctx, "/img/a.jpg", 100, modTime, "landscape"); err != nil {
		t.Fatalf("StoreClassification: %v", err)
	}

	orientation, found, err := store.LookupClassification(ctx, "/img/a.jpg", 100, modTime)
	if err != nil {
		t.Fatalf("LookupClassification: %v", err)
	}
	if !found || orientation != "landscape" {
		t.Fatalf("expected cached landscape, got %q found=%v", orientation, found)
	}

	// A changed file identity must miss.
	if _, found, _ := store.LookupClassification(ctx, "/img/a.jpg", 101, modTime); found {
		t.Fatal("size change should invalidate the cache entry")
	}
	if _, found, _ := store.LookupClassification(ctx, "/img/a.jpg", 100, modTime.Add(time.Second)); found {
		t.Fatal("mtime change should invalidate the cache entry")
	}
}

func TestStoreClassificationUpsert(t *testing.T) {
	store, err := catalog.Open(testConfig(t))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	ctx := context.Background()
	now := time.Now()
	if err := store.StoreClassification(ctx, "/img/b.jpg", 10, now, "portrait"); err != nil {
		t.Fatal(err)
	}
	later := now.Add(time.Minute)
	if err := store.StoreClassification(ctx, "/img/b.jpg", 12, later, "landscape"); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	orientation, found, err := store.LookupClassification(ctx, "/img/b.jpg", 12, later)
	if err != nil || !found {
		t.Fatalf("expected updated entry, found=%v err=%v", found, err)
	}
	if orientation != "landscape" {
		t.Fatalf("expected landscape after upsert, got %q", orientation)
	}
}

func TestBuildHistory(t *testing.T) {
	store, err := catalog.Open(testConfig(t))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	ctx := context.Background()
	started := time.Now().Add(-time.Minute)
	for i, runID := range []string{"run-one", "run-two"} {
		err := store.RecordBuild(ctx, catalog.BuildRecord{
			RunID:          runID,
			StartedAt:      started,
			FinishedAt:     started.Add(time.Duration(i+1) * time.Second),
			Mode:           "direct",
			Width:          2,
			TotalItems:     13,
			LandscapeItems: 10,
			PortraitItems:  3,
			SlotsWritten:   768,
		})
		if err != nil {
			t.Fatalf("RecordBuild %s: %v", runID, err)
		}
	}

	records, err := store.ListBuilds(ctx, 10)
	if err != nil {
		t.Fatalf("ListBuilds: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].RunID != "run-two" {
		t.Fatalf("expected newest first, got %q", records[0].RunID)
	}
	if records[0].Width != 2 || records[0].LandscapeItems != 10 {
		t.Fatalf("unexpected record contents: %+v", records[0])
	}
}

func TestCachingClassifierAvoidsReprobe(t *testing.T) {
	store, err := catalog.Open(testConfig(t))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	dir := t.TempDir()
	path := filepath.Join(dir, "img.jpg")
	if err := os.WriteFile(path, []byte("stable"), 0o644); err != nil {
		t.Fatal(err)
	}

	calls := 0
	inner := inventory.ClassifierFunc(func(_ context.Context, _ string) (imagemeta.Orientation, error) {
		calls++
		return imagemeta.Portrait, nil
	})

	classifier := catalog.NewCachingClassifier(store, inner, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		orientation, err := classifier.Classify(ctx, path)
		if err != nil {
			t.Fatalf("Classify: %v", err)
		}
		if orientation != imagemeta.Portrait {
			t.Fatalf("unexpected orientation %q", orientation)
		}
	}
	if calls != 1 {
		t.Fatalf("expected a single probe, inner classifier ran %d times", calls)
	}
}

func TestCachingClassifierPropagatesFailure(t *testing.T) {
	store, err := catalog.Open(testConfig(t))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	dir := t.TempDir()
	path := filepath.Join(dir, "bad.jpg")
	if err := os.WriteFile(path, []byte("junk"), 0o644); err != nil {
		t.Fatal(err)
	}

	probeErr := errors.New("undecodable")
	inner := inventory.ClassifierFunc(func(_ context.Context, _ string) (imagemeta.Orientation, error) {
		return "", probeErr
	})

	classifier := catalog.NewCachingClassifier(store, inner, nil)
	if _, err := classifier.Classify(context.Background(), path); !errors.Is(err, probeErr) {
		t.Fatalf("expected probe error to propagate, got %v", err)
	}
}

package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"slotter/internal/config"
)

// schemaVersion is bumped on any schema change; mismatched databases are
// rejected and the user clears the cache file.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database was created by a different
// slotter version.
var ErrSchemaMismatch = errors.New("catalog schema version mismatch")

const schemaSQL = `
CREATE TABLE schema_version (
    version INTEGER NOT NULL
);

CREATE TABLE classifications (
    path          TEXT PRIMARY KEY,
    size          INTEGER NOT NULL,
    mod_time_ns   INTEGER NOT NULL,
    orientation   TEXT NOT NULL,
    classified_at TEXT NOT NULL
);

CREATE TABLE builds (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id          TEXT NOT NULL,
    started_at      TEXT NOT NULL,
    finished_at     TEXT NOT NULL,
    mode            TEXT NOT NULL,
    width           INTEGER NOT NULL,
    total_items     INTEGER NOT NULL,
    landscape_items INTEGER NOT NULL,
    portrait_items  INTEGER NOT NULL,
    slots_written   INTEGER NOT NULL,
    slots_skipped   INTEGER NOT NULL
);
`

// Store manages catalog persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the catalog database under the cache
// directory.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.CacheDir, "catalog.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	err = s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to rebuild the cache)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

// LookupClassification returns the cached orientation for a file with the
// given identity, if any.
func (s *Store) LookupClassification(ctx context.Context, path string, size int64, modTime time.Time) (string, bool, error) {
	var orientation string
	err := s.db.QueryRowContext(ctx,
		"SELECT orientation FROM classifications WHERE path = ? AND size = ? AND mod_time_ns = ?",
		path, size, modTime.UnixNano(),
	).Scan(&orientation)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("lookup classification: %w", err)
	}
	return orientation, true, nil
}

// StoreClassification upserts the orientation for a file identity.
func (s *Store) StoreClassification(ctx context.Context, path string, size int64, modTime time.Time, orientation string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO classifications (path, size, mod_time_ns, orientation, classified_at)
         VALUES (?, ?, ?, ?, ?)
         ON CONFLICT(path) DO UPDATE SET
             size = excluded.size,
             mod_time_ns = excluded.mod_time_ns,
             orientation = excluded.orientation,
             classified_at = excluded.classified_at`,
		path, size, modTime.UnixNano(), orientation, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("store classification: %w", err)
	}
	return nil
}

// BuildRecord is one completed run.
type BuildRecord struct {
	RunID          string
	StartedAt      time.Time
	FinishedAt     time.Time
	Mode           string
	Width          int
	TotalItems     int
	LandscapeItems int
	PortraitItems  int
	SlotsWritten   int
	SlotsSkipped   int
}

// RecordBuild appends a completed run to the history.
func (s *Store) RecordBuild(ctx context.Context, rec BuildRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO builds (
            run_id, started_at, finished_at, mode, width,
            total_items, landscape_items, portrait_items,
            slots_written, slots_skipped
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID,
		rec.StartedAt.UTC().Format(time.RFC3339Nano),
		rec.FinishedAt.UTC().Format(time.RFC3339Nano),
		rec.Mode,
		rec.Width,
		rec.TotalItems,
		rec.LandscapeItems,
		rec.PortraitItems,
		rec.SlotsWritten,
		rec.SlotsSkipped,
	)
	if err != nil {
		return fmt.Errorf("record build: %w", err)
	}
	return nil
}

// ListBuilds returns the most recent builds, newest first.
func (s *Store) ListBuilds(ctx context.Context, limit int) ([]BuildRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, started_at, finished_at, mode, width,
                total_items, landscape_items, portrait_items,
                slots_written, slots_skipped
         FROM builds ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list builds: %w", err)
	}
	defer rows.Close()

	var records []BuildRecord
	for rows.Next() {
		var rec BuildRecord
		var started, finished string
		if err := rows.Scan(
			&rec.RunID, &started, &finished, &rec.Mode, &rec.Width,
			&rec.TotalItems, &rec.LandscapeItems, &rec.PortraitItems,
			&rec.SlotsWritten, &rec.SlotsSkipped,
		); err != nil {
			return nil, fmt.Errorf("scan build row: %w", err)
		}
		if ts, parseErr := time.Parse(time.RFC3339Nano, started); parseErr == nil {
			rec.StartedAt = ts
		}
		if ts, parseErr := time.Parse(time.RFC3339Nano, finished); parseErr == nil {
			rec.FinishedAt = ts
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

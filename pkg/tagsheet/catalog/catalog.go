package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/cognicore/tagsheet/pkg/tagsheet/internalerr"
	"github.com/cognicore/tagsheet/pkg/tagsheet/report"
	"github.com/cognicore/tagsheet/pkg/tagsheet/tagdoc"
)

// Run describes one conversion
type Run struct {
	ID        ulid.ULID
	StartedAt time.Time
	Output    string
	Files     []string
	TagCount  int
}

// NewRun creates a run stamped with a fresh ULID.
func NewRun(startedAt time.Time, output string, files []string) Run {
	return Run{
		ID:        ulid.MustNew(ulid.Timestamp(startedAt), ulid.DefaultEntropy()),
		StartedAt: startedAt,
		Output:    output,
		Files:     files,
	}
}

// Catalog keeps a history of conversion runs in SQLite
type Catalog struct {
	db *sql.DB
}

// Open opens a SQLite catalog with WAL mode enabled and creates the schema.
func Open(ctx context.Context, path string) (*Catalog, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}
	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Catalog{db: db}, nil
}

// Close closes the database connection
func (c *Catalog) Close() error {
	return c.db.Close()
}

func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	started_at TEXT NOT NULL,
	output TEXT NOT NULL,
	files TEXT NOT NULL,
	tag_count INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS tags (
	run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	position INTEGER NOT NULL,
	key TEXT NOT NULL,
	category TEXT NOT NULL,
	PRIMARY KEY (run_id, position),
	UNIQUE (run_id, key)
);

CREATE TABLE IF NOT EXISTS records (
	run_id TEXT NOT NULL,
	tag_position INTEGER NOT NULL,
	position INTEGER NOT NULL,
	what_it_cover TEXT NOT NULL DEFAULT '',
	common_faq TEXT NOT NULL DEFAULT '',
	additional_note TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (run_id, tag_position, position),
	FOREIGN KEY (run_id, tag_position) REFERENCES tags(run_id, position) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_tags_category ON tags(run_id, category);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// SaveRun stores a run and its collection in one transaction.
func (c *Catalog) SaveRun(ctx context.Context, run Run, col *tagdoc.Collection) error {
	files, err := json.Marshal(run.Files)
	if err != nil {
		return err
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, output, files, tag_count) VALUES (?, ?, ?, ?, ?)`,
		run.ID.String(),
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.Output,
		string(files),
		col.Len(),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	tagStmt, err := tx.PrepareContext(ctx, `INSERT INTO tags (run_id, position, key, category) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer tagStmt.Close()

	recStmt, err := tx.PrepareContext(ctx, `
INSERT INTO records (run_id, tag_position, position, what_it_cover, common_faq, additional_note)
VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer recStmt.Close()

	id := run.ID.String()
	for i, key := range col.Keys() {
		if _, err := tagStmt.ExecContext(ctx, id, i, key, report.Category(key)); err != nil {
			return fmt.Errorf("insert tag %q: %w", key, err)
		}
		for j, rec := range col.Records(key) {
			if _, err := recStmt.ExecContext(ctx, id, i, j, rec.WhatItCover, rec.CommonFAQ, rec.AdditionalNote); err != nil {
				return fmt.Errorf("insert record %d of %q: %w", j, key, err)
			}
		}
	}

	return tx.Commit()
}

// LatestRun returns the most recent run. ULIDs sort by time, so the
// greatest id wins.
func (c *Catalog) LatestRun(ctx context.Context) (Run, error) {
	var (
		id, startedAt, output, files string
		run                          Run
	)
	err := c.db.QueryRowContext(ctx,
		`SELECT id, started_at, output, files, tag_count FROM runs ORDER BY id DESC LIMIT 1`,
	).Scan(&id, &startedAt, &output, &files, &run.TagCount)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, internalerr.ErrNotFound
	}
	if err != nil {
		return Run{}, err
	}

	if run.ID, err = ulid.ParseStrict(id); err != nil {
		return Run{}, fmt.Errorf("run id %q: %w", id, err)
	}
	if run.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
		return Run{}, fmt.Errorf("run %s started_at: %w", id, err)
	}
	if err := json.Unmarshal([]byte(files), &run.Files); err != nil {
		return Run{}, fmt.Errorf("run %s files: %w", id, err)
	}
	run.Output = output
	return run, nil
}

// Keys returns the hierarchical keys of a run in document order.
func (c *Catalog) Keys(ctx context.Context, runID ulid.ULID) ([]string, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT key FROM tags WHERE run_id = ? ORDER BY position`, runID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// Records returns the records stored under key for a run, in order.
func (c *Catalog) Records(ctx context.Context, runID ulid.ULID, key string) ([]tagdoc.Record, error) {
	rows, err := c.db.QueryContext(ctx, `
SELECT r.what_it_cover, r.common_faq, r.additional_note
FROM records r
JOIN tags t ON t.run_id = r.run_id AND t.position = r.tag_position
WHERE t.run_id = ? AND t.key = ?
ORDER BY r.position`, runID.String(), key)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []tagdoc.Record
	for rows.Next() {
		var r tagdoc.Record
		if err := rows.Scan(&r.WhatItCover, &r.CommonFAQ, &r.AdditionalNote); err != nil {
			return nil, err
		}
		recs = append(recs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, internalerr.ErrNotFound
	}
	return recs, nil
}

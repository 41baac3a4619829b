package ingest

import (
	"fmt"
	"iter"
	"log"

	"github.com/cognicore/tagsheet/pkg/tagsheet/internalerr"
	"github.com/cognicore/tagsheet/pkg/tagsheet/tagdoc"
)

// Stats counts what an ingestion pass did
type Stats struct {
	FilesRead    int
	FilesSkipped int
	RowsSkipped  int
	Entries      int
}

// Ingestor turns tabular files into (key, record) entries
type Ingestor struct {
	cleaner *Cleaner
	logger  *log.Logger
	stats   Stats
}

// NewIngestor creates an ingestor. A nil cleaner trims only; a nil logger
// writes to the standard logger.
func NewIngestor(cleaner *Cleaner, logger *log.Logger) *Ingestor {
	if cleaner == nil {
		cleaner = NewCleaner(false)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Ingestor{cleaner: cleaner, logger: logger}
}

// Stats returns the counters accumulated so far.
func (g *Ingestor) Stats() Stats {
	return g.stats
}

// Entries lazily loads each file in order and yields its entries.
// Files that cannot be read or lack a main category column are logged and skipped.
func (g *Ingestor) Entries(paths []string) iter.Seq[tagdoc.Entry] {
	return func(yield func(tagdoc.Entry) bool) {
		for _, path := range paths {
			g.logger.Printf("\nProcessing %s...", path)

			t, err := LoadFile(path)
			if err != nil {
				g.logger.Printf("Error reading %s: %v", path, err)
				g.stats.FilesSkipped++
				continue
			}
			if t.SkippedPreamble {
				g.logger.Printf("Detected special format in %s, read past the first %d lines", path, preambleLines)
			}
			g.logger.Printf("Columns in %s: %q", path, t.Headers)

			entries, err := g.TableEntries(t)
			if err != nil {
				g.logger.Printf("Warning: %v", err)
				g.stats.FilesSkipped++
				continue
			}
			g.stats.FilesRead++

			for e := range entries {
				if !yield(e) {
					return
				}
			}
		}
	}
}

// TableEntries resolves the table's columns and returns its entry sequence.
// It fails with ErrMissingColumn when no header maps to the main category.
func (g *Ingestor) TableEntries(t *Table) (iter.Seq[tagdoc.Entry], error) {
	cols := ResolveColumns(t.Headers)
	if !cols.Has(RoleMainCategory) {
		return nil, fmt.Errorf("%s: main category: %w", t.Path, internalerr.ErrMissingColumn)
	}

	return func(yield func(tagdoc.Entry) bool) {
		// last non-empty main category seen in this table
		carry := ""
		for _, row := range t.Rows {
			var (
				e  tagdoc.Entry
				ok bool
			)
			carry, e, ok = g.rowEntry(t.Name, cols, row, carry)
			if !ok {
				g.stats.RowsSkipped++
				continue
			}
			g.stats.Entries++
			if !yield(e) {
				return
			}
		}
	}, nil
}

// rowEntry resolves one row against the carried category and returns the
// updated carry value with the entry, if the row holds any content.
func (g *Ingestor) rowEntry(fallback string, cols Columns, row []string, carry string) (string, tagdoc.Entry, bool) {
	if blankRow(row) {
		return carry, tagdoc.Entry{}, false
	}

	category := g.cleaner.Clean(cols.Value(row, RoleMainCategory))
	feature := g.cleaner.Clean(cols.Value(row, RoleFeature))
	functionality := g.cleaner.Clean(cols.Value(row, RoleFunctionality))

	if category != "" {
		carry = category
	} else if carry != "" {
		category = carry
	}

	if category == "" && feature == "" {
		return carry, tagdoc.Entry{}, false
	}
	if category == "" {
		category = fallback
	}

	rec := tagdoc.Record{
		WhatItCover:    g.cleaner.Clean(cols.Value(row, RoleWhatItCovers)),
		CommonFAQ:      g.cleaner.Clean(cols.Value(row, RoleCommonFAQ)),
		AdditionalNote: g.cleaner.Clean(cols.Value(row, RoleAdditionalNote)),
	}
	if rec.Empty() {
		return carry, tagdoc.Entry{}, false
	}

	return carry, tagdoc.Entry{
		Key:    tagdoc.BuildKey(category, feature, functionality),
		Record: rec,
	}, true
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if !isBlank(cell) {
			return false
		}
	}
	return true
}

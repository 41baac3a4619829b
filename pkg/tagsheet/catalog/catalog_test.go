package catalog

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/cognicore/tagsheet/pkg/tagsheet/internalerr"
	"github.com/cognicore/tagsheet/pkg/tagsheet/tagdoc"
)

func openTemp(t *testing.T) *Catalog {
	t.Helper()
	cat, err := Open(context.Background(), filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { cat.Close() })
	return cat
}

func sampleCollection() *tagdoc.Collection {
	col := tagdoc.NewCollection()
	col.Add("Security > MFA", tagdoc.Record{WhatItCover: "Requires a second factor."})
	col.Add("Billing > Invoices", tagdoc.Record{CommonFAQ: "Where are invoices?"})
	col.Add("Security > MFA", tagdoc.Record{AdditionalNote: "TOTP and WebAuthn"})
	return col
}

func TestLatestRunEmpty(t *testing.T) {
	cat := openTemp(t)

	_, err := cat.LatestRun(context.Background())
	if !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSaveRunAndReadBack(t *testing.T) {
	ctx := context.Background()
	cat := openTemp(t)

	started := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	run := NewRun(started, "tags_output.yml", []string{"Billing.csv", "Security.csv"})
	if err := cat.SaveRun(ctx, run, sampleCollection()); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	latest, err := cat.LatestRun(ctx)
	if err != nil {
		t.Fatalf("LatestRun: %v", err)
	}
	if latest.ID != run.ID {
		t.Errorf("ID = %s, want %s", latest.ID, run.ID)
	}
	if !started.Equal(latest.StartedAt) {
		t.Errorf("StartedAt = %v, want %v", latest.StartedAt, started)
	}
	if latest.Output != "tags_output.yml" {
		t.Errorf("Output = %q", latest.Output)
	}
	if !slices.Equal(latest.Files, []string{"Billing.csv", "Security.csv"}) {
		t.Errorf("Files = %q", latest.Files)
	}
	if latest.TagCount != 2 {
		t.Errorf("TagCount = %d, want 2", latest.TagCount)
	}

	keys, err := cat.Keys(ctx, run.ID)
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	if !slices.Equal(keys, []string{"Security > MFA", "Billing > Invoices"}) {
		t.Errorf("Keys = %q", keys)
	}

	recs, err := cat.Records(ctx, run.ID, "Security > MFA")
	if err != nil {
		t.Fatalf("Records: %v", err)
	}
	want := []tagdoc.Record{
		{WhatItCover: "Requires a second factor."},
		{AdditionalNote: "TOTP and WebAuthn"},
	}
	if !slices.Equal(recs, want) {
		t.Errorf("Records = %+v, want %+v", recs, want)
	}

	if _, err := cat.Records(ctx, run.ID, "Unknown"); !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown key, got %v", err)
	}
}

func TestLatestRunPicksNewest(t *testing.T) {
	ctx := context.Background()
	cat := openTemp(t)

	older := NewRun(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), "old.yml", nil)
	newer := NewRun(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), "new.yml", nil)
	if err := cat.SaveRun(ctx, newer, sampleCollection()); err != nil {
		t.Fatalf("SaveRun newer: %v", err)
	}
	if err := cat.SaveRun(ctx, older, sampleCollection()); err != nil {
		t.Fatalf("SaveRun older: %v", err)
	}

	latest, err := cat.LatestRun(ctx)
	if err != nil {
		t.Fatalf("LatestRun: %v", err)
	}
	if latest.ID != newer.ID || latest.Output != "new.yml" {
		t.Errorf("LatestRun = %+v, want run %s", latest, newer.ID)
	}
}

func TestSaveRunDuplicateID(t *testing.T) {
	ctx := context.Background()
	cat := openTemp(t)

	run := NewRun(time.Now(), "tags_output.yml", nil)
	if err := cat.SaveRun(ctx, run, sampleCollection()); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	if err := cat.SaveRun(ctx, run, sampleCollection()); err == nil {
		t.Error("expected error saving the same run twice")
	}

	keys, err := cat.Keys(ctx, run.ID)
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	if len(keys) != 2 {
		t.Errorf("expected 2 keys after failed duplicate save, got %d", len(keys))
	}
}

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/cognicore/tagsheet/pkg/tagsheet/catalog"
	"github.com/cognicore/tagsheet/pkg/tagsheet/config"
	"github.com/cognicore/tagsheet/pkg/tagsheet/report"
	"github.com/cognicore/tagsheet/pkg/tagsheet/tagdoc"
)

func main() {
	var (
		input  = flag.String("input", config.DefaultOutput, "Generated YAML document")
		dbPath = flag.String("db", "", "Optional: read the latest run from a SQLite catalog instead")
	)
	flag.Parse()

	log.SetFlags(0)

	var (
		summary report.Summary
		err     error
	)
	if *dbPath != "" {
		summary, err = fromCatalog(context.Background(), *dbPath)
	} else {
		summary, err = fromDocument(*input)
	}
	if err != nil {
		log.Fatalf("build report: %v", err)
	}

	if err := summary.Render(os.Stdout); err != nil {
		log.Fatalf("write report: %v", err)
	}
}

func fromDocument(path string) (report.Summary, error) {
	doc, err := tagdoc.ReadFile(path)
	if err != nil {
		return report.Summary{}, fmt.Errorf("read %s: %w", path, err)
	}
	return report.FromDocument(doc), nil
}

func fromCatalog(ctx context.Context, path string) (report.Summary, error) {
	cat, err := catalog.Open(ctx, path)
	if err != nil {
		return report.Summary{}, err
	}
	defer cat.Close()

	run, err := cat.LatestRun(ctx)
	if err != nil {
		return report.Summary{}, fmt.Errorf("latest run: %w", err)
	}
	keys, err := cat.Keys(ctx, run.ID)
	if err != nil {
		return report.Summary{}, fmt.Errorf("run %s keys: %w", run.ID, err)
	}
	return report.FromKeys(keys), nil
}

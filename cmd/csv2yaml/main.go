package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"strings"
	"time"

	"github.com/cognicore/tagsheet/pkg/tagsheet/catalog"
	"github.com/cognicore/tagsheet/pkg/tagsheet/config"
	"github.com/cognicore/tagsheet/pkg/tagsheet/internalerr"
	"github.com/cognicore/tagsheet/pkg/tagsheet/tagdoc"
)

const previewLimit = 5

func main() {
	var (
		configPath = flag.String("config", "", "Optional: YAML config file")
		inputDir   = flag.String("dir", "", "Optional: directory holding the CSV exports (default: current directory)")
		output     = flag.String("out", "", "Optional: output YAML path (default: "+config.DefaultOutput+")")
		dbPath     = flag.String("db", "", "Optional: SQLite catalog recording each run")
	)
	flag.Parse()

	log.SetFlags(0)
	log.SetOutput(os.Stdout)

	loader := config.Loader{
		ConfigPath: *configPath,
		InputDir:   *inputDir,
		Output:     *output,
		Catalog:    *dbPath,
		Logger:     log.Default(),
	}
	components, err := loader.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	log.Println("CSV to YAML Converter with Literal Style")
	log.Println(strings.Repeat("=", 50))

	col, err := convert(context.Background(), components, log.Default())
	if errors.Is(err, internalerr.ErrNoData) {
		log.Println("No data found to convert.")
		return
	}
	if err != nil {
		log.Fatalf("convert: %v", err)
	}

	log.Printf("\nConversion completed successfully!")
	log.Printf("Output file: %s", components.Config.Output)
	printPreview(log.Default(), col.Keys())
}

// convert runs discovery, ingestion and aggregation, writes the YAML
// artifact and, when configured, records the run in the catalog.
func convert(ctx context.Context, comp *config.Components, logger *log.Logger) (*tagdoc.Collection, error) {
	startedAt := time.Now()

	files, err := comp.Config.Discovery().Files()
	if err != nil {
		return nil, err
	}
	logger.Printf("Found %d CSV files to process:", len(files))
	for _, f := range files {
		logger.Printf("  - %s", f)
	}

	col := tagdoc.Collect(comp.Ingestor.Entries(files))
	doc, err := col.Document()
	if err != nil {
		return nil, err
	}
	stats := comp.Ingestor.Stats()
	logger.Printf("\nProcessed %d unique tags (%d entries from %d files, %d files skipped)",
		col.Len(), stats.Entries, stats.FilesRead, stats.FilesSkipped)

	if err := tagdoc.WriteFile(comp.Config.Output, doc, comp.Encoder); err != nil {
		return nil, err
	}
	logger.Printf("\nYAML file saved as: %s", comp.Config.Output)

	if comp.Config.Catalog != "" {
		run := catalog.NewRun(startedAt, comp.Config.Output, files)
		if err := recordRun(ctx, comp.Config.Catalog, run, col); err != nil {
			logger.Printf("Warning: catalog %s: %v", comp.Config.Catalog, err)
		} else {
			logger.Printf("Recorded run %s in %s", run.ID, comp.Config.Catalog)
		}
	}

	return col, nil
}

func recordRun(ctx context.Context, path string, run catalog.Run, col *tagdoc.Collection) error {
	cat, err := catalog.Open(ctx, path)
	if err != nil {
		return err
	}
	defer cat.Close()
	return cat.SaveRun(ctx, run, col)
}

func printPreview(logger *log.Logger, keys []string) {
	logger.Println("\nPreview of generated structure:")
	logger.Println(strings.Repeat("-", 30))
	for i, k := range keys {
		if i == previewLimit {
			logger.Printf("  ... and %d more tags", len(keys)-previewLimit)
			break
		}
		logger.Printf("  - %s", k)
	}
}

package config

import (
	"fmt"
	"log"

	"github.com/cognicore/tagsheet/pkg/tagsheet/ingest"
	"github.com/cognicore/tagsheet/pkg/tagsheet/tagdoc"
)

// Loader loads the configuration file and applies command-line overrides
type Loader struct {
	ConfigPath string
	InputDir   string
	Output     string
	Catalog    string
	Logger     *log.Logger
}

// Components holds everything a conversion run needs
type Components struct {
	Config   Config
	Ingestor *ingest.Ingestor
	Encoder  tagdoc.Encoder
}

// Load reads the configuration (if any), applies overrides and returns initialized components
func (l *Loader) Load() (*Components, error) {
	cfg := Default()
	if l.ConfigPath != "" {
		loaded, err := LoadConfig(l.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = *loaded
	}

	if l.InputDir != "" {
		cfg.InputDir = l.InputDir
	}
	if l.Output != "" {
		cfg.Output = l.Output
	}
	if l.Catalog != "" {
		cfg.Catalog = l.Catalog
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cleaner := ingest.NewCleaner(cfg.StripHTML)
	ing := ingest.NewIngestor(cleaner, l.Logger)

	return &Components{
		Config:   cfg,
		Ingestor: ing,
		Encoder:  tagdoc.Encoder{BlockThreshold: cfg.BlockThreshold},
	}, nil
}

// Discovery returns the file discovery options derived from the configuration.
func (c Config) Discovery() ingest.Discovery {
	return ingest.Discovery{
		Dir:        c.InputDir,
		Extensions: c.Extensions,
		Exclude:    c.Exclude,
	}
}

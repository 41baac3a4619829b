package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/tagsheet/pkg/tagsheet/internalerr"
)

// Default file names used when nothing else is configured.
const (
	DefaultOutput         = "tags_output.yml"
	DefaultExclude        = "github_actions_analysis.csv"
	DefaultBlockThreshold = 80
)

// Config represents the converter configuration file
type Config struct {
	InputDir       string   `yaml:"input_dir"`
	Extensions     []string `yaml:"extensions"`
	Exclude        []string `yaml:"exclude"`
	Output         string   `yaml:"output"`
	BlockThreshold int      `yaml:"block_threshold"`
	StripHTML      bool     `yaml:"strip_html"`
	Catalog        string   `yaml:"catalog"`
}

// Default returns the configuration used for a zero-argument run.
func Default() Config {
	return Config{
		InputDir:       ".",
		Extensions:     []string{".csv"},
		Exclude:        []string{DefaultExclude},
		Output:         DefaultOutput,
		BlockThreshold: DefaultBlockThreshold,
	}
}

// LoadConfig loads a configuration file on top of the defaults.
// Keys missing from the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Output) == "" {
		return fmt.Errorf("%w: output path is empty", internalerr.ErrInvalidConfig)
	}
	if len(c.Extensions) == 0 {
		return fmt.Errorf("%w: no input extensions", internalerr.ErrInvalidConfig)
	}
	for _, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("%w: extension %q must start with a dot", internalerr.ErrInvalidConfig, ext)
		}
	}
	if c.BlockThreshold <= 0 {
		return fmt.Errorf("%w: block_threshold must be positive, got %d", internalerr.ErrInvalidConfig, c.BlockThreshold)
	}
	return nil
}

package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Discovery describes where tabular input files are looked up
type Discovery struct {
	Dir        string
	Extensions []string
	Exclude    []string
}

// Files lists matching files in Dir (non-recursive), sorted by name.
// Hidden files and excluded names are skipped.
func (d Discovery) Files() ([]string, error) {
	dir := d.Dir
	if dir == "" {
		dir = "."
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}

	excluded := make(map[string]struct{}, len(d.Exclude))
	for _, name := range d.Exclude {
		excluded[name] = struct{}{}
	}

	var files []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		if _, skip := excluded[name]; skip {
			continue
		}
		if !d.matchesExt(name) {
			continue
		}
		files = append(files, filepath.Join(dir, name))
	}
	sort.Strings(files)
	return files, nil
}

func (d Discovery) matchesExt(name string) bool {
	ext := filepath.Ext(name)
	for _, want := range d.Extensions {
		if strings.EqualFold(ext, want) {
			return true
		}
	}
	return false
}

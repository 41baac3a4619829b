package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/cognicore/tagsheet/pkg/tagsheet/tagdoc"
)

// Analyzer tallies hierarchical keys by their top-level category.
type Analyzer struct {
	total  int
	counts map[string]int
}

// NewAnalyzer creates an empty analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{counts: make(map[string]int)}
}

// Process counts one hierarchical key.
func (a *Analyzer) Process(key string) {
	a.total++
	a.counts[Category(key)]++
}

// CategoryCount is the number of keys under one top-level category
type CategoryCount struct {
	Category string
	Count    int
}

// Summary is an immutable view of the tallies.
type Summary struct {
	Total      int
	Categories []CategoryCount // sorted by category name
}

// Distinct returns the number of categories represented.
func (s Summary) Distinct() int {
	return len(s.Categories)
}

// Snapshot returns the current tallies.
func (a *Analyzer) Snapshot() Summary {
	s := Summary{
		Total:      a.total,
		Categories: make([]CategoryCount, 0, len(a.counts)),
	}
	for cat, n := range a.counts {
		s.Categories = append(s.Categories, CategoryCount{Category: cat, Count: n})
	}
	sort.Slice(s.Categories, func(i, j int) bool {
		return s.Categories[i].Category < s.Categories[j].Category
	})
	return s
}

// Category returns the first segment of a hierarchical key.
func Category(key string) string {
	cat, _, _ := strings.Cut(key, tagdoc.KeySeparator)
	return cat
}

// FromKeys summarizes a list of hierarchical keys.
func FromKeys(keys []string) Summary {
	a := NewAnalyzer()
	for _, k := range keys {
		a.Process(k)
	}
	return a.Snapshot()
}

// FromDocument summarizes the tags of a generated document.
func FromDocument(d tagdoc.Document) Summary {
	return FromKeys(d.Keys())
}

// Render writes the human-readable report.
func (s Summary) Render(w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Total number of tags: %d\n", s.Total)
	b.WriteString("\nTags breakdown by main category:\n")
	for _, c := range s.Categories {
		fmt.Fprintf(&b, "  %s: %d tags\n", c.Category, c.Count)
	}
	fmt.Fprintf(&b, "\nTotal categories represented: %d\n", s.Distinct())
	_, err := io.WriteString(w, b.String())
	return err
}

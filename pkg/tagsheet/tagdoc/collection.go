package tagdoc

import (
	"iter"

	"github.com/cognicore/tagsheet/pkg/tagsheet/internalerr"
)

// Collection groups records by hierarchical key, remembering the order
// in which keys were first seen.
type Collection struct {
	keys    []string
	records map[string][]Record
}

// NewCollection creates an empty collection
func NewCollection() *Collection {
	return &Collection{records: make(map[string][]Record)}
}

// Collect drains an entry sequence into a new collection.
func Collect(entries iter.Seq[Entry]) *Collection {
	c := NewCollection()
	for e := range entries {
		c.Add(e.Key, e.Record)
	}
	return c
}

// Add appends rec under key. Empty keys and empty records are dropped
// and reported as false.
func (c *Collection) Add(key string, rec Record) bool {
	if key == "" || rec.Empty() {
		return false
	}
	if _, ok := c.records[key]; !ok {
		c.keys = append(c.keys, key)
	}
	c.records[key] = append(c.records[key], rec)
	return true
}

// Len returns the number of distinct keys.
func (c *Collection) Len() int {
	return len(c.keys)
}

// Keys returns keys in first-seen order.
func (c *Collection) Keys() []string {
	out := make([]string, len(c.keys))
	copy(out, c.keys)
	return out
}

// Records returns the records stored under key.
func (c *Collection) Records(key string) []Record {
	return c.records[key]
}

// Document builds the output document. An empty collection yields ErrNoData.
func (c *Collection) Document() (Document, error) {
	if len(c.keys) == 0 {
		return Document{}, internalerr.ErrNoData
	}
	doc := Document{Tags: make([]Tag, 0, len(c.keys))}
	for _, key := range c.keys {
		recs := make([]Record, len(c.records[key]))
		copy(recs, c.records[key])
		doc.Tags = append(doc.Tags, Tag{Key: key, Records: recs})
	}
	return doc, nil
}

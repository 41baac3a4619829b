package tagdoc

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// DefaultBlockThreshold is the longest single-line value still written as a plain scalar.
const DefaultBlockThreshold = 80

// Document is the serialized form: a single "tags" sequence of
// one-key mappings, in first-seen key order.
type Document struct {
	Tags []Tag
}

// Tag is one hierarchical key with all of its records
type Tag struct {
	Key     string
	Records []Record
}

// Keys returns every tag key in document order.
func (d Document) Keys() []string {
	keys := make([]string, len(d.Tags))
	for i, t := range d.Tags {
		keys[i] = t.Key
	}
	return keys
}

// NeedsBlock reports whether a value is written as a block literal:
// it spans lines or is longer than threshold characters.
func NeedsBlock(value string, threshold int) bool {
	return strings.Contains(value, "\n") || utf8.RuneCountInString(value) > threshold
}

// Encoder renders documents as YAML
type Encoder struct {
	BlockThreshold int
}

func (e Encoder) threshold() int {
	if e.BlockThreshold <= 0 {
		return DefaultBlockThreshold
	}
	return e.BlockThreshold
}

// Node builds the YAML tree. Scalars are tagged !!str so values such as
// "42" or "yes" stay strings; mapping order is the document order.
func (e Encoder) Node(d Document) *yaml.Node {
	tags := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for _, t := range d.Tags {
		recs := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, r := range t.Records {
			m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
			for _, f := range r.fields() {
				m.Content = append(m.Content, plain(f.name), e.value(f.value))
			}
			recs.Content = append(recs.Content, m)
		}
		entry := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		entry.Content = append(entry.Content, plain(t.Key), recs)
		tags.Content = append(tags.Content, entry)
	}

	root := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	root.Content = append(root.Content, plain("tags"), tags)
	return &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}}
}

func (e Encoder) value(s string) *yaml.Node {
	n := plain(s)
	if NeedsBlock(s, e.threshold()) {
		n.Style = yaml.LiteralStyle
	}
	return n
}

// yaml11Bools are read as booleans by YAML 1.1 parsers even though
// yaml.v3 resolves them as strings, so they are always quoted.
var yaml11Bools = map[string]bool{
	"y": true, "Y": true, "yes": true, "Yes": true, "YES": true,
	"n": true, "N": true, "no": true, "No": true, "NO": true,
	"on": true, "On": true, "ON": true,
	"off": true, "Off": true, "OFF": true,
}

func plain(s string) *yaml.Node {
	n := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
	if yaml11Bools[s] {
		n.Style = yaml.DoubleQuotedStyle
	}
	return n
}

// Encode writes the document as YAML with two-space indentation.
func (e Encoder) Encode(w io.Writer, d Document) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(e.Node(d)); err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	return enc.Close()
}

// Marshal returns the encoded document.
func (e Encoder) Marshal(d Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := e.Encode(&buf, d); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalYAML reads the "tags" sequence keeping entry order. Entries
// holding several keys contribute one Tag per key.
func (d *Document) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.DocumentNode && len(value.Content) > 0 {
		value = value.Content[0]
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: document must be a mapping", value.Line)
	}

	var tags *yaml.Node
	for i := 0; i+1 < len(value.Content); i += 2 {
		if value.Content[i].Value == "tags" {
			tags = value.Content[i+1]
			break
		}
	}
	if tags == nil {
		return fmt.Errorf("line %d: missing tags field", value.Line)
	}
	if tags.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: tags must be a sequence", tags.Line)
	}

	d.Tags = d.Tags[:0]
	for _, entry := range tags.Content {
		if entry.Kind != yaml.MappingNode {
			return fmt.Errorf("line %d: tag entry must be a mapping", entry.Line)
		}
		for i := 0; i+1 < len(entry.Content); i += 2 {
			var recs []Record
			if err := entry.Content[i+1].Decode(&recs); err != nil {
				return fmt.Errorf("tag %q: %w", entry.Content[i].Value, err)
			}
			d.Tags = append(d.Tags, Tag{Key: entry.Content[i].Value, Records: recs})
		}
	}
	return nil
}

// Decode parses a YAML document.
func Decode(r io.Reader) (Document, error) {
	var d Document
	if err := yaml.NewDecoder(r).Decode(&d); err != nil {
		return Document{}, fmt.Errorf("decode document: %w", err)
	}
	return d, nil
}

// ReadFile loads a document from path.
func ReadFile(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, err
	}
	defer f.Close()
	return Decode(f)
}

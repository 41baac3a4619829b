package report

import (
	"slices"
	"strings"
	"testing"

	"github.com/cognicore/tagsheet/pkg/tagsheet/tagdoc"
)

func TestCategory(t *testing.T) {
	tests := []struct {
		key, want string
	}{
		{"Billing > Invoices > PDF", "Billing"},
		{"Billing", "Billing"},
		{"A>B", "A>B"},
	}
	for _, tt := range tests {
		if got := Category(tt.key); got != tt.want {
			t.Errorf("Category(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestFromKeys(t *testing.T) {
	s := FromKeys([]string{
		"Security > MFA",
		"Billing > Invoices",
		"Security > SSO",
		"Billing",
		"Analytics > Dashboards > Sharing",
	})

	if s.Total != 5 {
		t.Errorf("Total = %d, want 5", s.Total)
	}
	if s.Distinct() != 3 {
		t.Errorf("Distinct() = %d, want 3", s.Distinct())
	}
	want := []CategoryCount{
		{Category: "Analytics", Count: 1},
		{Category: "Billing", Count: 2},
		{Category: "Security", Count: 2},
	}
	if !slices.Equal(s.Categories, want) {
		t.Errorf("Categories = %+v, want %+v", s.Categories, want)
	}

	sum := 0
	for _, c := range s.Categories {
		sum += c.Count
	}
	if sum != s.Total {
		t.Errorf("per-category counts sum to %d, total is %d", sum, s.Total)
	}
}

func TestFromDocumentRoundTrip(t *testing.T) {
	col := tagdoc.NewCollection()
	col.Add("Security > MFA", tagdoc.Record{WhatItCover: "a"})
	col.Add("Security > MFA", tagdoc.Record{WhatItCover: "b"})
	col.Add("Billing > Invoices", tagdoc.Record{CommonFAQ: "c"})
	doc, err := col.Document()
	if err != nil {
		t.Fatalf("Document: %v", err)
	}

	out, err := tagdoc.Encoder{}.Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	decoded, err := tagdoc.Decode(strings.NewReader(string(out)))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	s := FromDocument(decoded)
	if s.Total != len(doc.Tags) {
		t.Errorf("Total = %d, want %d", s.Total, len(doc.Tags))
	}
	if s.Distinct() != 2 {
		t.Errorf("Distinct() = %d, want 2", s.Distinct())
	}
}

func TestRender(t *testing.T) {
	s := FromKeys([]string{"B > x", "A", "B > y"})

	var b strings.Builder
	if err := s.Render(&b); err != nil {
		t.Fatalf("Render: %v", err)
	}

	want := "Total number of tags: 3\n" +
		"\nTags breakdown by main category:\n" +
		"  A: 1 tags\n" +
		"  B: 2 tags\n" +
		"\nTotal categories represented: 2\n"
	if b.String() != want {
		t.Errorf("Render output:\n%s\nwant:\n%s", b.String(), want)
	}
}

func TestEmptySummary(t *testing.T) {
	s := NewAnalyzer().Snapshot()
	if s.Total != 0 || s.Distinct() != 0 {
		t.Errorf("expected empty summary, got %+v", s)
	}
	if s.Categories == nil {
		t.Error("Categories should be an empty slice, not nil")
	}
}

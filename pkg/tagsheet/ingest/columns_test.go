package ingest

import "testing"

func TestMatchRole(t *testing.T) {
	tests := []struct {
		header string
		want   Role
		ok     bool
	}{
		{"Main Category", RoleMainCategory, true},
		{"  main_category ", RoleMainCategory, true},
		{"Feature", RoleFeature, true},
		{"Feature Notes", RoleFeature, true},
		{"Core Functionality", RoleFunctionality, true},
		{"Sub functionality", RoleFunctionality, true},
		{"What does it cover?", RoleWhatItCovers, true},
		{"what_it_cover", RoleWhatItCovers, true},
		{"Common FAQ", RoleCommonFAQ, true},
		{"FAQs", RoleCommonFAQ, true},
		{"Additional Notes", RoleAdditionalNote, true},
		{"Note", RoleAdditionalNote, true},
		{"Owner", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		got, ok := MatchRole(tt.header)
		if ok != tt.ok {
			t.Errorf("MatchRole(%q) ok = %v, want %v", tt.header, ok, tt.ok)
			continue
		}
		if ok && got != tt.want {
			t.Errorf("MatchRole(%q) = %s, want %s", tt.header, got, tt.want)
		}
	}
}

func TestResolveColumnsFirstHeaderWins(t *testing.T) {
	headers := []string{"Main Category", "Feature", "Feature (old)", "Notes", "Additional note"}
	cols := ResolveColumns(headers)

	if got := cols.Header(RoleFeature); got != "Feature" {
		t.Errorf("feature bound to %q, want %q", got, "Feature")
	}
	if got := cols.Header(RoleAdditionalNote); got != "Notes" {
		t.Errorf("note bound to %q, want %q", got, "Notes")
	}
	if cols.Has(RoleCommonFAQ) {
		t.Error("faq should be unbound")
	}
}

func TestResolveColumnsHeaderTakesFirstMatchingRuleOnly(t *testing.T) {
	// "Main Category Feature" resolves to main category and must not
	// also claim the feature role.
	cols := ResolveColumns([]string{"Main Category Feature", "Details"})

	if !cols.Has(RoleMainCategory) {
		t.Fatal("expected main category to be bound")
	}
	if cols.Has(RoleFeature) {
		t.Error("feature should stay unbound")
	}
}

func TestColumnsValue(t *testing.T) {
	cols := ResolveColumns([]string{"Main Category", "Feature", "FAQ"})
	row := []string{"Billing", "Invoices"}

	if got := cols.Value(row, RoleFeature); got != "Invoices" {
		t.Errorf("feature = %q", got)
	}
	if got := cols.Value(row, RoleCommonFAQ); got != "" {
		t.Errorf("short row should yield empty faq, got %q", got)
	}
	if got := cols.Value(row, RoleAdditionalNote); got != "" {
		t.Errorf("unbound role should yield empty value, got %q", got)
	}
}

func TestRoleString(t *testing.T) {
	if RoleWhatItCovers.String() != "what_it_covers" {
		t.Errorf("unexpected name %q", RoleWhatItCovers.String())
	}
	if Role(42).String() != "unknown" {
		t.Errorf("unexpected name %q", Role(42).String())
	}
}

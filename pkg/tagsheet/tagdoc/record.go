package tagdoc

// KeySeparator joins the levels of a hierarchical key
const KeySeparator = " > "

// Record is the descriptive payload attached to one row under a key
type Record struct {
	WhatItCover    string `yaml:"what_it_cover,omitempty"`
	CommonFAQ      string `yaml:"common_faq,omitempty"`
	AdditionalNote string `yaml:"additional_note,omitempty"`
}

// Empty reports whether the record carries no information.
func (r Record) Empty() bool {
	return r.WhatItCover == "" && r.CommonFAQ == "" && r.AdditionalNote == ""
}

type field struct {
	name  string
	value string
}

// fields returns the populated fields in output order.
func (r Record) fields() []field {
	out := make([]field, 0, 3)
	if r.WhatItCover != "" {
		out = append(out, field{"what_it_cover", r.WhatItCover})
	}
	if r.CommonFAQ != "" {
		out = append(out, field{"common_faq", r.CommonFAQ})
	}
	if r.AdditionalNote != "" {
		out = append(out, field{"additional_note", r.AdditionalNote})
	}
	return out
}

// Entry pairs a hierarchical key with one record
type Entry struct {
	Key    string
	Record Record
}

// BuildKey joins category, feature and functionality. Functionality is
// only used when feature is present; empty category yields "".
func BuildKey(category, feature, functionality string) string {
	switch {
	case category == "":
		return ""
	case feature != "" && functionality != "":
		return category + KeySeparator + feature + KeySeparator + functionality
	case feature != "":
		return category + KeySeparator + feature
	default:
		return category
	}
}

package ingest

import "strings"

// Role identifies what a spreadsheet column carries
type Role int

const (
	RoleMainCategory Role = iota
	RoleFeature
	RoleFunctionality
	RoleWhatItCovers
	RoleCommonFAQ
	RoleAdditionalNote
)

var roleNames = [...]string{
	RoleMainCategory:   "main_category",
	RoleFeature:        "feature",
	RoleFunctionality:  "functionality",
	RoleWhatItCovers:   "what_it_covers",
	RoleCommonFAQ:      "common_faq",
	RoleAdditionalNote: "additional_note",
}

func (r Role) String() string {
	if r < 0 || int(r) >= len(roleNames) {
		return "unknown"
	}
	return roleNames[r]
}

// roleRule maps header fragments (lowercase) to a role
type roleRule struct {
	role      Role
	fragments []string
}

// roleRules is evaluated top to bottom; the first rule with a matching
// fragment decides the header's role.
var roleRules = []roleRule{
	{RoleMainCategory, []string{"main category", "main_category"}},
	{RoleFeature, []string{"feature"}},
	{RoleFunctionality, []string{"core functionality", "functionality"}},
	{RoleWhatItCovers, []string{"what does it cover", "what_it_cover"}},
	{RoleCommonFAQ, []string{"common faq", "faq"}},
	{RoleAdditionalNote, []string{"additional note", "note"}},
}

// MatchRole returns the role a header resolves to, if any.
func MatchRole(header string) (Role, bool) {
	h := strings.ToLower(strings.TrimSpace(header))
	for _, rule := range roleRules {
		for _, frag := range rule.fragments {
			if strings.Contains(h, frag) {
				return rule.role, true
			}
		}
	}
	return 0, false
}

// Columns records which header index was bound to each role in one file
type Columns struct {
	headers []string
	index   map[Role]int
}

// ResolveColumns binds each role to the first header that resolves to it.
// A header whose role is already bound is ignored.
func ResolveColumns(headers []string) Columns {
	cols := Columns{
		headers: headers,
		index:   make(map[Role]int),
	}
	for i, h := range headers {
		role, ok := MatchRole(h)
		if !ok {
			continue
		}
		if _, bound := cols.index[role]; bound {
			continue
		}
		cols.index[role] = i
	}
	return cols
}

// Has reports whether a header was bound to the role.
func (c Columns) Has(r Role) bool {
	_, ok := c.index[r]
	return ok
}

// Header returns the header bound to the role, or "".
func (c Columns) Header(r Role) string {
	i, ok := c.index[r]
	if !ok {
		return ""
	}
	return c.headers[i]
}

// Value returns the row's raw cell for the role; unbound roles and short rows yield "".
func (c Columns) Value(row []string, r Role) string {
	i, ok := c.index[r]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

package doctree

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrRaggedTable is returned when a table row does not match its header width.
var ErrRaggedTable = errors.New("table row length does not match header")

// Role tags sections that get special handling during rendering.
type Role int

const (
	RoleGeneric Role = iota
	RoleScopeOfWork
	RoleRegulatoryStandards
	RoleConclusion
)

func (r Role) String() string {
	switch r {
	case RoleScopeOfWork:
		return "scope_of_work"
	case RoleRegulatoryStandards:
		return "regulatory_standards"
	case RoleConclusion:
		return "conclusion"
	}
	return "generic"
}

// RoleForKey derives a section role from its template key or title.
func RoleForKey(key string) Role {
	switch NormalizeKey(key) {
	case "scope_of_work":
		return RoleScopeOfWork
	case "regulatory_standards":
		return RoleRegulatoryStandards
	case "conclusion":
		return RoleConclusion
	}
	return RoleGeneric
}

// Template is a parsed report template: top-level sections by normalized key.
type Template struct {
	Sections map[string]*SectionNode
	Order    []string // declaration order of top-level keys
}

// Lookup finds a top-level section by display name or key.
func (t *Template) Lookup(name string) (*SectionNode, bool) {
	if t == nil {
		return nil, false
	}
	n, ok := t.Sections[NormalizeKey(name)]
	return n, ok
}

// SectionNode is a recursive section in the report template.
type SectionNode struct {
	Key         string
	Title       string // Display title; defaults to the humanized key
	Text        string // Body text with {placeholder} tokens
	Bullets     []string
	Tables      []Table
	Images      []Figure // multi-image form
	Image       *Figure  // single image form
	Graph       *Figure  // single graph form
	Subsections []*SectionNode
	Role        Role
}

// DisplayTitle returns the title, falling back to the humanized key.
func (n *SectionNode) DisplayTitle() string {
	if n.Title != "" {
		return n.Title
	}
	return Humanize(n.Key)
}

// StaticFigures lists the template-declared figures in render order.
func (n *SectionNode) StaticFigures() []Figure {
	figs := make([]Figure, 0, len(n.Images)+2)
	figs = append(figs, n.Images...)
	if n.Image != nil {
		figs = append(figs, *n.Image)
	}
	if n.Graph != nil {
		figs = append(figs, *n.Graph)
	}
	return figs
}

// Table is a titled grid; row 0 is the header.
type Table struct {
	Title string
	Data  [][]string
}

// Header returns row 0, or nil for an empty table.
func (t Table) Header() []string {
	if len(t.Data) == 0 {
		return nil
	}
	return t.Data[0]
}

// Rows returns the data rows after the header.
func (t Table) Rows() [][]string {
	if len(t.Data) < 2 {
		return nil
	}
	return t.Data[1:]
}

// Validate checks that every row has the header's width.
func (t Table) Validate() error {
	if len(t.Data) == 0 {
		return fmt.Errorf("table %q: %w: no header row", t.Title, ErrRaggedTable)
	}
	width := len(t.Data[0])
	for i, row := range t.Data[1:] {
		if len(row) != width {
			return fmt.Errorf("table %q row %d: %w (got %d, want %d)", t.Title, i+1, ErrRaggedTable, len(row), width)
		}
	}
	return nil
}

// Clone returns a deep copy so callers can swap data without touching the template.
func (t Table) Clone() Table {
	out := Table{Title: t.Title, Data: make([][]string, len(t.Data))}
	for i, row := range t.Data {
		out.Data[i] = append([]string(nil), row...)
	}
	return out
}

// Figure is a static image reference from the template.
type Figure struct {
	Path        string
	Description string
}

// NormalizeKey lower-cases a name and joins words with underscores.
func NormalizeKey(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}

// Humanize turns "scope_of_work" into "Scope Of Work".
func Humanize(key string) string {
	words := strings.Fields(strings.ReplaceAll(key, "_", " "))
	for i, w := range words {
		r := []rune(strings.ToLower(w))
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

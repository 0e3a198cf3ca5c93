package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/dgallion1/envreport/internal/config"
	"github.com/dgallion1/envreport/internal/doctree"
)

// rawSection mirrors one template node as it appears in the JSON file.
type rawSection struct {
	Title        string          `json:"title"`
	Text         string          `json:"text"`
	BulletList   []string        `json:"bullet_list"`
	BulletPoints []string        `json:"bullet_points"` // older template revision
	Table        *rawTable       `json:"table"`
	Tables       []rawTable      `json:"tables"`
	Image        json.RawMessage `json:"image"`
	Images       json.RawMessage `json:"images"`
	Graph        json.RawMessage `json:"graph"`
	Subsections  orderedSections `json:"subsections"`
}

type rawTable struct {
	Title string   `json:"title"`
	Data  [][]cell `json:"data"`
}

// cell accepts strings, numbers, booleans and null.
type cell string

func (c *cell) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return err
	}
	switch x := v.(type) {
	case nil:
		*c = ""
	case string:
		*c = cell(x)
	case json.Number:
		*c = cell(x.String())
	case bool:
		*c = cell(strconv.FormatBool(x))
	default:
		return fmt.Errorf("unsupported table cell %s", string(b))
	}
	return nil
}

type namedSection struct {
	key     string
	section rawSection
}

// orderedSections keeps object keys in declaration order.
type orderedSections []namedSection

func (o *orderedSections) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*o = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected object of sections, got %v", tok)
	}
	var out orderedSections
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("expected section key, got %v", keyTok)
		}
		var rs rawSection
		if err := dec.Decode(&rs); err != nil {
			return fmt.Errorf("section %q: %w", key, err)
		}
		out = append(out, namedSection{key: key, section: rs})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*o = out
	return nil
}

// LoadTemplate reads a template file from disk.
func LoadTemplate(path string) (*doctree.Template, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open template: %w", config.ErrConfig, err)
	}
	defer f.Close()
	return ParseTemplate(f)
}

// ParseTemplate decodes a JSON template into a validated section tree.
// Top-level keys are normalized for case-insensitive lookup.
func ParseTemplate(r io.Reader) (*doctree.Template, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: read template: %w", config.ErrConfig, err)
	}
	var top orderedSections
	if err := json.Unmarshal(src, &top); err != nil {
		return nil, fmt.Errorf("%w: parse template: %w", config.ErrConfig, err)
	}

	tmpl := &doctree.Template{Sections: make(map[string]*doctree.SectionNode, len(top))}
	for _, ns := range top {
		node, err := buildNode(ns.key, ns.section)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", config.ErrConfig, err)
		}
		key := doctree.NormalizeKey(ns.key)
		if _, dup := tmpl.Sections[key]; !dup {
			tmpl.Order = append(tmpl.Order, key)
		}
		tmpl.Sections[key] = node
	}
	return tmpl, nil
}

func buildNode(key string, rs rawSection) (*doctree.SectionNode, error) {
	node := &doctree.SectionNode{
		Key:   key,
		Title: rs.Title,
		Text:  rs.Text,
	}
	node.Role = doctree.RoleForKey(key)
	if node.Role == doctree.RoleGeneric && rs.Title != "" {
		node.Role = doctree.RoleForKey(rs.Title)
	}

	node.Bullets = rs.BulletList
	if len(node.Bullets) == 0 {
		node.Bullets = rs.BulletPoints
	}

	// The single-table form wins when both are present.
	var raws []rawTable
	if rs.Table != nil {
		raws = []rawTable{*rs.Table}
	} else {
		raws = rs.Tables
	}
	for i, rt := range raws {
		t := doctree.Table{Title: rt.Title, Data: make([][]string, len(rt.Data))}
		for r, row := range rt.Data {
			t.Data[r] = make([]string, len(row))
			for c, v := range row {
				t.Data[r][c] = string(v)
			}
		}
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("section %q table %d: %w", key, i+1, err)
		}
		node.Tables = append(node.Tables, t)
	}

	var err error
	if node.Images, err = parseFigures(rs.Images); err != nil {
		return nil, fmt.Errorf("section %q images: %w", key, err)
	}
	if node.Image, err = parseFigure(rs.Image); err != nil {
		return nil, fmt.Errorf("section %q image: %w", key, err)
	}
	if node.Graph, err = parseFigure(rs.Graph); err != nil {
		return nil, fmt.Errorf("section %q graph: %w", key, err)
	}

	for _, child := range rs.Subsections {
		sub, err := buildNode(child.key, child.section)
		if err != nil {
			return nil, fmt.Errorf("section %q: %w", key, err)
		}
		node.Subsections = append(node.Subsections, sub)
	}
	return node, nil
}

type rawFigure struct {
	Path        string `json:"path"`
	Description string `json:"description"`
}

// parseFigure accepts "path" or {"path": ..., "description": ...}.
func parseFigure(raw json.RawMessage) (*doctree.Figure, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	var path string
	if err := json.Unmarshal(raw, &path); err == nil {
		if path == "" {
			return nil, nil
		}
		return &doctree.Figure{Path: path}, nil
	}
	var rf rawFigure
	if err := json.Unmarshal(raw, &rf); err != nil {
		return nil, err
	}
	if rf.Path == "" {
		return nil, fmt.Errorf("figure without path")
	}
	return &doctree.Figure{Path: rf.Path, Description: rf.Description}, nil
}

// parseFigures accepts a list of figures or a single figure.
func parseFigures(raw json.RawMessage) ([]doctree.Figure, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	if raw[0] != '[' {
		fig, err := parseFigure(raw)
		if err != nil || fig == nil {
			return nil, err
		}
		return []doctree.Figure{*fig}, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	figs := make([]doctree.Figure, 0, len(items))
	for _, item := range items {
		fig, err := parseFigure(item)
		if err != nil {
			return nil, err
		}
		if fig != nil {
			figs = append(figs, *fig)
		}
	}
	return figs, nil
}

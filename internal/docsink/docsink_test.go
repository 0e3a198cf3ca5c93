package docsink

import (
	"archive/zip"
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"testing"
)

func buildZip(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		if _, err := io.WriteString(w, body); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func readZip(t *testing.T, data []byte) map[string]string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open zip: %v", err)
	}
	out := make(map[string]string)
	for _, f := range zr.File {
		b, err := readZipFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f.Name, err)
		}
		out[f.Name] = string(b)
	}
	return out
}

func TestFinalize_InsertsTOCAndFooter(t *testing.T) {
	src := buildZip(t, map[string]string{
		"[Content_Types].xml":          `<Types xmlns="x"><Default Extension="xml" ContentType="application/xml"/></Types>`,
		"word/_rels/document.xml.rels": `<Relationships xmlns="y"><Relationship Id="rId1" Type="t" Target="styles.xml"/></Relationships>`,
		"word/styles.xml":              `<w:styles xmlns:w="w"><w:style w:type="paragraph" w:styleId="Heading1"/></w:styles>`,
		"word/document.xml": `<w:document xmlns:w="w"><w:body>` +
			`<w:p><w:r><w:t>Intro</w:t></w:r></w:p>` +
			`<w:p><w:pPr><w:jc w:val="left"/></w:pPr><w:r><w:t>` + tocMarker + `</w:t></w:r></w:p>` +
			`<w:p><w:r><w:t>After</w:t></w:r></w:p>` +
			`</w:body></w:document>`,
	})

	out, err := finalize(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	files := readZip(t, out)

	doc := files["word/document.xml"]
	if strings.Contains(doc, tocMarker) {
		t.Error("expected TOC marker to be replaced")
	}
	if !strings.Contains(doc, `TOC \o "1-3" \h \z \u`) {
		t.Error("expected TOC field instruction")
	}
	if !strings.Contains(doc, "Intro") || !strings.Contains(doc, "After") {
		t.Error("expected surrounding paragraphs to survive")
	}
	if !strings.Contains(doc, `<w:sectPr><w:footerReference w:type="default" r:id="rId2"/></w:sectPr></w:body>`) {
		t.Errorf("expected footer reference in new sectPr, got %s", doc)
	}
	if !strings.Contains(doc, `xmlns:r="`+relNS+`"`) {
		t.Error("expected r namespace declaration")
	}
	if !strings.Contains(files[footerPart], " PAGE ") {
		t.Error("expected PAGE field in footer")
	}
	if !strings.Contains(files["word/_rels/document.xml.rels"], `<Relationship Id="rId2" Type="`+footerRel+`" Target="footer1.xml"/>`) {
		t.Errorf("expected footer relationship rId2, got %s", files["word/_rels/document.xml.rels"])
	}
	if !strings.Contains(files["[Content_Types].xml"], "/"+footerPart) {
		t.Error("expected footer content type override")
	}
	styles := files["word/styles.xml"]
	if strings.Count(styles, `w:styleId="Heading1"`) != 1 {
		t.Error("expected existing Heading1 style to be kept, not duplicated")
	}
	for _, id := range []string{"Heading2", "Caption", "ListBullet", "Title"} {
		if !strings.Contains(styles, `w:styleId="`+id+`"`) {
			t.Errorf("expected style %s to be defined", id)
		}
	}
}

func TestRewriteDocument_ExistingSectPr(t *testing.T) {
	doc := `<w:document xmlns:w="w" xmlns:r="r"><w:body><w:p/><w:sectPr w:rsidR="1"><w:pgSz w:w="11906"/></w:sectPr></w:body></w:document>`
	got := string(rewriteDocument([]byte(doc), "rId9"))
	want := `<w:sectPr w:rsidR="1"><w:footerReference w:type="default" r:id="rId9"/><w:pgSz`
	if !strings.Contains(got, want) {
		t.Errorf("expected footer reference first in sectPr, got %s", got)
	}
	if strings.Count(got, "xmlns:r=") != 1 {
		t.Error("expected existing r namespace to be reused")
	}
}

func TestRewriteDocument_SelfClosingSectPr(t *testing.T) {
	doc := `<w:document xmlns:w="w" xmlns:r="r"><w:body><w:sectPr/></w:body></w:document>`
	got := string(rewriteDocument([]byte(doc), "rId3"))
	if !strings.Contains(got, `<w:sectPr><w:footerReference`) || !strings.Contains(got, `</w:sectPr></w:body>`) {
		t.Errorf("expected self-closing sectPr to be expanded, got %s", got)
	}
}

func TestFooterRelID(t *testing.T) {
	tests := []struct {
		name string
		rels string
		want string
	}{
		{"empty", emptyRels, "rId1"},
		{"next free", `<Relationships><Relationship Id="rId1" Target="styles.xml"/><Relationship Id="rId7" Target="media/image1.png"/><Relationship Id="rId3" Target="theme.xml"/></Relationships>`, "rId8"},
		{"existing footer", `<Relationships><Relationship Id="rId1" Target="styles.xml"/><Relationship Id="rId4" Type="f" Target="footer1.xml"/></Relationships>`, "rId4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := footerRelID([]byte(tt.rels)); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestFinalize_WithoutRelationshipsPart(t *testing.T) {
	src := buildZip(t, map[string]string{
		"word/document.xml": `<w:document xmlns:w="w"><w:body><w:p/></w:body></w:document>`,
	})
	out, err := finalize(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	files := readZip(t, out)
	if !strings.Contains(files[relsPart], `Id="rId1"`) || !strings.Contains(files["word/document.xml"], `r:id="rId1"`) {
		t.Errorf("expected footer wired as rId1, got rels %s", files[relsPart])
	}
}

func TestInlineParagraphs(t *testing.T) {
	paras := inlineParagraphs("Levels of **PM10** were *below* limits.\n\nSecond paragraph.")
	if len(paras) != 2 {
		t.Fatalf("expected 2 paragraphs, got %d", len(paras))
	}
	first := paras[0]
	if len(first) != 5 {
		t.Fatalf("expected 5 spans, got %d: %+v", len(first), first)
	}
	if first[1].Text != "PM10" || !first[1].Bold {
		t.Errorf("expected bold PM10, got %+v", first[1])
	}
	if first[3].Text != "below" || !first[3].Italic {
		t.Errorf("expected italic below, got %+v", first[3])
	}
	if paras[1][0].Text != "Second paragraph." {
		t.Errorf("unexpected second paragraph %+v", paras[1])
	}
}

func TestInlineParagraphs_KeepsBodyTextVerbatim(t *testing.T) {
	tests := []string{
		"1. Air quality was measured at ML-01.",
		"# of stations: 5",
		"- Gate",
		"> quoted remark",
		"    indented text",
		"Contractor A*B*C Ltd",
		"CO was 5 * 3 units",
		"`code` and [link](x) stay literal",
	}
	for _, src := range tests {
		paras := inlineParagraphs(src)
		if len(paras) != 1 || len(paras[0]) != 1 {
			t.Errorf("%q: expected one plain span, got %+v", src, paras)
			continue
		}
		got := paras[0][0]
		want := strings.TrimSpace(src)
		if got.Text != want || got.Bold || got.Italic {
			t.Errorf("%q: expected plain %q, got %+v", src, want, got)
		}
	}
}

func TestInlineParagraphs_JoinsLines(t *testing.T) {
	paras := inlineParagraphs("first line\n2. second line\n\n- third")
	if len(paras) != 2 {
		t.Fatalf("expected 2 paragraphs, got %+v", paras)
	}
	if paras[0][0].Text != "first line 2. second line" || paras[1][0].Text != "- third" {
		t.Errorf("unexpected paragraphs %+v", paras)
	}
}

func TestRecorder(t *testing.T) {
	var r Recorder
	r.PageBreak()
	r.Heading("1. Introduction", 1)
	r.Paragraph("text")
	rows := [][]string{{"a", "b"}}
	if err := r.Table(rows); err != nil {
		t.Fatal(err)
	}
	rows[0][0] = "changed"
	if r.Ops[3].Rows[0][0] != "a" {
		t.Error("expected recorder to copy table rows")
	}
	if r.Count(OpHeading) != 1 || r.Headings()[0].Level != 1 {
		t.Error("unexpected heading record")
	}
	if got := r.Texts(OpParagraph); len(got) != 1 || got[0] != "text" {
		t.Errorf("unexpected paragraphs %v", got)
	}
}

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, h/2, color.RGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestScaleToWidth(t *testing.T) {
	scaled, err := scaleToWidth(testPNG(t, 960, 600), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(scaled))
	if err != nil {
		t.Fatalf("decode scaled: %v", err)
	}
	if cfg.Width != 480 || cfg.Height != 300 {
		t.Errorf("expected 480x300, got %dx%d", cfg.Width, cfg.Height)
	}
	if _, err := scaleToWidth([]byte("not an image"), 5); err == nil {
		t.Error("expected decode error")
	}
}

func TestWord_RoundTripOutline(t *testing.T) {
	w := NewWord()
	w.Title("Monthly Monitoring Report")
	w.PageBreak()
	w.TableOfContents()
	w.PageBreak()
	w.Heading("1. Introduction", 1)
	w.Paragraph("Prepared by **Green Fields**.")
	w.Heading("1.1. Background", 2)
	w.Bullet("Ambient Air Quality Monitoring")
	if err := w.Table([][]string{{"Monitoring Location", "Time"}, {"ML-01", "t1"}}); err != nil {
		t.Fatalf("table: %v", err)
	}
	if err := w.Picture(testPNG(t, 200, 100), 2); err != nil {
		t.Fatalf("picture: %v", err)
	}

	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		t.Fatalf("write: %v", err)
	}
	outline, err := Outline(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("outline: %v", err)
	}
	want := []OutlineEntry{{Level: 1, Text: "1. Introduction"}, {Level: 2, Text: "1.1. Background"}}
	if len(outline) != len(want) {
		t.Fatalf("expected %d headings, got %+v", len(want), outline)
	}
	for i := range want {
		if outline[i] != want[i] {
			t.Errorf("heading %d: expected %+v, got %+v", i, want[i], outline[i])
		}
	}
}

func TestWord_TableRejectsRaggedRows(t *testing.T) {
	w := NewWord()
	if err := w.Table([][]string{{"a", "b"}, {"c"}}); err == nil {
		t.Error("expected error for ragged rows")
	}
}

package docsink

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

const tocMarker = "ENVREPORT-TOC-FIELD"

const (
	footerPart   = "word/footer1.xml"
	footerTarget = "footer1.xml"
	footerType   = "application/vnd.openxmlformats-officedocument.wordprocessingml.footer+xml"
	footerRel    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/footer"
	relNS        = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	relsPart     = "word/_rels/document.xml.rels"
)

const emptyRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
	`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`

// relIDPattern matches relationship ids. Readers such as go-docx require the
// numeric rId<N> form.
var relIDPattern = regexp.MustCompile(`Id="rId(\d+)"`)

const tocFieldXML = `<w:p><w:r><w:fldChar w:fldCharType="begin" w:dirty="true"/></w:r>` +
	`<w:r><w:instrText xml:space="preserve"> TOC \o "1-3" \h \z \u </w:instrText></w:r>` +
	`<w:r><w:fldChar w:fldCharType="separate"/></w:r>` +
	`<w:r><w:t>Update this field (F9) to build the table of contents.</w:t></w:r>` +
	`<w:r><w:fldChar w:fldCharType="end"/></w:r></w:p>`

const footerXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
	`<w:ftr xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
	`<w:p><w:pPr><w:jc w:val="center"/></w:pPr>` +
	`<w:r><w:fldChar w:fldCharType="begin"/></w:r>` +
	`<w:r><w:instrText xml:space="preserve"> PAGE </w:instrText></w:r>` +
	`<w:r><w:fldChar w:fldCharType="separate"/></w:r>` +
	`<w:r><w:t>1</w:t></w:r>` +
	`<w:r><w:fldChar w:fldCharType="end"/></w:r></w:p></w:ftr>`

// styleDefs are appended to styles.xml for any style ID it does not define.
var styleDefs = []struct{ id, xml string }{
	{"Title", `<w:style w:type="paragraph" w:styleId="Title"><w:name w:val="Title"/><w:basedOn w:val="Normal"/><w:qFormat/><w:pPr><w:spacing w:after="240"/><w:jc w:val="center"/></w:pPr><w:rPr><w:b/><w:sz w:val="56"/></w:rPr></w:style>`},
	{"Heading1", `<w:style w:type="paragraph" w:styleId="Heading1"><w:name w:val="heading 1"/><w:basedOn w:val="Normal"/><w:next w:val="Normal"/><w:qFormat/><w:pPr><w:keepNext/><w:spacing w:before="360" w:after="120"/><w:outlineLvl w:val="0"/></w:pPr><w:rPr><w:b/><w:sz w:val="32"/></w:rPr></w:style>`},
	{"Heading2", `<w:style w:type="paragraph" w:styleId="Heading2"><w:name w:val="heading 2"/><w:basedOn w:val="Normal"/><w:next w:val="Normal"/><w:qFormat/><w:pPr><w:keepNext/><w:spacing w:before="240" w:after="80"/><w:outlineLvl w:val="1"/></w:pPr><w:rPr><w:b/><w:sz w:val="28"/></w:rPr></w:style>`},
	{"Heading3", `<w:style w:type="paragraph" w:styleId="Heading3"><w:name w:val="heading 3"/><w:basedOn w:val="Normal"/><w:next w:val="Normal"/><w:qFormat/><w:pPr><w:keepNext/><w:spacing w:before="200" w:after="60"/><w:outlineLvl w:val="2"/></w:pPr><w:rPr><w:b/><w:sz w:val="24"/></w:rPr></w:style>`},
	{"Heading4", `<w:style w:type="paragraph" w:styleId="Heading4"><w:name w:val="heading 4"/><w:basedOn w:val="Normal"/><w:next w:val="Normal"/><w:qFormat/><w:pPr><w:keepNext/><w:outlineLvl w:val="3"/></w:pPr><w:rPr><w:b/><w:i/></w:rPr></w:style>`},
	{"Heading5", `<w:style w:type="paragraph" w:styleId="Heading5"><w:name w:val="heading 5"/><w:basedOn w:val="Normal"/><w:next w:val="Normal"/><w:qFormat/><w:pPr><w:keepNext/><w:outlineLvl w:val="4"/></w:pPr><w:rPr><w:i/></w:rPr></w:style>`},
	{"Heading6", `<w:style w:type="paragraph" w:styleId="Heading6"><w:name w:val="heading 6"/><w:basedOn w:val="Normal"/><w:next w:val="Normal"/><w:qFormat/><w:pPr><w:keepNext/><w:outlineLvl w:val="5"/></w:pPr></w:style>`},
	{"Caption", `<w:style w:type="paragraph" w:styleId="Caption"><w:name w:val="caption"/><w:basedOn w:val="Normal"/><w:next w:val="Normal"/><w:qFormat/><w:pPr><w:keepNext/><w:spacing w:before="120" w:after="120"/></w:pPr><w:rPr><w:sz w:val="20"/></w:rPr></w:style>`},
	{"ListBullet", `<w:style w:type="paragraph" w:styleId="ListBullet"><w:name w:val="List Bullet"/><w:basedOn w:val="Normal"/><w:pPr><w:ind w:left="720" w:hanging="360"/></w:pPr></w:style>`},
	{"TOCHeading", `<w:style w:type="paragraph" w:styleId="TOCHeading"><w:name w:val="TOC Heading"/><w:basedOn w:val="Normal"/><w:next w:val="Normal"/><w:pPr><w:spacing w:after="240"/><w:jc w:val="center"/></w:pPr><w:rPr><w:b/><w:sz w:val="40"/></w:rPr></w:style>`},
}

// finalize rewrites a .docx archive: the TOC marker becomes a TOC field, a
// centered PAGE footer is attached to the body section, and missing paragraph
// styles are defined.
func finalize(src []byte) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(src), int64(len(src)))
	if err != nil {
		return nil, fmt.Errorf("open docx archive: %w", err)
	}

	// The footer id must be known before document.xml is rewritten, and the
	// archive order of the two parts is not fixed.
	rels := []byte(emptyRels)
	sawRels := false
	for _, f := range zr.File {
		if f.Name == relsPart {
			if rels, err = readZipFile(f); err != nil {
				return nil, err
			}
			sawRels = true
			break
		}
	}
	relID := footerRelID(rels)

	var out bytes.Buffer
	zw := zip.NewWriter(&out)

	for _, f := range zr.File {
		data, err := readZipFile(f)
		if err != nil {
			return nil, err
		}
		switch f.Name {
		case "word/document.xml":
			data = rewriteDocument(data, relID)
		case relsPart:
			data = addFooterRelationship(data, relID)
		case "[Content_Types].xml":
			data = addFooterContentType(data)
		case "word/styles.xml":
			data = ensureStyles(data)
		case footerPart:
			continue
		}
		if err := writeZipFile(zw, f.Name, data); err != nil {
			return nil, err
		}
	}
	if !sawRels {
		if err := writeZipFile(zw, relsPart, addFooterRelationship(rels, relID)); err != nil {
			return nil, err
		}
	}
	if err := writeZipFile(zw, footerPart, []byte(footerXML)); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close docx archive: %w", err)
	}
	return out.Bytes(), nil
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.Name, err)
	}
	return data, nil
}

func writeZipFile(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate})
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

func rewriteDocument(data []byte, relID string) []byte {
	doc := string(data)
	doc = replaceMarkerParagraph(doc, tocMarker, tocFieldXML)

	// The footer reference uses the r: prefix.
	if !strings.Contains(doc, `xmlns:r="`) {
		if i := strings.Index(doc, "<w:document"); i >= 0 {
			at := i + len("<w:document")
			doc = doc[:at] + ` xmlns:r="` + relNS + `"` + doc[at:]
		}
	}

	ref := `<w:footerReference w:type="default" r:id="` + relID + `"/>`
	if i := strings.LastIndex(doc, "<w:sectPr"); i >= 0 {
		end := strings.Index(doc[i:], ">")
		if end >= 0 {
			end += i
			if doc[end-1] == '/' {
				open := strings.TrimSuffix(doc[i:end], "/")
				doc = doc[:i] + open + ">" + ref + "</w:sectPr>" + doc[end+1:]
			} else {
				doc = doc[:end+1] + ref + doc[end+1:]
			}
		}
	} else if i := strings.LastIndex(doc, "</w:body>"); i >= 0 {
		doc = doc[:i] + "<w:sectPr>" + ref + "</w:sectPr>" + doc[i:]
	}
	return []byte(doc)
}

// replaceMarkerParagraph swaps the whole <w:p> containing marker for repl.
func replaceMarkerParagraph(doc, marker, repl string) string {
	idx := strings.Index(doc, marker)
	if idx < 0 {
		return doc
	}
	start := max(strings.LastIndex(doc[:idx], "<w:p>"), strings.LastIndex(doc[:idx], "<w:p "))
	end := strings.Index(doc[idx:], "</w:p>")
	if start < 0 || end < 0 {
		return doc
	}
	end += idx + len("</w:p>")
	return doc[:start] + repl + doc[end:]
}

// footerRelID returns the id of an existing footer relationship, or the next
// free numeric id.
func footerRelID(rels []byte) string {
	s := string(rels)
	if i := strings.Index(s, `Target="`+footerTarget+`"`); i >= 0 {
		start := strings.LastIndex(s[:i], "<Relationship ")
		if m := relIDPattern.FindStringSubmatch(s[max(start, 0):i]); m != nil {
			return "rId" + m[1]
		}
	}
	next := 1
	for _, m := range relIDPattern.FindAllSubmatch(rels, -1) {
		if n, err := strconv.Atoi(string(m[1])); err == nil && n >= next {
			next = n + 1
		}
	}
	return "rId" + strconv.Itoa(next)
}

func addFooterRelationship(data []byte, relID string) []byte {
	rels := string(data)
	if strings.Contains(rels, `Id="`+relID+`"`) {
		return data
	}
	rel := `<Relationship Id="` + relID + `" Type="` + footerRel + `" Target="` + footerTarget + `"/>`
	if i := strings.LastIndex(rels, "</Relationships>"); i >= 0 {
		rels = rels[:i] + rel + rels[i:]
	}
	return []byte(rels)
}

func addFooterContentType(data []byte) []byte {
	types := string(data)
	if strings.Contains(types, "/"+footerPart) {
		return data
	}
	override := `<Override PartName="/` + footerPart + `" ContentType="` + footerType + `"/>`
	if i := strings.LastIndex(types, "</Types>"); i >= 0 {
		types = types[:i] + override + types[i:]
	}
	return []byte(types)
}

func ensureStyles(data []byte) []byte {
	styles := string(data)
	var missing strings.Builder
	for _, def := range styleDefs {
		if !strings.Contains(styles, `w:styleId="`+def.id+`"`) {
			missing.WriteString(def.xml)
		}
	}
	if missing.Len() == 0 {
		return data
	}
	if i := strings.LastIndex(styles, "</w:styles>"); i >= 0 {
		styles = styles[:i] + missing.String() + styles[i:]
	}
	return []byte(styles)
}

package docsink

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fumiama/go-docx"
	"golang.org/x/image/draw"
)

// Paragraph style IDs. Definitions are added to styles.xml by finalize when
// the base theme lacks them.
const (
	styleTitle   = "Title"
	styleCaption = "Caption"
	styleBullet  = "ListBullet"
	styleTOC     = "TOCHeading"
)

// screenDPI converts display inches to image pixels.
const screenDPI = 96

// Word is a Document backed by fumiama/go-docx.
type Word struct {
	doc *docx.Docx
}

// NewWord returns an empty Word document with the default theme.
func NewWord() *Word {
	return &Word{doc: docx.New().WithDefaultTheme()}
}

func (w *Word) PageBreak() {
	w.doc.AddParagraph().AddPageBreaks()
}

func (w *Word) Heading(text string, level int) {
	if level < 1 {
		level = 1
	}
	if level > 6 {
		level = 6
	}
	w.doc.AddParagraph().Style(fmt.Sprintf("Heading%d", level)).AddText(text)
}

func (w *Word) Title(text string) {
	w.doc.AddParagraph().Style(styleTitle).AddText(text)
}

// Paragraph writes one document paragraph per blank-line separated block.
func (w *Word) Paragraph(text string) {
	for _, spans := range inlineParagraphs(text) {
		para := w.doc.AddParagraph()
		for _, s := range spans {
			run := para.AddText(s.Text)
			if s.Bold {
				run.Bold()
			}
			if s.Italic {
				run.Italic()
			}
		}
	}
}

func (w *Word) Bullet(text string) {
	w.doc.AddParagraph().Style(styleBullet).AddText("•\t" + text)
}

func (w *Word) Caption(text string) {
	w.doc.AddParagraph().Style(styleCaption).AddText(text).Bold()
}

// TableOfContents writes a heading and a marker paragraph that finalize
// replaces with a TOC field.
func (w *Word) TableOfContents() {
	w.doc.AddParagraph().Style(styleTOC).AddText("Table of Contents")
	w.doc.AddParagraph().AddText(tocMarker)
}

func (w *Word) Table(rows [][]string) error {
	if len(rows) == 0 {
		return fmt.Errorf("table has no rows")
	}
	cols := len(rows[0])
	for i, row := range rows {
		if len(row) != cols {
			return fmt.Errorf("table row %d has %d cells, want %d", i, len(row), cols)
		}
	}
	tbl := w.doc.AddTable(len(rows), cols, 0, nil)
	for r, row := range rows {
		for c, cell := range row {
			run := tbl.TableRows[r].TableCells[c].AddParagraph().AddText(cell)
			if r == 0 {
				run.Bold()
			}
		}
	}
	return nil
}

// Picture embeds an image resampled to the display width.
func (w *Word) Picture(img []byte, widthInches float64) error {
	scaled, err := scaleToWidth(img, widthInches)
	if err != nil {
		return err
	}
	if _, err := w.doc.AddParagraph().Justification("center").AddInlineDrawing(scaled); err != nil {
		return fmt.Errorf("add picture: %w", err)
	}
	return nil
}

// WriteTo writes the finished .docx, including the TOC field and the page
// number footer.
func (w *Word) WriteTo(out io.Writer) (int64, error) {
	var buf bytes.Buffer
	if _, err := w.doc.WriteTo(&buf); err != nil {
		return 0, fmt.Errorf("write docx: %w", err)
	}
	final, err := finalize(buf.Bytes())
	if err != nil {
		return 0, err
	}
	n, err := out.Write(final)
	return int64(n), err
}

// Save writes the document to path, replacing any existing file.
func (w *Word) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := w.WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func scaleToWidth(img []byte, widthInches float64) ([]byte, error) {
	src, format, err := image.Decode(bytes.NewReader(img))
	if err != nil {
		return nil, fmt.Errorf("decode picture: %w", err)
	}
	b := src.Bounds()
	target := int(widthInches * screenDPI)
	if widthInches <= 0 || b.Dx() == 0 || (b.Dx() == target && !strings.EqualFold(format, "gif")) {
		return img, nil
	}
	height := b.Dy() * target / b.Dx()
	if height < 1 {
		height = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, target, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("encode picture: %w", err)
	}
	return buf.Bytes(), nil
}

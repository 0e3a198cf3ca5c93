package docsink

// OpKind identifies a recorded sink operation.
type OpKind string

const (
	OpPageBreak OpKind = "page_break"
	OpHeading   OpKind = "heading"
	OpParagraph OpKind = "paragraph"
	OpBullet    OpKind = "bullet"
	OpCaption   OpKind = "caption"
	OpTable     OpKind = "table"
	OpPicture   OpKind = "picture"
	OpTitle     OpKind = "title"
	OpTOC       OpKind = "toc"
)

// Op is one recorded operation.
type Op struct {
	Kind  OpKind
	Text  string
	Level int
	Rows  [][]string
	Bytes int
	Width float64
}

// Recorder is an in-memory Document that keeps every operation. It backs dry
// runs and tests.
type Recorder struct {
	Ops []Op
}

func (r *Recorder) PageBreak() { r.Ops = append(r.Ops, Op{Kind: OpPageBreak}) }

func (r *Recorder) Heading(text string, level int) {
	r.Ops = append(r.Ops, Op{Kind: OpHeading, Text: text, Level: level})
}

func (r *Recorder) Paragraph(text string) { r.Ops = append(r.Ops, Op{Kind: OpParagraph, Text: text}) }
func (r *Recorder) Bullet(text string)    { r.Ops = append(r.Ops, Op{Kind: OpBullet, Text: text}) }
func (r *Recorder) Caption(text string)   { r.Ops = append(r.Ops, Op{Kind: OpCaption, Text: text}) }
func (r *Recorder) Title(text string)     { r.Ops = append(r.Ops, Op{Kind: OpTitle, Text: text}) }
func (r *Recorder) TableOfContents()      { r.Ops = append(r.Ops, Op{Kind: OpTOC}) }

func (r *Recorder) Table(rows [][]string) error {
	cp := make([][]string, len(rows))
	for i, row := range rows {
		cp[i] = append([]string(nil), row...)
	}
	r.Ops = append(r.Ops, Op{Kind: OpTable, Rows: cp})
	return nil
}

func (r *Recorder) Picture(img []byte, widthInches float64) error {
	r.Ops = append(r.Ops, Op{Kind: OpPicture, Bytes: len(img), Width: widthInches})
	return nil
}

// Texts returns the text of every operation of the given kind, in order.
func (r *Recorder) Texts(kind OpKind) []string {
	var out []string
	for _, op := range r.Ops {
		if op.Kind == kind {
			out = append(out, op.Text)
		}
	}
	return out
}

// Count returns how many operations of the given kind were recorded.
func (r *Recorder) Count(kind OpKind) int {
	n := 0
	for _, op := range r.Ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

// Headings returns headings with their levels.
func (r *Recorder) Headings() []Op {
	var out []Op
	for _, op := range r.Ops {
		if op.Kind == OpHeading {
			out = append(out, op)
		}
	}
	return out
}

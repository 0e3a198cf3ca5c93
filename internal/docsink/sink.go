// Package docsink writes report content to a document. Operations are
// append-only and order-preserving.
package docsink

// Sink receives the section renderer's output.
type Sink interface {
	PageBreak()
	Heading(text string, level int)
	Paragraph(text string)
	Bullet(text string)
	Caption(text string)
	Table(rows [][]string) error
	Picture(img []byte, widthInches float64) error
}

// Document is a Sink that also carries the front matter.
type Document interface {
	Sink
	Title(text string)
	TableOfContents()
}

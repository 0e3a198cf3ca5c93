package docsink

import (
	"strings"
	"unicode"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// span is a run of text with emphasis.
type span struct {
	Text   string
	Bold   bool
	Italic bool
}

// md recognizes paragraphs and emphasis only. List, heading, quote and code
// markers in body text are kept as written.
var md = goldmark.New(goldmark.WithParser(parser.NewParser(
	parser.WithBlockParsers(util.Prioritized(parser.NewParagraphParser(), 1000)),
	parser.WithInlineParsers(util.Prioritized(parser.NewEmphasisParser(), 100)),
)))

// literalStar stands in for an asterisk between two letters or digits, which
// is never emphasis in report text ("A*B*C Ltd").
const literalStar = '\uE000'

// inlineParagraphs splits body text on blank lines and resolves **bold** and
// *italic* emphasis into spans.
func inlineParagraphs(src string) [][]span {
	source := []byte(protectIntraword(src))
	doc := md.Parser().Parse(text.NewReader(source))

	var paras [][]span
	for c := doc.FirstChild(); c != nil; c = c.NextSibling() {
		if spans := collectSpans(c, source, false, false); len(spans) > 0 {
			paras = append(paras, spans)
		}
	}
	return paras
}

func protectIntraword(s string) string {
	if !strings.Contains(s, "*") {
		return s
	}
	r := []rune(s)
	for i := 1; i < len(r)-1; i++ {
		if r[i] == '*' && isWordRune(r[i-1]) && isWordRune(r[i+1]) {
			r[i] = literalStar
		}
	}
	return string(r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func restoreStars(s string) string {
	return strings.ReplaceAll(s, string(literalStar), "*")
}

// collectSpans flattens inline children, carrying emphasis down the tree.
func collectSpans(n ast.Node, src []byte, bold, italic bool) []span {
	var out []span
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch node := c.(type) {
		case *ast.Text:
			t := restoreStars(string(node.Value(src)))
			if node.SoftLineBreak() || node.HardLineBreak() {
				t += " "
			}
			out = appendSpan(out, span{Text: t, Bold: bold, Italic: italic})
		case *ast.String:
			out = appendSpan(out, span{Text: restoreStars(string(node.Value)), Bold: bold, Italic: italic})
		case *ast.Emphasis:
			b, i := bold, italic
			if node.Level >= 2 {
				b = true
			} else {
				i = true
			}
			for _, s := range collectSpans(node, src, b, i) {
				out = appendSpan(out, s)
			}
		default:
			for _, s := range collectSpans(node, src, bold, italic) {
				out = appendSpan(out, s)
			}
		}
	}
	return out
}

// appendSpan merges adjacent spans with the same emphasis.
func appendSpan(spans []span, s span) []span {
	if s.Text == "" {
		return spans
	}
	if n := len(spans); n > 0 && spans[n-1].Bold == s.Bold && spans[n-1].Italic == s.Italic {
		spans[n-1].Text += s.Text
		return spans
	}
	return append(spans, s)
}

package parser

import (
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/Kush-Singh-26/folio/builder/models"
)

// Headings deeper than this stay out of the table of contents.
const tocMaxLevel = 4

var (
	tocKey       = parser.NewContextKey()
	d2OrderedKey = parser.NewContextKey()
	ctxKey       = parser.NewContextKey()
)

func GetTOC(pc parser.Context) []models.TOCEntry {
	if v := pc.Get(tocKey); v != nil {
		return v.([]models.TOCEntry)
	}
	return nil
}

// tocTransformer records h2..h4 in document order. The h1 is the post title.
type tocTransformer struct{}

func (t *tocTransformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	source := reader.Source()
	var entries []models.TOCEntry

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		h, ok := n.(*ast.Heading)
		if !ok || h.Level < 2 || h.Level > tocMaxLevel {
			continue
		}
		id, ok := h.AttributeString("id")
		if !ok {
			continue
		}
		idBytes, ok := id.([]byte)
		if !ok {
			continue
		}
		entries = append(entries, models.TOCEntry{
			ID:    string(idBytes),
			Text:  headingText(h, source),
			Level: h.Level,
		})
	}

	pc.Set(tocKey, entries)
}

// headingText joins the text of every descendant, so emphasis and code
// spans read as plain text.
func headingText(h *ast.Heading, source []byte) string {
	var b strings.Builder
	_ = ast.Walk(h, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering && n.Kind() == ast.KindText {
			b.Write(n.(*ast.Text).Segment.Value(source))
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}

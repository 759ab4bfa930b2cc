// Package markdown decides whether markdown page content renders anything visible.
package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/custodia-labs/docbridge/internal/core/ports/driven"
)

// Ensure Inspector implements the interface.
var _ driven.ContentInspector = (*Inspector)(nil)

// Inspector parses page markdown with goldmark.
type Inspector struct {
	md goldmark.Markdown
}

// New creates a new markdown inspector.
func New() *Inspector {
	return &Inspector{md: goldmark.New()}
}

// HasVisibleText reports whether content holds anything an operator wrote:
// text, code, HTML, images or links. Rules and empty headings alone are not
// visible.
func (i *Inspector) HasVisibleText(content string) bool {
	src := []byte(content)
	if len(bytes.TrimSpace(src)) == 0 {
		return false
	}

	doc := i.md.Parser().Parse(text.NewReader(src))

	visible := false
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Text:
			visible = hasText(node.Segment.Value(src))
		case *ast.String:
			visible = hasText(node.Value)
		case *ast.CodeBlock, *ast.FencedCodeBlock:
			visible = linesHaveText(node.Lines(), src)
		case *ast.HTMLBlock:
			visible = linesHaveText(node.Lines(), src) ||
				(node.HasClosure() && hasText(node.ClosureLine.Value(src)))
		case *ast.RawHTML:
			visible = linesHaveText(node.Segments, src)
		case *ast.Image, *ast.Link, *ast.AutoLink:
			visible = true
		}

		if visible {
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	return visible
}

func linesHaveText(lines *text.Segments, src []byte) bool {
	for j := 0; j < lines.Len(); j++ {
		seg := lines.At(j)
		if hasText(seg.Value(src)) {
			return true
		}
	}
	return false
}

func hasText(b []byte) bool {
	return len(bytes.TrimSpace(b)) > 0
}

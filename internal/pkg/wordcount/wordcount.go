// Package wordcount counts words in markdown text. Markup is stripped by
// walking the goldmark AST, then the remaining plain text is split on
// whitespace runs.
package wordcount

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Count returns the number of whitespace-separated tokens in the plain text
// of a markdown document. Empty or whitespace-only input yields 0.
func Count(markdown string) int {
	if strings.TrimSpace(markdown) == "" {
		return 0
	}
	return len(strings.Fields(Plain(markdown)))
}

// Plain extracts the plain text of a markdown document. Inline and block
// HTML is dropped entirely; code block content keeps its text.
func Plain(markdown string) string {
	src := []byte(markdown)
	doc := goldmark.DefaultParser().Parse(text.NewReader(src))

	var b strings.Builder
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := n.(type) {
		case *ast.Text:
			b.Write(v.Segment.Value(src))
			b.WriteByte(' ')
		case *ast.AutoLink:
			b.Write(v.URL(src))
			b.WriteByte(' ')
		case *ast.FencedCodeBlock:
			writeLines(&b, v, src)
		case *ast.CodeBlock:
			writeLines(&b, v, src)
		case *ast.HTMLBlock, *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}

func writeLines(b *strings.Builder, n ast.Node, src []byte) {
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(src))
		b.WriteByte(' ')
	}
}

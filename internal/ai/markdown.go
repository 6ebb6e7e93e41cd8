package ai

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownPlaintext strips markdown structure down to readable text for
// embedding input. Stored chunk content keeps the raw source; only the
// vector is computed from the stripped form, which embeds noticeably better
// for prose-heavy documentation.
func MarkdownPlaintext(markdown string) string {
	source := []byte(markdown)
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(source))

	var parts []string
	for node := doc.FirstChild(); node != nil; node = node.NextSibling() {
		switch n := node.(type) {
		case *ast.FencedCodeBlock:
			var code strings.Builder
			for i := 0; i < n.Lines().Len(); i++ {
				line := n.Lines().At(i)
				code.Write(line.Value(source))
			}
			if s := strings.TrimSpace(code.String()); s != "" {
				parts = append(parts, s)
			}
		default:
			if s := extractText(node, source); s != "" {
				parts = append(parts, s)
			}
		}
	}
	if len(parts) == 0 {
		return strings.TrimSpace(markdown)
	}
	return strings.Join(parts, "\n")
}

func extractText(n ast.Node, source []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if node.Kind() == ast.KindText {
			sb.Write(node.(*ast.Text).Segment.Value(source))
			sb.WriteByte(' ')
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}

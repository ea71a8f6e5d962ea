package module

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// AboutText renders Markdown as a SWORD About value. Blocks become
// paragraphs separated by \par\par, list items are separated by \par and
// inline markup is reduced to its text.
func AboutText(markdown string) string {
	src := []byte(markdown)
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	var paras []string
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if list, ok := n.(*ast.List); ok {
			var items []string
			for item := list.FirstChild(); item != nil; item = item.NextSibling() {
				if t := blockText(item, src); t != "" {
					items = append(items, "- "+t)
				}
			}
			if len(items) > 0 {
				paras = append(paras, strings.Join(items, `\par `))
			}
			continue
		}
		if t := blockText(n, src); t != "" {
			paras = append(paras, t)
		}
	}
	return strings.Join(paras, `\par\par `)
}

// blockText returns the text of a block on one line.
func blockText(n ast.Node, src []byte) string {
	var sb strings.Builder
	writeText(&sb, n, src)
	return strings.Join(strings.Fields(sb.String()), " ")
}

func writeText(sb *strings.Builder, n ast.Node, src []byte) {
	switch node := n.(type) {
	case *ast.Text:
		sb.Write(node.Segment.Value(src))
		if node.SoftLineBreak() || node.HardLineBreak() {
			sb.WriteByte(' ')
		}
		return
	case *ast.String:
		sb.Write(node.Value)
		return
	case *ast.AutoLink:
		sb.Write(node.URL(src))
		return
	case *ast.RawHTML, *ast.HTMLBlock:
		return
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			sb.Write(seg.Value(src))
			sb.WriteByte(' ')
		}
		return
	}

	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if c.Type() == ast.TypeBlock && sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		writeText(sb, c, src)
	}
}

package xml

import (
	"bytes"
	"encoding/xml"
	"strings"

	"github.com/FocuswithJustin/sid/core/encoding"
	"github.com/antchfx/xmlquery"
)

// NewDocument returns an empty document node carrying an
// `<?xml version="1.0" encoding="UTF-8"?>` declaration.
func NewDocument() *xmlquery.Node {
	doc := &xmlquery.Node{Type: xmlquery.DocumentNode}
	decl := &xmlquery.Node{
		Type: xmlquery.DeclarationNode,
		Data: "xml",
		Attr: []xmlquery.Attr{
			{Name: xml.Name{Local: "version"}, Value: "1.0"},
			{Name: xml.Name{Local: "encoding"}, Value: "UTF-8"},
		},
	}
	xmlquery.AddChild(doc, decl)
	return doc
}

// Element creates a detached element. attrs are name/value pairs; a name of
// the form "prefix:local" keeps its prefix (e.g. "xml:lang").
func Element(name string, attrs ...string) *xmlquery.Node {
	n := &xmlquery.Node{Type: xmlquery.ElementNode, Data: name}
	for i := 0; i+1 < len(attrs); i += 2 {
		SetAttr(n, attrs[i], attrs[i+1])
	}
	return n
}

// SubElement creates an element and appends it to parent.
func SubElement(parent *xmlquery.Node, name string, attrs ...string) *xmlquery.Node {
	n := Element(name, attrs...)
	xmlquery.AddChild(parent, n)
	return n
}

// SetAttr appends an attribute to an element.
func SetAttr(n *xmlquery.Node, name, value string) {
	attr := xmlquery.Attr{Name: xml.Name{Local: name}, Value: value}
	for i := 0; i < len(name); i++ {
		if name[i] == ':' {
			attr.Name = xml.Name{Space: name[:i], Local: name[i+1:]}
			break
		}
	}
	n.Attr = append(n.Attr, attr)
}

// SetText appends a text node to n. Text is stored raw and escaped on render.
func SetText(n *xmlquery.Node, text string) {
	xmlquery.AddChild(n, &xmlquery.Node{Type: xmlquery.TextNode, Data: text})
}

// Render pretty-prints a tree, one element per line, indenting each level
// by indent ("  " when empty). An element holding only text keeps that text
// verbatim on its own line; whitespace-only text is dropped.
func Render(root *xmlquery.Node, indent string) []byte {
	if indent == "" {
		indent = "  "
	}
	p := &printer{indent: indent}
	p.node(root, 0)
	return p.buf.Bytes()
}

type printer struct {
	buf    bytes.Buffer
	indent string
}

func (p *printer) node(n *xmlquery.Node, depth int) {
	switch n.Type {
	case xmlquery.DocumentNode:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			p.node(c, depth)
		}
	case xmlquery.DeclarationNode:
		p.buf.WriteString("<?xml")
		p.attrs(n.Attr)
		p.buf.WriteString("?>\n")
	case xmlquery.ElementNode:
		p.element(n, depth)
	case xmlquery.TextNode:
		if text := strings.TrimSpace(n.Data); text != "" {
			p.buf.WriteString(encoding.EscapeXMLText(text))
		}
	case xmlquery.CommentNode:
		p.pad(depth)
		p.buf.WriteString("<!--" + n.Data + "-->\n")
	}
}

func (p *printer) element(n *xmlquery.Node, depth int) {
	p.pad(depth)
	p.buf.WriteByte('<')
	p.name(n.Prefix, n.Data)
	p.attrs(n.Attr)
	if n.FirstChild == nil {
		p.buf.WriteString("/>\n")
		return
	}
	p.buf.WriteByte('>')

	block := hasElementChild(n)
	if block {
		p.buf.WriteByte('\n')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case xmlquery.ElementNode, xmlquery.CommentNode:
			p.node(c, depth+1)
		case xmlquery.TextNode:
			if strings.TrimSpace(c.Data) == "" {
				continue
			}
			if block {
				p.pad(depth + 1)
			}
			p.buf.WriteString(encoding.EscapeXMLText(c.Data))
			if block {
				p.buf.WriteByte('\n')
			}
		case xmlquery.CharDataNode:
			p.buf.WriteString("<![CDATA[" + c.Data + "]]>")
		}
	}
	if block {
		p.pad(depth)
	}
	p.buf.WriteString("</")
	p.name(n.Prefix, n.Data)
	p.buf.WriteString(">\n")
}

func (p *printer) attrs(attrs []xmlquery.Attr) {
	for _, a := range attrs {
		p.buf.WriteByte(' ')
		p.name(a.Name.Space, a.Name.Local)
		p.buf.WriteString(`="`)
		p.buf.WriteString(encoding.EscapeXMLAttr(a.Value))
		p.buf.WriteByte('"')
	}
}

func (p *printer) name(prefix, local string) {
	if prefix != "" {
		p.buf.WriteString(prefix)
		p.buf.WriteByte(':')
	}
	p.buf.WriteString(local)
}

func (p *printer) pad(depth int) {
	p.buf.WriteString(strings.Repeat(p.indent, depth))
}

func hasElementChild(n *xmlquery.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode {
			return true
		}
	}
	return false
}

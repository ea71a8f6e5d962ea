// Package encoding escapes text for the XML and .conf files sid writes.
package encoding

import "strings"

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	lineJoiner  = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")
)

// EscapeXMLText escapes &, < and > in element text. Quotes and newlines
// pass through, so placeholder markers survive pretty-printing unchanged.
func EscapeXMLText(s string) string {
	return textEscaper.Replace(s)
}

// EscapeXMLAttr escapes a double-quoted attribute value.
func EscapeXMLAttr(s string) string {
	return attrEscaper.Replace(s)
}

// EscapeConf flattens s to one trimmed line for a .conf value.
func EscapeConf(s string) string {
	return strings.TrimSpace(lineJoiner.Replace(s))
}

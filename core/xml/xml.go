// Package xml builds, checks, queries and pretty-prints the OSIS documents
// sid writes, on top of xmlquery and xpath.
package xml

import (
	"bytes"
	"encoding/xml"
	stderrors "errors"
	"fmt"
	"io"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
)

// SyntaxError is a well-formedness problem found by Check.
type SyntaxError struct {
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// Check returns the first well-formedness problem in data as a
// *SyntaxError, or nil. Only the five predefined entities are accepted;
// nothing is expanded or fetched.
func Check(data []byte) error {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Entity = map[string]string{}

	for {
		_, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			se := &SyntaxError{Line: 1, Msg: err.Error()}
			var xe *xml.SyntaxError
			if stderrors.As(err, &xe) {
				se.Line = xe.Line
			}
			return se
		}
	}
}

// Document is a parsed XML document.
type Document struct {
	root *xmlquery.Node
}

// Parse parses data into a queryable document.
func Parse(data []byte) (*Document, error) {
	root, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing XML: %w", err)
	}
	return &Document{root: root}, nil
}

// Select returns the nodes matching expr in document order.
func (d *Document) Select(expr string) ([]*xmlquery.Node, error) {
	q, err := compile(expr)
	if err != nil {
		return nil, err
	}
	return xmlquery.QuerySelectorAll(d.root, q), nil
}

// SelectOne returns the first node matching expr, or nil.
func (d *Document) SelectOne(expr string) (*xmlquery.Node, error) {
	q, err := compile(expr)
	if err != nil {
		return nil, err
	}
	return xmlquery.QuerySelector(d.root, q), nil
}

// Count evaluates expr to a number. Numeric expressions such as
// "count(//verse)" give their value; node-set expressions give the number
// of nodes matched.
func (d *Document) Count(expr string) (int, error) {
	q, err := compile(expr)
	if err != nil {
		return 0, err
	}

	switch v := q.Evaluate(xmlquery.CreateXPathNavigator(d.root)).(type) {
	case float64:
		return int(v), nil
	case *xpath.NodeIterator:
		n := 0
		for v.MoveNext() {
			n++
		}
		return n, nil
	default:
		return 0, fmt.Errorf("xpath %q did not evaluate to a number or node-set", expr)
	}
}

func compile(expr string) (*xpath.Expr, error) {
	q, err := xpath.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid xpath %q: %w", expr, err)
	}
	return q, nil
}

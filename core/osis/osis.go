// Package osis serializes chapter documents into OSIS XML.
//
// Serialization is three passes over one run: the document tree is built and
// pretty-printed, then cross-reference placeholders and finally footnote
// placeholders are expanded in the printed text. Placeholders ride through
// the printer as plain text, so the printed layout never changes around a
// note.
package osis

import (
	"math"
	"strconv"
	"strings"

	"github.com/FocuswithJustin/sid/core/booknames"
	"github.com/FocuswithJustin/sid/core/errors"
	"github.com/FocuswithJustin/sid/core/ir"
	sidxml "github.com/FocuswithJustin/sid/core/xml"
	"github.com/antchfx/xmlquery"
)

// Namespace is the OSIS 2.x XML namespace.
const Namespace = "http://www.bibletechnologies.net/2003/OSIS/namespace"

// Indent is the indentation used when printing the document.
const Indent = "  "

// poetryIndent is the number of leading spaces per poetry level.
const poetryIndent = 4

// Serialize renders an ordered sequence of chapter documents as one OSIS
// document. An unknown book name anywhere aborts the whole run.
func Serialize(docs []ir.ChapterDocument, work ir.Work) (string, error) {
	root, err := BuildTree(docs, work)
	if err != nil {
		return "", err
	}

	text := string(sidxml.Render(root, Indent))

	text, _, err = ExpandCrossRefs(text, NewExpanderState())
	if err != nil {
		return "", err
	}
	text, _, err = ExpandFootnotes(text, NewFootnoteState())
	if err != nil {
		return "", err
	}
	return text, nil
}

// BuildTree assembles the OSIS element tree without expanding placeholders.
func BuildTree(docs []ir.ChapterDocument, work ir.Work) (*xmlquery.Node, error) {
	title := work.Title
	if title == "" {
		title = work.ID
	}

	doc := sidxml.NewDocument()
	osis := sidxml.SubElement(doc, "osis", "xmlns", Namespace)

	textAttrs := []string{"osisIDWork", work.ID, "osisRefWork", "Bible"}
	if work.Language != "" {
		textAttrs = append(textAttrs, "xml:lang", work.Language)
	}
	osisText := sidxml.SubElement(osis, "osisText", textAttrs...)

	header := sidxml.SubElement(osisText, "header")
	w := sidxml.SubElement(header, "work", "osisWork", work.ID)
	sidxml.SetText(sidxml.SubElement(w, "title"), title)

	var bookDiv *xmlquery.Node
	prevBook := ""
	for i := range docs {
		d := &docs[i]

		code, err := booknames.ToOSIS(d.Book)
		if err != nil {
			return nil, errors.Wrapf(err, "%s %d", d.Book, d.Chapter)
		}

		if bookDiv == nil || d.Book != prevBook {
			bookDiv = sidxml.SubElement(osisText, "div", "type", "book", "osisID", code)
			prevBook = d.Book
		}

		writeChapter(bookDiv, code, d)
	}

	return doc, nil
}

// writeChapter appends one chapter element. Section state does not carry
// over between chapters.
func writeChapter(bookDiv *xmlquery.Node, code string, d *ir.ChapterDocument) {
	chapterID := code + "." + strconv.Itoa(d.Chapter)
	chapter := sidxml.SubElement(bookDiv, "chapter", "osisID", chapterID)

	var section *xmlquery.Node
	openSection := func() {
		section = sidxml.SubElement(chapter, "div", "type", "section")
	}

	for _, item := range d.Content {
		switch item.Kind {
		case ir.KindSectionBreak:
			openSection()

		case ir.KindHeading:
			if item.Level == ir.HeadingChapter {
				title := sidxml.SubElement(chapter, "title", "type", "chapter")
				sidxml.SetText(title, strings.TrimSpace(item.Text))
				openSection()
				continue
			}
			if section == nil {
				openSection()
			}
			title := sidxml.SubElement(section, "title", "type", "section")
			sidxml.SetText(title, strings.TrimSpace(item.Text))

		case ir.KindVerse:
			if section == nil {
				openSection()
			}
			if strings.TrimSpace(item.Text) == "" {
				continue
			}
			verse := sidxml.SubElement(section, "verse", "osisID", chapterID+"."+strings.TrimSpace(item.Number))
			writeVerseText(verse, item.Text)
		}
	}
}

// VerseElements returns the number of verse elements BuildTree emits for
// docs. Verses with blank text are skipped.
func VerseElements(docs []ir.ChapterDocument) int {
	n := 0
	for i := range docs {
		for _, item := range docs[i].Content {
			if item.Kind == ir.KindVerse && strings.TrimSpace(item.Text) != "" {
				n++
			}
		}
	}
	return n
}

// writeVerseText stores plain text directly and multi-line text as one line
// group with a poetry line per non-blank line.
func writeVerseText(verse *xmlquery.Node, text string) {
	if !strings.Contains(text, "\n") {
		sidxml.SetText(verse, strings.TrimLeft(text, " \t\r"))
		return
	}

	lg := sidxml.SubElement(verse, "lg")
	for _, line := range strings.Split(strings.TrimLeft(text, "\n"), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		l := sidxml.SubElement(lg, "l", "level", strconv.Itoa(PoetryLevel(line)))
		sidxml.SetText(l, strings.TrimSpace(line))
	}
}

// PoetryLevel returns the indentation level of a poetry line: its leading
// spaces divided by four, rounded up.
func PoetryLevel(line string) int {
	spaces := len(line) - len(strings.TrimLeft(line, " "))
	return int(math.Ceil(float64(spaces) / poetryIndent))
}

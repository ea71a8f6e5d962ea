// Package ir provides the chapter-level document model that every text
// source produces and the OSIS serializer consumes.
//
// # Core Types
//
// The model is deliberately flat:
//
//   - Corpus: one bible version, its work metadata and its chapters
//   - ChapterDocument: the content of one (book, chapter) pair
//   - ContentItem: a section break, a heading or a verse
//
// Documents are immutable once handed to the serializer. The serializer
// only reads them.
//
// # Inline Placeholders
//
// Verse text may carry two inline placeholder forms that survive XML
// pretty-printing unchanged and are expanded into OSIS notes afterwards:
//
//	|||book|chapter|note text|||
//	|[|book|chapter|verse|ref1,ref2|]|
//
// ParseSpans splits a verse text into plain text and placeholder spans and
// rejects unpaired or nested markers.
//
// # Legacy Markers
//
// Older sources encode content items as bare strings and pairs:
//
//	"---"            section break
//	"## Title"       chapter heading (level 2)
//	"### Title"      section heading (level 3)
//	"#### Title"     section heading (level 4)
//	["1", "text"]    verse
//
// The JSON codec accepts these on input so the marker sniffing happens once,
// at ingestion. Output is always the typed object form.
//
// # Example
//
//	doc := ir.ChapterDocument{
//	    Book:    "Genesis",
//	    Chapter: 1,
//	    Content: []ir.ContentItem{
//	        ir.SectionBreak(),
//	        ir.Verse("1", "In the beginning"),
//	    },
//	}
package ir

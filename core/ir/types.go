package ir

// Kind discriminates the variants of ContentItem.
type Kind string

// Content item kinds.
const (
	KindSectionBreak Kind = "section"
	KindHeading      Kind = "heading"
	KindVerse        Kind = "verse"
)

// validKinds is the set of valid content item kinds.
var validKinds = map[Kind]bool{
	KindSectionBreak: true,
	KindHeading:      true,
	KindVerse:        true,
}

// IsValid returns true if the kind is one of the known variants.
func (k Kind) IsValid() bool {
	return validKinds[k]
}

// Heading levels. Level 2 titles the chapter; 3 and 4 title a section.
const (
	HeadingChapter    = 2
	HeadingSection    = 3
	HeadingSubsection = 4
)

// ContentItem is one element of a chapter's content: a section break, a
// heading or a verse. Only the fields belonging to Kind are meaningful.
type ContentItem struct {
	// Kind selects the variant.
	Kind Kind `json:"kind"`

	// Level is the heading level (2..4). Headings only.
	Level int `json:"level,omitempty"`

	// Number is the verse number as written by the source (e.g. "1").
	// Verses only.
	Number string `json:"number,omitempty"`

	// Text is the heading text or the verse text. Verse text may contain
	// newlines (poetry) and inline placeholders.
	Text string `json:"text,omitempty"`
}

// SectionBreak returns a content item that starts a new literary section.
func SectionBreak() ContentItem {
	return ContentItem{Kind: KindSectionBreak}
}

// Heading returns a heading item of the given level.
func Heading(level int, text string) ContentItem {
	return ContentItem{Kind: KindHeading, Level: level, Text: text}
}

// Verse returns a verse item.
func Verse(number, text string) ContentItem {
	return ContentItem{Kind: KindVerse, Number: number, Text: text}
}

// ChapterDocument is the content of one (book, chapter) pair.
type ChapterDocument struct {
	// Book is the English book name (e.g. "Genesis", "1 Samuel").
	Book string `json:"book"`

	// Chapter is the 1-based chapter number.
	Chapter int `json:"chapter"`

	// Content is the ordered chapter content.
	Content []ContentItem `json:"content"`
}

// VerseCount returns the number of verse items in the chapter, blank
// verses included.
func (d *ChapterDocument) VerseCount() int {
	n := 0
	for _, item := range d.Content {
		if item.Kind == KindVerse {
			n++
		}
	}
	return n
}

// Work describes the bible version a corpus belongs to.
type Work struct {
	// ID is the work identifier, also used as the SWORD module name
	// (e.g. "KJV").
	ID string `json:"id"`

	// Title is the human-readable title. Defaults to ID when empty.
	Title string `json:"title,omitempty"`

	// Language is the BCP-47 language tag (e.g. "en").
	Language string `json:"language,omitempty"`

	// Description is a one-line description of the version.
	Description string `json:"description,omitempty"`

	// Source names where the text came from.
	Source string `json:"source,omitempty"`

	// Versification is the versification system (e.g. "KJV").
	Versification string `json:"versification,omitempty"`
}

// Corpus is the ordered collection of chapter documents that make up one
// bible version, together with its work metadata.
type Corpus struct {
	Work Work `json:"info"`

	// Documents are in canonical book/chapter order.
	Documents []ChapterDocument `json:"chapters"`
}

// Books returns the distinct book names in document order.
func (c *Corpus) Books() []string {
	var books []string
	prev := ""
	for _, d := range c.Documents {
		if d.Book != prev {
			books = append(books, d.Book)
			prev = d.Book
		}
	}
	return books
}

// VerseCount returns the number of verse items across all documents.
func (c *Corpus) VerseCount() int {
	n := 0
	for i := range c.Documents {
		n += c.Documents[i].VerseCount()
	}
	return n
}

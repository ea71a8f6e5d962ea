package ir

import (
	"fmt"
	"strings"

	"github.com/FocuswithJustin/sid/core/booknames"
	"github.com/FocuswithJustin/sid/core/errors"
)

// validateDocumentFn is injectable for testing error type handling.
var validateDocumentFn = ValidateDocument

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path    string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return errors.ErrInvalidInput
}

// newValidationError creates a new ValidationError.
func newValidationError(path, message string) error {
	return &ValidationError{Path: path, Message: message}
}

// Validate checks an ordered sequence of chapter documents and returns all
// problems found. A book must form one contiguous run of documents.
func Validate(docs []ChapterDocument) []error {
	var errs []error

	seen := make(map[string]bool)
	prev := ""
	for i := range docs {
		doc := &docs[i]
		errs = append(errs, validateDocumentFn(doc)...)

		if doc.Book != prev {
			if seen[doc.Book] {
				errs = append(errs, newValidationError(docPath(doc),
					fmt.Sprintf("book %q appears again after %q", doc.Book, prev)))
			}
			seen[doc.Book] = true
			prev = doc.Book
		}
	}

	return errs
}

// ValidateCorpus validates a corpus and its documents.
func ValidateCorpus(c *Corpus) []error {
	var errs []error

	if strings.TrimSpace(c.Work.ID) == "" {
		errs = append(errs, newValidationError("info", "work ID is required"))
	}
	if len(c.Documents) == 0 {
		errs = append(errs, newValidationError("chapters", "corpus has no chapters"))
	}

	return append(errs, Validate(c.Documents)...)
}

// ValidateDocument validates a single chapter document.
func ValidateDocument(doc *ChapterDocument) []error {
	var errs []error
	path := docPath(doc)

	chapters, err := booknames.ChapterCount(doc.Book)
	if err != nil {
		errs = append(errs, &ValidationError{Path: path, Message: err.Error(), Err: err})
	}

	switch {
	case doc.Chapter < 1:
		errs = append(errs, newValidationError(path, fmt.Sprintf("chapter must be at least 1, got %d", doc.Chapter)))
	case err == nil && doc.Chapter > chapters:
		errs = append(errs, newValidationError(path,
			fmt.Sprintf("%s has %d chapters", doc.Book, chapters)))
	}

	for i, item := range doc.Content {
		itemPath := fmt.Sprintf("%s content[%d]", path, i)
		errs = append(errs, ValidateItem(itemPath, item)...)
	}

	return errs
}

// ValidateItem validates a single content item.
func ValidateItem(path string, item ContentItem) []error {
	var errs []error

	switch item.Kind {
	case KindSectionBreak:
	case KindHeading:
		if item.Level < HeadingChapter || item.Level > HeadingSubsection {
			errs = append(errs, newValidationError(path,
				fmt.Sprintf("heading level must be %d..%d, got %d", HeadingChapter, HeadingSubsection, item.Level)))
		}
	case KindVerse:
		if strings.TrimSpace(item.Number) == "" {
			errs = append(errs, newValidationError(path, "verse number is required"))
		}
		if _, err := ParseSpans(item.Text); err != nil {
			errs = append(errs, &ValidationError{Path: path, Message: err.Error(), Err: err})
		}
	default:
		errs = append(errs, newValidationError(path, fmt.Sprintf("invalid kind: %q", item.Kind)))
	}

	return errs
}

func docPath(doc *ChapterDocument) string {
	return fmt.Sprintf("%s %d", doc.Book, doc.Chapter)
}

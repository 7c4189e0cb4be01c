package docload

import "errors"

var (
	// ErrUnsupportedFormat is returned for extensions other than
	// pdf, docx, doc, txt, and md.
	ErrUnsupportedFormat = errors.New("unsupported file format (want PDF, DOCX, or TXT)")

	// ErrEmptyDocument is returned when extraction succeeds but yields
	// no usable text.
	ErrEmptyDocument = errors.New("no text could be extracted from document")
)

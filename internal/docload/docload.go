// Package docload extracts plain text from uploaded resume documents.
package docload

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/jonathan/coverletter-agent/internal/parsing"
)

// Load extracts plain text from a document, dispatching on the filename
// extension. Supported formats: PDF, DOCX/DOC, TXT, MD. Parse failures and
// unknown extensions return wrapped sentinel errors; nothing panics past
// this boundary.
func Load(filename string, data []byte) (string, error) {
	var (
		text string
		err  error
	)

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		text, err = extractPDF(data)
	case ".docx", ".doc":
		text, err = extractDOCX(data)
	case ".txt", ".md":
		text = string(data)
	default:
		return "", fmt.Errorf("%s: %w", filename, ErrUnsupportedFormat)
	}

	if err != nil {
		return "", fmt.Errorf("failed to extract text from %s: %w", filename, err)
	}

	text = parsing.CleanLines(text)
	if text == "" {
		return "", fmt.Errorf("%s: %w", filename, ErrEmptyDocument)
	}

	return text, nil
}

// LoadFile reads and extracts a document from disk.
func LoadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Load(path, data)
}

func extractPDF(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	rs, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to extract PDF text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, rs); err != nil {
		return "", fmt.Errorf("failed to read PDF text: %w", err)
	}

	return buf.String(), nil
}

var xmlTagRe = regexp.MustCompile(`<[^>]+>`)

// extractDOCX pulls text out of the OOXML main document part. Paragraph
// ends become newlines before tags are stripped, which preserves the
// document's line structure well enough for summarization input.
func extractDOCX(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open DOCX archive: %w", err)
	}

	var docXML []byte
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			rc, err := f.Open()
			if err != nil {
				return "", fmt.Errorf("failed to open document.xml: %w", err)
			}
			docXML, err = io.ReadAll(rc)
			_ = rc.Close()
			if err != nil {
				return "", fmt.Errorf("failed to read document.xml: %w", err)
			}
			break
		}
	}

	if len(docXML) == 0 {
		return "", fmt.Errorf("document.xml not found in archive")
	}

	xml := string(docXML)
	xml = strings.ReplaceAll(xml, "</w:p>", "\n")
	xml = strings.ReplaceAll(xml, "<w:tab/>", "\t")
	text := xmlTagRe.ReplaceAllString(xml, " ")

	return text, nil
}

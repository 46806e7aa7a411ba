// Package extract turns stored candidate documents into plain text.
package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/unidoc/unipdf/v3/extractor"
	"github.com/unidoc/unipdf/v3/model"
)

// ErrDocumentFormat indicates the uploaded document is unreadable, corrupt,
// or otherwise not a usable PDF. Extraction is all-or-nothing: when this
// error is returned, no partial text was produced.
type ErrDocumentFormat struct {
	Err error
}

func (e *ErrDocumentFormat) Error() string {
	return fmt.Sprintf("invalid or corrupted PDF format: %v", e.Err)
}

func (e *ErrDocumentFormat) Unwrap() error { return e.Err }

// PDFExtractor extracts plain text from PDF byte blobs.
type PDFExtractor struct{}

// NewPDFExtractor returns a ready-to-use extractor.
func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

// ExtractText runs a single normalization pass over the document, then
// extracts the text of every page. Uploads come straight from end users, so
// the document is re-serialized through a well-formedness pass before any
// content is read; a failure at any stage aborts with ErrDocumentFormat.
func (x *PDFExtractor) ExtractText(data []byte) (string, error) {
	normalized, err := normalize(data)
	if err != nil {
		return "", &ErrDocumentFormat{Err: err}
	}

	reader, err := model.NewPdfReader(bytes.NewReader(normalized))
	if err != nil {
		return "", &ErrDocumentFormat{Err: fmt.Errorf("reopen normalized document: %w", err)}
	}

	numPages, err := reader.GetNumPages()
	if err != nil {
		return "", &ErrDocumentFormat{Err: fmt.Errorf("page count: %w", err)}
	}
	if numPages == 0 {
		return "", &ErrDocumentFormat{Err: fmt.Errorf("document has no pages")}
	}

	var text strings.Builder
	for i := 1; i <= numPages; i++ {
		page, err := reader.GetPage(i)
		if err != nil {
			return "", &ErrDocumentFormat{Err: fmt.Errorf("page %d: %w", i, err)}
		}
		ex, err := extractor.New(page)
		if err != nil {
			return "", &ErrDocumentFormat{Err: fmt.Errorf("page %d: %w", i, err)}
		}
		pageText, err := ex.ExtractText()
		if err != nil {
			return "", &ErrDocumentFormat{Err: fmt.Errorf("page %d: %w", i, err)}
		}
		text.WriteString(pageText)
		text.WriteString("\n")
	}

	return strings.TrimSpace(text.String()), nil
}

// normalize re-serializes the document structure. A document that cannot
// survive a parse-and-rewrite cycle is rejected rather than partially read.
func normalize(data []byte) ([]byte, error) {
	reader, err := model.NewPdfReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	numPages, err := reader.GetNumPages()
	if err != nil {
		return nil, fmt.Errorf("page count: %w", err)
	}

	writer := model.NewPdfWriter()
	for i := 1; i <= numPages; i++ {
		page, err := reader.GetPage(i)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		if err := writer.AddPage(page); err != nil {
			return nil, fmt.Errorf("rewrite page %d: %w", i, err)
		}
	}

	var buf bytes.Buffer
	if err := writer.Write(&buf); err != nil {
		return nil, fmt.Errorf("serialize document: %w", err)
	}
	return buf.Bytes(), nil
}

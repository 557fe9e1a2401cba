package fetcher

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"
)

// PDFExtractor extracts plain text from PDF documents.
type PDFExtractor struct{}

// NewPDFExtractor creates a PDFExtractor.
func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

// ExtractFile reads the PDF at path. Pages without text are skipped; the rest
// are joined by newlines. A PDF with no text at all yields ErrNoContent.
func (e *PDFExtractor) ExtractFile(path string) (content string, err error) {
	start := time.Now()
	defer func() { recordIngestion(SourcePDF, start, content, err) }()

	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: open pdf: %v", ErrExtractionFailed, err)
	}
	defer func() { _ = f.Close() }()

	return pageText(r)
}

// ExtractReader reads a PDF of the given size from ra.
func (e *PDFExtractor) ExtractReader(ra io.ReaderAt, size int64) (content string, err error) {
	start := time.Now()
	defer func() { recordIngestion(SourcePDF, start, content, err) }()

	r, err := pdf.NewReader(ra, size)
	if err != nil {
		return "", fmt.Errorf("%w: read pdf: %v", ErrExtractionFailed, err)
	}
	return pageText(r)
}

func pageText(r *pdf.Reader) (text string, err error) {
	// the pdf library panics on some malformed content streams
	defer func() {
		if p := recover(); p != nil {
			text, err = "", fmt.Errorf("%w: %v", ErrExtractionFailed, p)
		}
	}()

	var texts []string
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		t, err := p.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("%w: page %d: %v", ErrExtractionFailed, i, err)
		}
		if strings.TrimSpace(t) != "" {
			texts = append(texts, t)
		}
	}

	text = strings.TrimSpace(strings.Join(texts, "\n"))
	if text == "" {
		return "", ErrNoContent
	}
	return text, nil
}

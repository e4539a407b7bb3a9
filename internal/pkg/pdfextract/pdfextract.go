package pdfextract

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

var ErrNoTextLayer = errors.New("pdf has no extractable text")

// ExtractText returns the text layer of a PDF page by page, with runs of
// whitespace collapsed. Output is cut at maxChars when maxChars > 0.
// Scanned PDFs without a text layer return ErrNoTextLayer.
func ExtractText(data []byte, maxChars int) (text string, err error) {
	if len(data) == 0 {
		return "", ErrNoTextLayer
	}
	// the pdf reader panics on some malformed xref tables
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("read pdf failed: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf failed: %w", err)
	}

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("read pdf page %d failed: %w", i, err)
		}
		pageText = strings.Join(strings.Fields(pageText), " ")
		if pageText == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(pageText)
		if maxChars > 0 && b.Len() >= maxChars {
			break
		}
	}

	out := b.String()
	if maxChars > 0 && len(out) > maxChars {
		out = strings.ToValidUTF8(out[:maxChars], "")
	}
	if strings.TrimSpace(out) == "" {
		return "", ErrNoTextLayer
	}
	return out, nil
}

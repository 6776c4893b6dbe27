// Package extractor turns statement PDFs into per-page plain text.
// It is the boundary collaborator for the Rocket parser: everything
// downstream works on text lines only.
package extractor

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
)

// ExtractText reads a PDF file and returns the text content of each
// page, in document order.
func ExtractText(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %q: %w", path, err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat pdf %q: %w", path, err)
	}
	return ExtractPages(f, st.Size())
}

// ExtractPages extracts per-page text from an in-memory or seekable PDF.
// Row-based extraction preserves the statement's table layout best; the
// plain-text path is the fallback for PDFs whose content stream the row
// walker cannot handle.
func ExtractPages(r io.ReaderAt, size int64) (pages []string, err error) {
	// The pdf library panics on some malformed files.
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("pdf extraction crashed: %v", rec)
		}
	}()

	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}
	if reader.NumPage() == 0 {
		return nil, fmt.Errorf("pdf has no pages")
	}

	pages = extractByRow(reader)
	if isReadableText(pages) {
		return pages, nil
	}

	pages = extractByPlainText(reader)
	if isReadableText(pages) {
		return pages, nil
	}

	return nil, fmt.Errorf("no readable text could be extracted; the pdf may be image-based or use undecodable font encodings")
}

func extractByRow(reader *pdf.Reader) []string {
	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		var lines []string
		for _, row := range rows {
			var parts []string
			for _, word := range row.Content {
				parts = append(parts, word.S)
			}
			line := strings.TrimSpace(strings.Join(parts, " "))
			if line != "" {
				lines = append(lines, line)
			}
		}
		pages = append(pages, strings.Join(lines, "\n"))
	}
	return pages
}

func extractByPlainText(reader *pdf.Reader) []string {
	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		fonts := make(map[string]*pdf.Font)
		for _, name := range page.Fonts() {
			f := page.Font(name)
			fonts[name] = &f
		}
		text, err := page.GetPlainText(fonts)
		if err != nil {
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			pages = append(pages, text)
		}
	}
	return pages
}

// isReadableText guards against garbage from identity-encoded fonts.
// Statements mix Cyrillic and Latin text, so anything a human could
// read counts: letters of any script, digits, whitespace and common
// punctuation. Requires >50 chars with >60% of them readable.
func isReadableText(pages []string) bool {
	total, readable := 0, 0
	for _, page := range pages {
		for _, r := range page {
			total++
			if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) ||
				strings.ContainsRune(".,-/:;()'\"№%*+", r) {
				readable++
			}
		}
	}
	if total <= 50 {
		return false
	}
	return float64(readable)/float64(total) > 0.6
}

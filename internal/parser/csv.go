package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"

	"github.com/walletkeeper/statement-converter/internal/models"
)

// Both CSV statement formats are `;`-delimited with the first row as
// header; they differ in character encoding and column schema. The
// shared machinery lives here, the per-bank record mapping in
// raiffeisen.go and alfa.go.

// csvRecord is one data row addressed by normalized header name.
type csvRecord struct {
	header map[string]int
	fields []string
}

// get returns the value of a mandatory column. A missing column is a
// structural failure for the whole statement.
func (r csvRecord) get(name string) (string, error) {
	idx, ok := r.header[name]
	if !ok || idx >= len(r.fields) {
		return "", fmt.Errorf("statement has no %q column", name)
	}
	return r.fields[idx], nil
}

// first returns the value of the first mapped column among candidates.
// Statement sub-versions rename columns over time, so callers list the
// known names in priority order.
func (r csvRecord) first(candidates ...string) (string, error) {
	for _, name := range candidates {
		if idx, ok := r.header[name]; ok && idx < len(r.fields) {
			return r.fields[idx], nil
		}
	}
	return "", fmt.Errorf("statement has none of the columns %q", candidates)
}

// has reports whether the column exists in the header.
func (r csvRecord) has(name string) bool {
	_, ok := r.header[name]
	return ok
}

// recordFunc maps one CSV row to a transaction.
type recordFunc func(rec csvRecord, wallet string) (models.Transaction, error)

// parseDelimited decodes the stream with the given charset decoder
// (nil means the stream is already UTF-8), reads `;`-delimited records
// with the first row as header and maps each row through read.
func parseDelimited(r io.Reader, decoder *encoding.Decoder, wallet string, read recordFunc) ([]models.Transaction, error) {
	if decoder != nil {
		r = transform.NewReader(r, decoder)
	}

	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	headerRow, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read statement header: %w", err)
	}
	header := make(map[string]int, len(headerRow))
	for i, name := range headerRow {
		header[normalizeHeaderName(name)] = i
	}

	var transactions []models.Transaction
	for line := 2; ; line++ {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read statement line %d: %w", line, err)
		}
		tx, err := read(csvRecord{header: header, fields: fields}, wallet)
		if err != nil {
			return nil, fmt.Errorf("statement line %d: %w", line, err)
		}
		transactions = append(transactions, tx)
	}
	return transactions, nil
}

// normalizeHeaderName strips the UTF-8 BOM some exports prepend to the
// first header cell, plus surrounding whitespace.
func normalizeHeaderName(name string) string {
	return strings.TrimSpace(strings.TrimPrefix(name, "\uFEFF"))
}

package parser

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/walletkeeper/statement-converter/internal/enrich"
	"github.com/walletkeeper/statement-converter/internal/extractor"
	"github.com/walletkeeper/statement-converter/internal/models"
)

// RocketParser handles Rocket bank statement PDFs.
//
// The statement is a multi-page table where one transaction may span
// several text lines. Parsing happens in stages over the whole document
// treated as one ordered line stream:
//
//  1. truncate everything from the administrative signature block on
//  2. drop empty and boilerplate lines
//  3. accumulate lines into per-transaction texts (order-dependent)
//  4. reduce each text through an ordered extraction pipeline
//  5. enrich, then post-process the full result (date back-fill,
//     operation-date override, placeholder removal, sort by date)
type RocketParser struct {
	enricher *enrich.Enricher
}

// signatureSentinel starts the signature block that closes every
// statement; nothing after it is transaction data.
const signatureSentinel = "Руководитель отдела"

var boilerplatePrefixes = []string{
	"Выписка",            // document title
	"ФИО:",               // account holder
	"Адрес регистрации",  // registered address
	"Счет No",            // account number
	"Период:",            // statement period
	"Входящий остаток:",  // opening balance
	"Исходящий остаток:", // closing balance
	"Дата Описание Расход", // column header
	"Итог:",              // totals
	"Специалист",         // signature block
}

var (
	// Officer name lines inside the signature block, e.g. "Иванов Иван Иванович".
	officerNamePattern = regexp.MustCompile(`^([А-ЯЁ][А-ЯЁа-яё]* ?){2,3}$`)
	// Document id at the bottom of the statement, e.g. "№ 123-45/A".
	documentIDPattern = regexp.MustCompile(`^№ [\d\-/A-Za-z]+$`)

	// A transaction starts with a dd.MM.yyyy date, or with an optional
	// P2P marker plus a capitalized word on a line mentioning RUR.
	// The date alternative also matches a bare date line with no
	// payload; such lines become placeholder records that
	// post-processing removes. Do not tighten this without fresh
	// sample statements to validate against.
	dateStartPattern = regexp.MustCompile(`^\d{2}\.\d{2}\.\d{4}`)
	wordStartPattern = regexp.MustCompile(`^(\d{2}\.\d{2}\.\d{4})?( P2P)? ?[А-ЯЁ][ а-яё]+.*RUR`)

	// " -1234.56 RUR" with optional space-grouped thousands.
	rocketAmountPattern = regexp.MustCompile(` (-?\d+[ \d]*(\.\d+)?) RUR`)
	// ", дата операции: 02/01/2006 15:04" embedded in descriptions.
	operationDatePattern = regexp.MustCompile(`, ?дата +операции: ?(\d{2}/\d{2}/\d{4} \d{2}:\d{2})`)
	// ", на сумму: 1234.56(RUB)", the amount repeated in words.
	repeatedAmountPattern = regexp.MustCompile(`, ?на сумму: -?\d+[ \d]*(\.\d+)?\([\dRUB]{1,3}\)`)
	// ", карта 1234**5678", masked card number annotations.
	cardNumberPattern = regexp.MustCompile(`, ?карта \d+[\*x]+\d+`)

	extraSpacesPattern = regexp.MustCompile(` {2,}`)
)

// ParseBankStatement reads the whole stream as a PDF, extracts per-page
// text and parses it. Use ParsePages when the page text is already
// available.
func (p *RocketParser) ParseBankStatement(r io.Reader, wallet string) ([]models.Transaction, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read rocket statement: %w", err)
	}
	pages, err := extractor.ExtractPages(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("rocket statement: %w", err)
	}
	return p.ParsePages(pages, wallet)
}

// ParsePages parses pre-extracted per-page plain text. Pages must be in
// document order; the line accumulation below depends on it.
func (p *RocketParser) ParsePages(pages []string, wallet string) ([]models.Transaction, error) {
	lines := flattenPages(pages)
	lines = truncateSignatureBlock(lines)
	lines = dropBoilerplate(lines)

	texts, err := collectTransactionTexts(lines)
	if err != nil {
		return nil, fmt.Errorf("rocket statement: %w", err)
	}

	transactions := make([]models.Transaction, 0, len(texts))
	for _, text := range texts {
		transactions = append(transactions, p.enricher.Enrich(parseTransactionText(text, wallet)))
	}
	return postProcess(transactions), nil
}

func flattenPages(pages []string) []string {
	var lines []string
	for _, page := range pages {
		lines = append(lines, strings.Split(page, "\n")...)
	}
	return lines
}

// truncateSignatureBlock cuts the document at the first signature
// sentinel line. The cut applies to the whole document, not per page:
// boilerplate after the sentinel must never reach the accumulator.
func truncateSignatureBlock(lines []string) []string {
	for i, line := range lines {
		if strings.HasPrefix(line, signatureSentinel) {
			return lines[:i]
		}
	}
	return lines
}

func dropBoilerplate(lines []string) []string {
	kept := lines[:0:0]
	for _, line := range lines {
		if line == "" || isBoilerplate(line) {
			continue
		}
		kept = append(kept, line)
	}
	return kept
}

func isBoilerplate(line string) bool {
	for _, prefix := range boilerplatePrefixes {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return officerNamePattern.MatchString(line) || documentIDPattern.MatchString(line)
}

func isTransactionStart(line string) bool {
	return dateStartPattern.MatchString(line) || wordStartPattern.MatchString(line)
}

// collectTransactionTexts folds the ordered line stream into one text
// per transaction: a start line opens a new accumulator entry, any
// other line continues the current one. The fold is inherently
// stateful; lines must arrive in document order and must never be
// processed concurrently. A continuation line before any start line
// breaks the invariant and fails the statement.
func collectTransactionTexts(lines []string) ([]string, error) {
	var accumulator []string
	for _, line := range lines {
		if isTransactionStart(line) {
			accumulator = append(accumulator, line)
			continue
		}
		if len(accumulator) == 0 {
			return nil, fmt.Errorf("continuation line before any transaction start: %q", line)
		}
		accumulator[len(accumulator)-1] += " " + line
	}
	return accumulator, nil
}

// reduction consumes matched text from the remaining transaction text
// and fills fields on the partially built transaction.
type reduction func(text string, tx models.Transaction) (string, models.Transaction)

// parseTransactionText runs the accumulated text through the ordered
// extraction pipeline. The order is load-bearing: amounts must be
// consumed before the transfer-keyword check, and garbage stripping
// must run after every field extraction so whatever remains is the
// description.
func parseTransactionText(text, wallet string) models.Transaction {
	steps := []reduction{
		cutDate,
		func(s string, tx models.Transaction) (string, models.Transaction) {
			return cutAmount(s, tx, wallet)
		},
		cutOperationDate,
		cutGarbage,
		cutDescription,
	}

	var tx models.Transaction
	for _, step := range steps {
		text, tx = step(text, tx)
	}
	return tx
}

// cutDate consumes a leading dd.MM.yyyy token as the settlement date.
// Continuation-only transactions have no date here; post-processing
// back-fills it from the preceding record.
func cutDate(text string, tx models.Transaction) (string, models.Transaction) {
	loc := dateStartPattern.FindStringIndex(text)
	if loc == nil {
		return text, tx
	}
	if date, err := parseDate(layoutDate, text[loc[0]:loc[1]]); err == nil {
		tx.Date = date
	}
	return text[loc[1]:], tx
}

// cutAmount consumes every "<signed number> RUR" occurrence. The text
// may carry both the transaction amount and the running account
// subtotal; the last match left to right is the authoritative amount.
// The sign decides the operation type (after the transfer-keyword
// check on the remaining text) and the wallet side, then only the
// absolute value is stored.
func cutAmount(text string, tx models.Transaction, wallet string) (string, models.Transaction) {
	matches := rocketAmountPattern.FindAllStringSubmatchIndex(text, -1)

	signed := decimal.Decimal{}
	if len(matches) > 0 {
		last := matches[len(matches)-1]
		raw := strings.ReplaceAll(text[last[2]:last[3]], " ", "")
		if amount, err := decimal.NewFromString(raw); err == nil {
			signed = amount
		}
		for i := len(matches) - 1; i >= 0; i-- {
			m := matches[i]
			text = text[:m[0]] + text[m[1]:]
		}
	}

	switch {
	case strings.Contains(text, "перевод") || strings.Contains(text, "Перевод"):
		tx.OperationType = models.Transfer
	case signed.Sign() > 0:
		tx.OperationType = models.Income
	default:
		tx.OperationType = models.Expenditure
	}

	if !signed.IsZero() {
		tx.Amounts = models.SourceOnly(signed.Abs())
	}
	return text, placeWallet(tx, wallet, signed)
}

// cutOperationDate consumes the embedded operation timestamp, kept
// separate from the settlement date until post-processing.
func cutOperationDate(text string, tx models.Transaction) (string, models.Transaction) {
	loc := operationDatePattern.FindStringSubmatchIndex(text)
	if loc == nil {
		return text, tx
	}
	if ts, err := parseTimestamp(layoutOperationDate, text[loc[2]:loc[3]]); err == nil {
		tx.OperationDate = ts
	}
	return text[:loc[0]] + text[loc[1]:], tx
}

// cutGarbage strips annotations that repeat already-extracted data.
func cutGarbage(text string, tx models.Transaction) (string, models.Transaction) {
	text = extraSpacesPattern.ReplaceAllString(text, " ")
	text = repeatedAmountPattern.ReplaceAllString(text, "")
	text = cardNumberPattern.ReplaceAllString(text, "")
	return strings.TrimSpace(text), tx
}

// cutDescription keeps whatever text survived the pipeline.
func cutDescription(text string, tx models.Transaction) (string, models.Transaction) {
	tx.Description = text
	return text, tx
}

// postProcess normalizes the full multi-page result, in this order:
// back-fill missing dates from the preceding record (statements print a
// shared date only on the first transaction of a day), override the
// settlement date with the operation date when one was embedded, drop
// placeholder records with no description and records that never
// resolved a date, then stable-sort by date.
func postProcess(transactions []models.Transaction) []models.Transaction {
	for i := 1; i < len(transactions); i++ {
		if transactions[i].Date.IsZero() {
			transactions[i] = transactions[i].WithDate(transactions[i-1].Date)
		}
	}

	for i, tx := range transactions {
		if !tx.OperationDate.IsZero() {
			transactions[i] = tx.WithDate(toDate(tx.OperationDate))
		}
	}

	kept := transactions[:0:0]
	for _, tx := range transactions {
		if tx.Description == "" || tx.Date.IsZero() {
			continue
		}
		kept = append(kept, tx)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Date.Before(kept[j].Date)
	})
	return kept
}

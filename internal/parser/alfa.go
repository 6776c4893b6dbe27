package parser

import (
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/walletkeeper/statement-converter/internal/enrich"
	"github.com/walletkeeper/statement-converter/internal/models"
)

// AlfaParser handles Alfa CSV statement exports.
//
// The export is UTF-8 (sometimes with a BOM), `;`-delimited, first row
// as header. Relevant columns:
//
//	Дата       settlement date, dd.MM.yyyy
//	Примечание free-text description
//	Расход     signed outgoing amount (empty when not applicable)
//	Приход     signed incoming amount (empty when not applicable)
//
// Descriptions often embed the real operation date (dd.MM.yy) and
// merchant routing noise; see alfaDate and usefulDescription.
type AlfaParser struct {
	enricher *enrich.Enricher
}

var embeddedDatePattern = regexp.MustCompile(`\d{2}\.\d{2}\.\d{2}`)

func (p *AlfaParser) ParseBankStatement(r io.Reader, wallet string) ([]models.Transaction, error) {
	transactions, err := parseDelimited(r, nil, wallet, readAlfaRecord)
	if err != nil {
		return nil, fmt.Errorf("alfa statement: %w", err)
	}
	return p.enricher.EnrichAll(transactions), nil
}

func readAlfaRecord(rec csvRecord, wallet string) (models.Transaction, error) {
	amount, err := alfaAmount(rec)
	if err != nil {
		return models.Transaction{}, err
	}

	rawDescription, err := rec.get("Примечание")
	if err != nil {
		return models.Transaction{}, err
	}

	date, err := alfaDate(rec, rawDescription)
	if err != nil {
		return models.Transaction{}, err
	}

	operationType := alfaOperationType(amount, rawDescription)
	tx := models.Transaction{
		OperationType: operationType,
		Date:          date,
		Description:   usefulDescription(rawDescription),
		Amounts:       models.SourceOnly(amount.Abs()),
	}
	return placeWallet(tx, wallet, amount), nil
}

// alfaAmount takes the first non-empty, non-zero value of the expenditure
// and income columns. Values arrive already signed; the expenditure
// column is not inverted. A row with neither amount is malformed and
// fails the whole statement.
func alfaAmount(rec csvRecord) (decimal.Decimal, error) {
	for _, column := range []string{"Расход", "Приход"} {
		if !rec.has(column) {
			continue
		}
		value, err := rec.get(column)
		if err != nil || strings.TrimSpace(value) == "" {
			continue
		}
		amount, err := parseDecimalAmount(value)
		if err != nil {
			return decimal.Decimal{}, err
		}
		if !amount.IsZero() {
			return amount, nil
		}
	}
	return decimal.Decimal{}, fmt.Errorf("can't find transaction amount")
}

func alfaOperationType(amount decimal.Decimal, rawDescription string) models.OperationType {
	if strings.Contains(rawDescription, "CARD2CARD") ||
		strings.Contains(rawDescription, "Внутрибанковский перевод между счетами") {
		return models.Transfer
	}
	if amount.Sign() > 0 {
		return models.Income
	}
	return models.Expenditure
}

// alfaDate prefers the earliest dd.MM.yy date embedded in the
// description (the real operation date) and falls back to the
// settlement date column.
func alfaDate(rec csvRecord, rawDescription string) (time.Time, error) {
	if date, ok := earliestEmbeddedDate(rawDescription); ok {
		return date, nil
	}
	dateValue, err := rec.first("Дата")
	if err != nil {
		return time.Time{}, err
	}
	date, err := parseDate(layoutDate, dateValue)
	if err != nil {
		return time.Time{}, fmt.Errorf("malformed date %q: %w", dateValue, err)
	}
	return date, nil
}

func earliestEmbeddedDate(rawDescription string) (time.Time, bool) {
	var dates []time.Time
	for _, match := range embeddedDatePattern.FindAllString(rawDescription, -1) {
		if date, err := parseDate(layoutShortDate, match); err == nil {
			dates = append(dates, date)
		}
	}
	if len(dates) == 0 {
		return time.Time{}, false
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates[0], true
}

var rurAmountPattern = regexp.MustCompile(`\d+\.\d{2} RUR`)
var doubleSpacePattern = regexp.MustCompile(` {2,}`)

// usefulDescription reduces the raw note to the merchant part. The steps
// run in a fixed order: the embedded RUR amount must go before the `>`
// split, or the split can cut the amount into the kept half.
func usefulDescription(rawDescription string) string {
	s := rurAmountPattern.ReplaceAllString(rawDescription, "")
	s, _, _ = strings.Cut(s, ">")
	if idx := strings.LastIndex(s, "/"); idx >= 0 {
		s = s[idx+1:]
	}
	if idx := strings.LastIndex(s, `\`); idx >= 0 {
		s = s[idx+1:]
	}
	s = doubleSpacePattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

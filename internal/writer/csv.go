// Package writer renders normalized transactions as a CSV report.
package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/walletkeeper/statement-converter/internal/models"
)

// reportHeaders is the fixed column set of the report.
var reportHeaders = []string{
	"Date",
	"OperationType",
	"Amount",
	"SourceCurrency",
	"DestinationAmount",
	"DestinationCurrency",
	"Category",
	"Description",
	"SourceWallet",
	"TargetWallet",
}

const reportDateLayout = "2006-01-02"

// CSVWriter writes the final transaction report.
type CSVWriter struct {
	Log *logrus.Logger
}

// WriteToFile writes the report to a file at the given path.
func (w *CSVWriter) WriteToFile(path string, transactions []models.Transaction) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report file %q: %w", path, err)
	}
	defer f.Close()

	return w.Write(f, transactions)
}

// Write renders the report. A transaction with no non-zero amount on
// either side is a data-quality anomaly: it is logged and still
// emitted with an empty amount rather than dropped.
func (w *CSVWriter) Write(out io.Writer, transactions []models.Transaction) error {
	cw := csv.NewWriter(out)
	defer cw.Flush()

	if err := cw.Write(reportHeaders); err != nil {
		return fmt.Errorf("write report header: %w", err)
	}

	for _, tx := range transactions {
		if err := cw.Write(w.row(tx)); err != nil {
			return fmt.Errorf("write report row: %w", err)
		}
	}
	return cw.Error()
}

func (w *CSVWriter) row(tx models.Transaction) []string {
	amount, destinationAmount, sourceCcy, destinationCcy := w.reportAmounts(tx)
	return []string{
		tx.Date.Format(reportDateLayout),
		tx.OperationType.ExportName(),
		amount,
		sourceCcy,
		destinationAmount,
		destinationCcy,
		tx.Category,
		tx.Description,
		tx.SourceWallet,
		tx.TargetWallet,
	}
}

// reportAmounts picks what to print. When both sides of a transfer are
// populated, both are shown; otherwise the single non-zero side is
// "the" amount and the destination columns stay empty.
func (w *CSVWriter) reportAmounts(tx models.Transaction) (amount, destinationAmount, sourceCcy, destinationCcy string) {
	amounts := tx.Amounts
	if !amounts.SourceAmount.IsZero() && amounts.TargetAmount != nil && !amounts.TargetAmount.IsZero() {
		return formatAmount(amounts.SourceAmount.Amount), formatAmount(amounts.TargetAmount.Amount),
			amounts.SourceAmount.Currency, amounts.TargetAmount.Currency
	}

	reportable, ok := amounts.Reportable()
	if !ok {
		if w.Log != nil {
			w.Log.WithFields(logrus.Fields{
				"date":        tx.Date.Format(reportDateLayout),
				"description": tx.Description,
			}).Error("transaction with no amount in report")
		}
		return "", "", "", ""
	}
	return formatAmount(reportable.Amount), "", reportable.Currency, ""
}

func formatAmount(d decimal.Decimal) string {
	return d.String()
}

// Package parser turns exported bank statements into normalized
// transactions. Each supported format has its own strategy behind the
// StatementParser interface; New selects one by format tag.
package parser

import (
	"fmt"
	"io"

	"github.com/walletkeeper/statement-converter/internal/enrich"
	"github.com/walletkeeper/statement-converter/internal/models"
)

// StatementParser reads one exported bank statement and returns its
// transactions in statement order (the Rocket PDF strategy additionally
// sorts by date). wallet is the label of the account the statement
// belongs to.
//
// A row or line that cannot be parsed into the minimum required fields
// fails the whole statement; no partial transaction list is returned.
type StatementParser interface {
	ParseBankStatement(r io.Reader, wallet string) ([]models.Transaction, error)
}

// New returns the parser for the given statement format. The enricher
// is applied by the parser itself so every transaction is enriched
// exactly once; pass enrich.New(nil) to disable enrichment.
func New(format models.Format, enricher *enrich.Enricher) (StatementParser, error) {
	switch format {
	case models.FormatRaiffeisen:
		return &RaiffeisenParser{enricher: enricher}, nil
	case models.FormatAlfa:
		return &AlfaParser{enricher: enricher}, nil
	case models.FormatRocket:
		return &RocketParser{enricher: enricher}, nil
	default:
		return nil, fmt.Errorf("unsupported statement format: %q", format)
	}
}

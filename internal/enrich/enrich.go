// Package enrich assigns categories and counter-wallets to parsed
// transactions by matching keywords against transaction descriptions.
package enrich

import (
	"strings"

	"github.com/walletkeeper/statement-converter/internal/models"
)

// Enricher applies a keyword table to transactions. It is pure and
// stateless aside from the read-only table, so one instance can serve
// any number of statements. Callers must enrich each transaction
// exactly once: a description prefix added by a match may break the
// substring check on a second pass.
type Enricher struct {
	table *Table
}

// New returns an Enricher over the given table. A nil table disables
// enrichment.
func New(table *Table) *Enricher {
	return &Enricher{table: table}
}

// Enrich returns a copy of the transaction with category or counter-wallet
// filled from the first matching keyword. The match is a case-insensitive
// substring check against the description; table order breaks ties.
// Without a match the transaction is returned unchanged.
func (e *Enricher) Enrich(tx models.Transaction) models.Transaction {
	if e == nil || e.table.Len() == 0 {
		return tx
	}

	description := strings.ToLower(tx.Description)
	for _, keyword := range e.table.Keywords() {
		if !strings.Contains(description, keyword) {
			continue
		}
		entry, _ := e.table.Entry(keyword)
		tx = applyEntry(tx, entry)
		break
	}
	return tx
}

// EnrichAll enriches every transaction in the slice.
func (e *Enricher) EnrichAll(txs []models.Transaction) []models.Transaction {
	result := make([]models.Transaction, len(txs))
	for i, tx := range txs {
		result[i] = e.Enrich(tx)
	}
	return result
}

func applyEntry(tx models.Transaction, entry Entry) models.Transaction {
	if tx.OperationType == models.Transfer {
		tx = fillWallet(tx, entry.Category)
	} else {
		tx = tx.WithCategory(entry.Category)
	}
	if entry.AdditionalDescription != "" {
		tx = tx.WithDescription(entry.AdditionalDescription + " (" + tx.Description + ")")
	}
	return tx
}

// fillWallet fills whichever wallet side the parser left unset. The
// parser pre-sets exactly one side (the statement's own wallet); when
// both sides are already resolved the keyword is ignored.
func fillWallet(tx models.Transaction, wallet string) models.Transaction {
	if tx.SourceWallet == "" {
		return tx.WithSourceWallet(wallet)
	}
	if tx.TargetWallet == "" {
		return tx.WithTargetWallet(wallet)
	}
	return tx
}

package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"

	"github.com/walletkeeper/statement-converter/internal/enrich"
	"github.com/walletkeeper/statement-converter/internal/models"
)

// RaiffeisenParser handles Raiffeisen CSV statement exports.
//
// The export is Windows-1251 encoded, `;`-delimited, first row as
// header. Relevant columns:
//
//	Дата операции / Дата транзакции  date and time, dd.MM.yyyy HH:mm
//	Описание                         free-text description
//	Сумма в валюте счета             signed amount in the account currency
//
// The amount sign is consumed to derive the operation type and wallet
// placement; the stored amount is the absolute value.
type RaiffeisenParser struct {
	enricher *enrich.Enricher
}

func (p *RaiffeisenParser) ParseBankStatement(r io.Reader, wallet string) ([]models.Transaction, error) {
	transactions, err := parseDelimited(r, charmap.Windows1251.NewDecoder(), wallet, readRaiffeisenRecord)
	if err != nil {
		return nil, fmt.Errorf("raiffeisen statement: %w", err)
	}
	return p.enricher.EnrichAll(transactions), nil
}

func readRaiffeisenRecord(rec csvRecord, wallet string) (models.Transaction, error) {
	amountValue, err := rec.get("Сумма в валюте счета")
	if err != nil {
		return models.Transaction{}, err
	}
	amount, err := parseDecimalAmount(amountValue)
	if err != nil {
		return models.Transaction{}, err
	}

	dateValue, err := rec.first("Дата операции", "Дата транзакции")
	if err != nil {
		return models.Transaction{}, err
	}
	date, err := parseDate(layoutDateTime, dateValue)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("malformed date %q: %w", dateValue, err)
	}

	description, err := rec.get("Описание")
	if err != nil {
		return models.Transaction{}, err
	}

	operationType := raiffeisenOperationType(amount, description)
	tx := models.Transaction{
		OperationType: operationType,
		Date:          date,
		Description:   description,
		Amounts:       models.SourceOnly(amount.Abs()),
	}
	return placeWallet(tx, wallet, amount), nil
}

// raiffeisenOperationType classifies by transfer keywords first, then by
// amount sign. ATM withdrawals count as transfers: the cash moves to
// another wallet instead of leaving the books.
func raiffeisenOperationType(amount decimal.Decimal, description string) models.OperationType {
	if strings.Contains(description, "перевод") ||
		strings.Contains(description, "Перевод") ||
		strings.Contains(description, "ATM ") {
		return models.Transfer
	}
	if amount.Sign() > 0 {
		return models.Income
	}
	return models.Expenditure
}

// placeWallet assigns the statement's own wallet. For transfers the
// sign decides the side: money arriving makes the statement wallet the
// target, money leaving makes it the source. The opposite side stays
// unset for enrichment.
func placeWallet(tx models.Transaction, wallet string, signedAmount decimal.Decimal) models.Transaction {
	if tx.OperationType == models.Transfer && signedAmount.Sign() > 0 {
		return tx.WithTargetWallet(wallet)
	}
	return tx.WithSourceWallet(wallet)
}

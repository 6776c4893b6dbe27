package models

import "time"

// OperationType classifies the economic effect of a transaction.
type OperationType string

const (
	Expenditure OperationType = "EXPENDITURE"
	Income      OperationType = "INCOME"
	Transfer    OperationType = "TRANSFER"
	// Adjustment appears only in historical migration data; no live
	// parser emits it.
	Adjustment OperationType = "ADJUSTMENT"
)

// ExportName returns the domain-facing label used in reports.
func (t OperationType) ExportName() string {
	switch t {
	case Expenditure:
		return "Расход"
	case Income:
		return "Доход"
	case Transfer:
		return "Перевод средств"
	case Adjustment:
		return "Корректировка"
	default:
		return string(t)
	}
}

// Transaction is the normalized record every statement parser produces.
// Values are never mutated in place: transformations copy the struct and
// override fields.
type Transaction struct {
	OperationType OperationType `json:"operationType"`
	// Date is the settlement date. A zero value means the parser could
	// not resolve it; such records are discarded before the final output.
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	Amounts     Amounts   `json:"amounts"`
	// Category is set by enrichment for INCOME/EXPENDITURE only.
	Category string `json:"category,omitempty"`
	// For TRANSFER exactly one wallet side is pre-set by the parser
	// (the statement's own wallet); enrichment may fill the other.
	// For INCOME/EXPENDITURE SourceWallet is the statement's wallet.
	SourceWallet string `json:"sourceWallet,omitempty"`
	TargetWallet string `json:"targetWallet,omitempty"`
	// OperationDate is the timestamp embedded in a PDF description,
	// when the statement carries one. It reflects when the purchase
	// actually happened; the settlement date lags it by bank
	// processing delay. Zero when absent.
	OperationDate time.Time `json:"operationDate,omitempty"`
}

// WithDate returns a copy with the settlement date replaced.
func (t Transaction) WithDate(date time.Time) Transaction {
	t.Date = date
	return t
}

// WithCategory returns a copy with the category replaced.
func (t Transaction) WithCategory(category string) Transaction {
	t.Category = category
	return t
}

// WithDescription returns a copy with the description replaced.
func (t Transaction) WithDescription(description string) Transaction {
	t.Description = description
	return t
}

// WithSourceWallet returns a copy with the source wallet replaced.
func (t Transaction) WithSourceWallet(wallet string) Transaction {
	t.SourceWallet = wallet
	return t
}

// WithTargetWallet returns a copy with the target wallet replaced.
func (t Transaction) WithTargetWallet(wallet string) Transaction {
	t.TargetWallet = wallet
	return t
}

// Format identifies a supported bank statement format.
type Format string

const (
	FormatRaiffeisen Format = "raiffeisen"
	FormatAlfa       Format = "alfa"
	FormatRocket     Format = "rocket"
)

// ParseFormat maps user input (CLI flag, form field) to a Format.
func ParseFormat(s string) (Format, bool) {
	switch s {
	case "raiffeisen", "raif":
		return FormatRaiffeisen, true
	case "alfa":
		return FormatAlfa, true
	case "rocket":
		return FormatRocket, true
	default:
		return "", false
	}
}

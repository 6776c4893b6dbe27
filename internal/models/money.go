package models

import "github.com/shopspring/decimal"

// AmountWithCurrency is an immutable (amount, currency) pair.
// Amounts are exact decimals; no float arithmetic happens anywhere
// in the pipeline. An empty Currency means "unknown".
type AmountWithCurrency struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency,omitempty"`
}

// IsZero reports whether the amount is absent or exactly zero.
func (a AmountWithCurrency) IsZero() bool {
	return a.Amount.IsZero()
}

// Amounts carries the source-side amount of a transaction and,
// for transfers only, the amount received on the target side.
type Amounts struct {
	SourceAmount AmountWithCurrency  `json:"sourceAmount"`
	TargetAmount *AmountWithCurrency `json:"targetAmount,omitempty"`
}

// SourceOnly builds an Amounts with just the source side set.
func SourceOnly(amount decimal.Decimal) Amounts {
	return Amounts{SourceAmount: AmountWithCurrency{Amount: amount}}
}

// Reportable returns the amount a report should show: the source amount
// if non-zero, otherwise the target amount. ok is false when neither
// side carries a non-zero value.
func (a Amounts) Reportable() (AmountWithCurrency, bool) {
	if !a.SourceAmount.IsZero() {
		return a.SourceAmount, true
	}
	if a.TargetAmount != nil && !a.TargetAmount.IsZero() {
		return *a.TargetAmount, true
	}
	return AmountWithCurrency{}, false
}

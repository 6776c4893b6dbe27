package parser

import (
	"strings"
	"testing"
	"time"

	"golang.org/x/text/encoding/charmap"

	"github.com/walletkeeper/statement-converter/internal/enrich"
	"github.com/walletkeeper/statement-converter/internal/models"
)

// encodeWindows1251 renders a fixture the way the bank exports it.
func encodeWindows1251(t *testing.T, s string) string {
	t.Helper()
	encoded, err := charmap.Windows1251.NewEncoder().String(s)
	if err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	return encoded
}

func noEnrichment() *enrich.Enricher {
	return enrich.New(nil)
}

func TestRaiffeisenParseBankStatement(t *testing.T) {
	fixture := encodeWindows1251(t, strings.Join([]string{
		"Дата операции;Описание;Сумма в валюте счета",
		"01.02.2024 12:30;Оплата товаров MAGNIT MOSCOW;-1 500,00",
		"03.02.2024 09:00;Зачисление заработной платы;55 000,00",
		"05.02.2024 18:45;Перевод на карту 1234;2 000,00",
		"06.02.2024 14:10;ATM 770123 MOSCOW;-3 000,00",
	}, "\n"))

	p := &RaiffeisenParser{enricher: noEnrichment()}
	transactions, err := p.ParseBankStatement(strings.NewReader(fixture), "Райф карта")
	if err != nil {
		t.Fatalf("ParseBankStatement failed: %v", err)
	}
	if len(transactions) != 4 {
		t.Fatalf("transactions: got %d, want 4", len(transactions))
	}

	expenditure := transactions[0]
	if expenditure.OperationType != models.Expenditure {
		t.Errorf("tx[0] type: got %s, want %s", expenditure.OperationType, models.Expenditure)
	}
	if got := expenditure.Amounts.SourceAmount.Amount.String(); got != "1500" {
		t.Errorf("tx[0] amount: got %s, want 1500", got)
	}
	wantDate := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	if !expenditure.Date.Equal(wantDate) {
		t.Errorf("tx[0] date: got %v, want %v", expenditure.Date, wantDate)
	}
	if expenditure.Description != "Оплата товаров MAGNIT MOSCOW" {
		t.Errorf("tx[0] description: got %q", expenditure.Description)
	}
	if expenditure.SourceWallet != "Райф карта" || expenditure.TargetWallet != "" {
		t.Errorf("tx[0] wallets: got source %q target %q", expenditure.SourceWallet, expenditure.TargetWallet)
	}

	income := transactions[1]
	if income.OperationType != models.Income {
		t.Errorf("tx[1] type: got %s, want %s", income.OperationType, models.Income)
	}
	if got := income.Amounts.SourceAmount.Amount.String(); got != "55000" {
		t.Errorf("tx[1] amount: got %s, want 55000", got)
	}
	if income.SourceWallet != "Райф карта" {
		t.Errorf("tx[1] source wallet: got %q", income.SourceWallet)
	}

	// Incoming transfer: the statement wallet is the receiving side.
	transferIn := transactions[2]
	if transferIn.OperationType != models.Transfer {
		t.Errorf("tx[2] type: got %s, want %s", transferIn.OperationType, models.Transfer)
	}
	if transferIn.TargetWallet != "Райф карта" || transferIn.SourceWallet != "" {
		t.Errorf("tx[2] wallets: got source %q target %q", transferIn.SourceWallet, transferIn.TargetWallet)
	}

	// ATM withdrawal: cash leaves the card, so it is an outgoing transfer.
	atm := transactions[3]
	if atm.OperationType != models.Transfer {
		t.Errorf("tx[3] type: got %s, want %s", atm.OperationType, models.Transfer)
	}
	if atm.SourceWallet != "Райф карта" || atm.TargetWallet != "" {
		t.Errorf("tx[3] wallets: got source %q target %q", atm.SourceWallet, atm.TargetWallet)
	}
}

func TestRaiffeisenDateColumnFallback(t *testing.T) {
	fixture := encodeWindows1251(t, strings.Join([]string{
		"Дата транзакции;Описание;Сумма в валюте счета",
		"10.02.2024 08:15;Оплата;-100,00",
	}, "\n"))

	p := &RaiffeisenParser{enricher: noEnrichment()}
	transactions, err := p.ParseBankStatement(strings.NewReader(fixture), "card")
	if err != nil {
		t.Fatalf("ParseBankStatement failed: %v", err)
	}
	want := time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)
	if !transactions[0].Date.Equal(want) {
		t.Errorf("date: got %v, want %v", transactions[0].Date, want)
	}
}

func TestRaiffeisenAppliesEnrichment(t *testing.T) {
	table := enrich.NewTable()
	table.Add("magnit", enrich.Entry{Category: "Groceries"})

	fixture := encodeWindows1251(t, strings.Join([]string{
		"Дата операции;Описание;Сумма в валюте счета",
		"01.02.2024 12:30;Оплата товаров MAGNIT;-500,00",
	}, "\n"))

	p := &RaiffeisenParser{enricher: enrich.New(table)}
	transactions, err := p.ParseBankStatement(strings.NewReader(fixture), "card")
	if err != nil {
		t.Fatalf("ParseBankStatement failed: %v", err)
	}
	if transactions[0].Category != "Groceries" {
		t.Errorf("category: got %q, want %q", transactions[0].Category, "Groceries")
	}
}

func TestRaiffeisenMissingColumn(t *testing.T) {
	fixture := encodeWindows1251(t, strings.Join([]string{
		"Дата операции;Описание",
		"01.02.2024 12:30;Оплата",
	}, "\n"))

	p := &RaiffeisenParser{enricher: noEnrichment()}
	if _, err := p.ParseBankStatement(strings.NewReader(fixture), "card"); err == nil {
		t.Error("statement without an amount column parsed, want error")
	}
}

func TestRaiffeisenMalformedDate(t *testing.T) {
	fixture := encodeWindows1251(t, strings.Join([]string{
		"Дата операции;Описание;Сумма в валюте счета",
		"вчера;Оплата;-100,00",
	}, "\n"))

	p := &RaiffeisenParser{enricher: noEnrichment()}
	if _, err := p.ParseBankStatement(strings.NewReader(fixture), "card"); err == nil {
		t.Error("statement with malformed date parsed, want error")
	}
}

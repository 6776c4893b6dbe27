package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/walletkeeper/statement-converter/internal/api"
	"github.com/walletkeeper/statement-converter/internal/config"
	"github.com/walletkeeper/statement-converter/internal/enrich"
	"github.com/walletkeeper/statement-converter/internal/models"
	"github.com/walletkeeper/statement-converter/internal/parser"
	"github.com/walletkeeper/statement-converter/internal/writer"
)

const version = "1.0.0"

const cutDateLayout = "02-01-2006"

func main() {
	cfg := config.Load()

	formatFlag := flag.String("format", "raiffeisen", "Statement format: raiffeisen, alfa, rocket")
	walletFlag := flag.String("wallet", cfg.Wallet, "Name of the wallet the statement belongs to")
	keywordsFlag := flag.String("keywords", cfg.KeywordMapPath, "Path to the JSON keyword-to-category map")
	outputFlag := flag.String("output", "", "Output CSV report path (defaults to input filename with .csv extension)")
	cutDateFlag := flag.String("cut-date", "", "Drop transactions dated on or before this date (dd-mm-yyyy)")
	serveFlag := flag.Bool("serve", false, "Run the HTTP API instead of converting files")
	portFlag := flag.String("port", cfg.Port, "HTTP API port (with --serve)")
	quietFlag := flag.Bool("quiet", false, "Only log errors")
	versionFlag := flag.Bool("version", false, "Print version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Bank Statement Converter

Converts Raiffeisen and Alfa CSV exports and Rocket PDF statements into
a normalized CSV report, categorizing transactions by keyword.

Usage:
  statement-converter [flags] <statement> [statement2 ...]
  statement-converter --serve

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Convert a Raiffeisen CSV export
  statement-converter --wallet="Raiffeisen card" statement.csv

  # Convert a Rocket PDF statement with a custom keyword map
  statement-converter --format=rocket --keywords=categories.json statement.pdf

  # Drop everything up to and including 31-12-2023
  statement-converter --format=alfa --cut-date=31-12-2023 statement.csv
`)
	}

	flag.Parse()

	if *versionFlag {
		fmt.Printf("statement-converter v%s\n", version)
		os.Exit(0)
	}

	log := newLogger(cfg.LogLevel, *quietFlag)

	format, ok := models.ParseFormat(*formatFlag)
	if !ok {
		log.Fatalf("Unknown format %q. Supported: raiffeisen, alfa, rocket", *formatFlag)
	}

	var cutDate time.Time
	if *cutDateFlag != "" {
		parsed, err := time.ParseInLocation(cutDateLayout, *cutDateFlag, time.UTC)
		if err != nil {
			log.Fatalf("Malformed cut date %q: expected dd-mm-yyyy", *cutDateFlag)
		}
		cutDate = parsed
	}

	enricher := loadEnricher(log, *keywordsFlag)

	if *serveFlag {
		serve(log, enricher, *walletFlag, *portFlag)
		return
	}

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(0)
	}

	for _, inputPath := range flag.Args() {
		if err := processFile(log, inputPath, format, *walletFlag, enricher, cutDate, *outputFlag); err != nil {
			log.Fatalf("Error processing %s: %v", inputPath, err)
		}
	}
}

func newLogger(level string, quiet bool) *logrus.Logger {
	log := logrus.New()
	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	if quiet {
		logLevel = logrus.ErrorLevel
	}
	log.SetLevel(logLevel)
	return log
}

// loadEnricher builds the enrichment engine from the keyword map file.
// A missing or unreadable map disables enrichment but never fails the
// run: the report is still produced, just uncategorized.
func loadEnricher(log *logrus.Logger, path string) *enrich.Enricher {
	table, err := enrich.LoadTable(path)
	if err != nil {
		log.Warnf("Keyword map unusable, transactions won't be categorized: %v", err)
		table = enrich.NewTable()
	} else if table.Len() == 0 {
		log.Warnf("Keyword map %s not found, transactions won't be categorized", path)
	}
	return enrich.New(table)
}

func processFile(log *logrus.Logger, inputPath string, format models.Format, wallet string, enricher *enrich.Enricher, cutDate time.Time, outputPath string) error {
	f, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("open statement: %w", err)
	}
	defer f.Close()

	p, err := parser.New(format, enricher)
	if err != nil {
		return err
	}

	log.Infof("Processing %s as %s statement for wallet %q", inputPath, format, wallet)

	transactions, err := p.ParseBankStatement(f, wallet)
	if err != nil {
		return err
	}

	for _, tx := range transactions {
		log.WithFields(logrus.Fields{
			"date":   tx.Date.Format("2006-01-02"),
			"type":   tx.OperationType,
			"amount": tx.Amounts.SourceAmount.Amount,
		}).Infof("Parsed transaction: %s", tx.Description)
	}

	if !cutDate.IsZero() {
		transactions = removeOldTransactions(transactions, cutDate)
		log.Infof("%d transaction(s) left after cut date %s", len(transactions), cutDate.Format(cutDateLayout))
	}

	outPath := outputPath
	if outPath == "" {
		outPath = strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + ".csv"
	}

	w := &writer.CSVWriter{Log: log}
	if err := w.WriteToFile(outPath, transactions); err != nil {
		return err
	}

	log.Infof("Report written to %s (%d transactions)", outPath, len(transactions))
	return nil
}

// removeOldTransactions keeps only transactions strictly after the cut
// date.
func removeOldTransactions(transactions []models.Transaction, cutDate time.Time) []models.Transaction {
	kept := transactions[:0:0]
	for _, tx := range transactions {
		if tx.Date.After(cutDate) {
			kept = append(kept, tx)
		}
	}
	return kept
}

func serve(log *logrus.Logger, enricher *enrich.Enricher, wallet, port string) {
	app := fiber.New()
	h := &api.Handler{Log: log, Enricher: enricher, DefaultWallet: wallet}
	h.Register(app)

	log.Infof("Listening on :%s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// Package api exposes the converter over HTTP for clients that upload
// statements instead of running the CLI.
package api

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/walletkeeper/statement-converter/internal/enrich"
	"github.com/walletkeeper/statement-converter/internal/models"
	"github.com/walletkeeper/statement-converter/internal/parser"
	"github.com/walletkeeper/statement-converter/internal/writer"
)

const version = "1.0.0"

// pageBreak separates pages in pre-extracted statement text uploads.
const pageBreak = "\n---PAGE_BREAK---\n"

// ConvertResponse is the JSON response from POST /api/convert.
type ConvertResponse struct {
	Success          bool                 `json:"success"`
	Error            string               `json:"error,omitempty"`
	RunID            string               `json:"runId,omitempty"`
	Format           string               `json:"format,omitempty"`
	Wallet           string               `json:"wallet,omitempty"`
	Count            int                  `json:"count"`
	TotalExpenditure decimal.Decimal      `json:"totalExpenditure"`
	TotalIncome      decimal.Decimal      `json:"totalIncome"`
	Transactions     []models.Transaction `json:"transactions"`
	CSV              string               `json:"csv,omitempty"`
}

// Handler holds the HTTP handlers for the API.
type Handler struct {
	Log           *logrus.Logger
	Enricher      *enrich.Enricher
	DefaultWallet string
}

// Register sets up the API routes.
func (h *Handler) Register(app *fiber.App) {
	app.Get("/api/health", h.handleHealth)
	app.Post("/api/convert", h.handleConvert)
}

func (h *Handler) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"engine":  "fiber",
		"version": version,
	})
}

func (h *Handler) handleConvert(c *fiber.Ctx) error {
	runID := uuid.NewString()

	format, ok := models.ParseFormat(c.FormValue("format"))
	if !ok {
		return writeError(c, fiber.StatusBadRequest,
			fmt.Sprintf("unknown format %q; use raiffeisen, alfa or rocket", c.FormValue("format")))
	}

	wallet := c.FormValue("wallet")
	if wallet == "" {
		wallet = h.DefaultWallet
	}

	p, err := parser.New(format, h.Enricher)
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, err.Error())
	}

	transactions, err := h.parseUpload(c, p, format, wallet)
	if err != nil {
		return writeError(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	var csvBuf bytes.Buffer
	cw := &writer.CSVWriter{Log: h.Log}
	if err := cw.Write(&csvBuf, transactions); err != nil {
		return writeError(c, fiber.StatusInternalServerError, fmt.Sprintf("report generation failed: %v", err))
	}

	totalExpenditure, totalIncome := totals(transactions)

	h.Log.WithFields(logrus.Fields{
		"runId":  runID,
		"format": format,
		"count":  len(transactions),
	}).Info("statement converted")

	if transactions == nil {
		transactions = []models.Transaction{}
	}
	return c.JSON(ConvertResponse{
		Success:          true,
		RunID:            runID,
		Format:           string(format),
		Wallet:           wallet,
		Count:            len(transactions),
		TotalExpenditure: totalExpenditure,
		TotalIncome:      totalIncome,
		Transactions:     transactions,
		CSV:              csvBuf.String(),
	})
}

// parseUpload reads the statement either from pre-extracted page text
// (rocket only, for clients that run PDF extraction themselves) or from
// the uploaded file.
func (h *Handler) parseUpload(c *fiber.Ctx, p parser.StatementParser, format models.Format, wallet string) ([]models.Transaction, error) {
	if extracted := c.FormValue("extractedText"); extracted != "" {
		rocket, ok := p.(*parser.RocketParser)
		if !ok {
			return nil, fmt.Errorf("extractedText is only supported for the rocket format")
		}
		var pages []string
		for _, page := range strings.Split(extracted, pageBreak) {
			if page = strings.TrimSpace(page); page != "" {
				pages = append(pages, page)
			}
		}
		return rocket.ParsePages(pages, wallet)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return nil, fmt.Errorf("no statement uploaded; use form field 'file'")
	}
	f, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	return p.ParseBankStatement(f, wallet)
}

func totals(transactions []models.Transaction) (expenditure, income decimal.Decimal) {
	for _, tx := range transactions {
		amount, ok := tx.Amounts.Reportable()
		if !ok {
			continue
		}
		switch tx.OperationType {
		case models.Expenditure:
			expenditure = expenditure.Add(amount.Amount)
		case models.Income:
			income = income.Add(amount.Amount)
		}
	}
	return expenditure, income
}

func writeError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(ConvertResponse{
		Success: false,
		Error:   msg,
	})
}

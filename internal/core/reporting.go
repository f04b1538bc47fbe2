package core

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ── Dashboard ─────────────────────────────────────────────────────────────────

// Dashboard is the overview shown on the home screen.
type Dashboard struct {
	TotalDebtors       int                 `json:"totalDebtors"`
	TotalProducts      int                 `json:"totalProducts"`
	TotalOutstanding   decimal.Decimal     `json:"totalOutstanding"`
	TopDebtors         []DebtorBalance     `json:"topDebtors"`
	RecentTransactions []RecentTransaction `json:"recentTransactions"`
}

// RecentTransaction is a dashboard feed entry labelled with its debtor's name.
type RecentTransaction struct {
	Transaction
	DebtorName string `json:"debtorName"`
}

// BuildDashboard derives the aggregates from the three collections.
// Recent transactions exclude entries whose debtor no longer resolves.
func BuildDashboard(debtors []Debtor, products []Product, txs []Transaction, topN, recentN int) Dashboard {
	names := make(map[string]string, len(debtors))
	for _, d := range debtors {
		names[d.ID] = d.Name
	}
	var known []Transaction
	for _, t := range txs {
		if _, ok := names[t.DebtorID]; ok {
			known = append(known, t)
		}
	}
	SortNewestFirst(known)
	if len(known) > recentN {
		known = known[:recentN]
	}
	recent := make([]RecentTransaction, len(known))
	for i, t := range known {
		recent[i] = RecentTransaction{Transaction: t, DebtorName: names[t.DebtorID]}
	}

	return Dashboard{
		TotalDebtors:       len(debtors),
		TotalProducts:      len(products),
		TotalOutstanding:   TotalOutstanding(debtors, txs),
		TopDebtors:         TopDebtors(debtors, txs, topN),
		RecentTransactions: recent,
	}
}

// ── Export ────────────────────────────────────────────────────────────────────

var ExportHeader = []string{"Nome do Cliente", "Telefone", "Classificação", "Saldo Atual (R$)"}

const (
	exportSheet  = "Relatorio"
	exportPrefix = "relatorio_fiado_digital_"
)

// ExportRow is one debtor line of the balance report.
type ExportRow struct {
	Name    string
	Phone   string
	Status  string
	Balance decimal.Decimal
}

func (r ExportRow) cells() []string {
	return []string{r.Name, r.Phone, r.Status, FormatBRL(r.Balance)}
}

// ExportRows builds one row per debtor from the ledger balances.
func ExportRows(debtors []Debtor, txs []Transaction) []ExportRow {
	balances := Balances(debtors, txs)
	rows := make([]ExportRow, len(balances))
	for i, b := range balances {
		rows[i] = ExportRow{
			Name:    b.Debtor.Name,
			Phone:   b.Debtor.Phone,
			Status:  b.Debtor.Status.Label(),
			Balance: b.Balance,
		}
	}
	return rows
}

// FormatBRL renders d with two fraction digits and a decimal comma: 1234,50.
func FormatBRL(d decimal.Decimal) string {
	return strings.Replace(d.StringFixed(2), ".", ",", 1)
}

// ExportFilename returns relatorio_fiado_digital_<YYYY-MM-DD>.<ext>.
func ExportFilename(now time.Time, ext string) string {
	return exportPrefix + now.Format(dateLayout) + "." + ext
}

// WriteCSV writes a UTF-8 BOM followed by the ';'-separated report.
func WriteCSV(w io.Writer, rows []ExportRow) error {
	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}
	cw := csv.NewWriter(w)
	cw.Comma = ';'
	if err := cw.Write(ExportHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, r := range rows {
		if err := cw.Write(r.cells()); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes the same report as a single-sheet workbook.
func WriteXLSX(w io.Writer, rows []ExportRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	for i, h := range ExportHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(exportSheet, cell, h); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}
	for r, row := range rows {
		for c, v := range row.cells() {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(exportSheet, cell, v); err != nil {
				return fmt.Errorf("failed to write row %d: %w", r+1, err)
			}
		}
	}
	_ = f.SetColWidth(exportSheet, "A", "A", 30)
	_ = f.SetColWidth(exportSheet, "B", "B", 18)
	_ = f.SetColWidth(exportSheet, "C", "C", 14)
	_ = f.SetColWidth(exportSheet, "D", "D", 16)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

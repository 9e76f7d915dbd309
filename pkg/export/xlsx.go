// Package export renders transaction history as a spreadsheet and archives
// exported files.
package export

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/de-tools/sales-atlas/pkg/models/domain"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

const (
	SheetName   = "Transactions"
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	placeholder = "-"
	dateLayout  = "2006-01-02"
)

var Columns = []string{"Date", "Type", "Category", "Product", "Quantity", "Amount", "COGS"}

// FileName names the export of a business taken at t.
func FileName(businessID uuid.UUID, t time.Time) string {
	return fmt.Sprintf("transactions-%s-%s.xlsx", businessID, t.UTC().Format("20060102-150405"))
}

// WriteTransactions encodes txns newest first as a single-sheet workbook.
// Rows without a product carry "-" in the Product and Quantity columns.
func WriteTransactions(w io.Writer, txns []domain.Transaction) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]interface{}, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	if err := f.SetRowStyle(SheetName, 1, 1, bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	sorted := slices.Clone(txns)
	slices.SortStableFunc(sorted, func(a, b domain.Transaction) int {
		return cmp.Compare(b.Date.UnixNano(), a.Date.UnixNano())
	})

	for i, txn := range sorted {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := rowValues(txn)
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(SheetName, "A", "G", 16); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func rowValues(txn domain.Transaction) []interface{} {
	var product, quantity interface{} = placeholder, placeholder
	if txn.ProductID != nil {
		product = cmp.Or(txn.ProductName, placeholder)
		quantity = txn.Units()
	}

	return []interface{}{
		txn.Date.UTC().Format(dateLayout),
		string(txn.Type),
		txn.Category,
		product,
		quantity,
		txn.Amount,
		txn.COGS,
	}
}

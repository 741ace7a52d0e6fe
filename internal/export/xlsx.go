// Package export renders transaction history as spreadsheet files.
package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"ledgerbot/internal/models"
)

// SheetName is the worksheet holding exported transactions.
const SheetName = "Transactions"

// ContentTypeXLSX is the MIME type of an exported workbook.
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var headers = []string{"Date", "Type", "Category", "Amount", "Description"}

// Transactions writes txs into a new workbook, one row per transaction,
// with dates rendered in loc. The caller owns the returned file.
func Transactions(txs []models.Transaction, loc *time.Location) (*excelize.File, error) {
	if loc == nil {
		loc = time.UTC
	}

	f := excelize.NewFile()
	index, err := f.NewSheet(SheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to drop default sheet: %w", err)
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(SheetName, cell, h); err != nil {
			f.Close()
			return nil, err
		}
	}

	for idx, tx := range txs {
		row := idx + 2
		category := ""
		if tx.Category != nil {
			category = tx.Category.Name
		}
		description := ""
		if tx.Description != nil {
			description = *tx.Description
		}

		values := []interface{}{
			tx.OccurredAt.In(loc).Format(time.DateOnly),
			string(tx.Type),
			category,
			tx.Amount.Decimal().InexactFloat64(),
			description,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(SheetName, cell, v); err != nil {
				f.Close()
				return nil, err
			}
		}
	}

	_ = f.SetColWidth(SheetName, "A", "A", 12)
	_ = f.SetColWidth(SheetName, "B", "B", 10)
	_ = f.SetColWidth(SheetName, "C", "C", 20)
	_ = f.SetColWidth(SheetName, "D", "D", 14)
	_ = f.SetColWidth(SheetName, "E", "E", 40)

	return f, nil
}

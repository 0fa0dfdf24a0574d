package importer

import (
	"fmt"
	"io"

	"github.com/salaheddineREZIG/TheBrilliantEmporium/internal/models"

	"github.com/xuri/excelize/v2"
)

// ExportXLSX writes the user's transactions as a spreadsheet, newest
// first.
func (s *Service) ExportXLSX(userID uint, w io.Writer) error {
	var txns []models.Transaction
	if err := s.DB.Where("user_id = ?", userID).
		Order("date DESC, id DESC").Find(&txns).Error; err != nil {
		return fmt.Errorf("load transactions: %w", err)
	}
	catNames, accNames, err := s.exportNames(userID)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	sheetName := "Transactions"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for i, h := range csvHeader {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, h)
	}

	for idx, t := range txns {
		row := idx + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), t.Date.Format("2006-01-02"))
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), string(t.Type))
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), t.Amount.StringFixed(2))
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), catNames[t.CategoryID])
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), accNames[t.AccountID])
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), t.Description)
	}

	f.SetColWidth(sheetName, "A", "A", 12)
	f.SetColWidth(sheetName, "B", "B", 10)
	f.SetColWidth(sheetName, "C", "C", 12)
	f.SetColWidth(sheetName, "D", "D", 18)
	f.SetColWidth(sheetName, "E", "E", 18)
	f.SetColWidth(sheetName, "F", "F", 30)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"voxpense/internal/models"
	"voxpense/internal/repository"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

var exportHeaders = []string{"Date", "Amount", "Category", "Memo", "Transcript", "Receipt URL"}

type ExportService struct {
	expenseRepo *repository.ExpenseRepository
	logger      *zap.Logger
}

func NewExportService(expenseRepo *repository.ExpenseRepository, logger *zap.Logger) *ExportService {
	return &ExportService{
		expenseRepo: expenseRepo,
		logger:      logger,
	}
}

// ExportCSV renders the user's expenses as a CSV document: header row, one
// row per record, fields quoted/escaped per RFC 4180. The result is handed to
// the platform share sheet by the client.
func (s *ExportService) ExportCSV(ctx context.Context, userID uuid.UUID, filter repository.ExpenseFilter) ([]byte, error) {
	expenses, err := s.expenseRepo.ListByUserID(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}

	data, err := RenderCSV(expenses)
	if err != nil {
		return nil, err
	}

	s.logger.Info("CSV export",
		zap.String("user_id", userID.String()),
		zap.Int("rows", len(expenses)),
	)

	return data, nil
}

// RenderCSV writes the export columns for the given expenses, header first.
func RenderCSV(expenses []*models.Expense) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(exportHeaders); err != nil {
		return nil, err
	}
	for _, e := range expenses {
		record := []string{
			e.TxDate.Format(models.DateLayout),
			strconv.FormatFloat(e.Amount, 'f', 2, 64),
			e.Category,
			e.Memo,
			e.Transcript,
			e.ReceiptURL,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportXLSX renders the same columns as a spreadsheet.
func (s *ExportService) ExportXLSX(ctx context.Context, userID uuid.UUID, filter repository.ExpenseFilter) ([]byte, error) {
	start := time.Now()

	expenses, err := s.expenseRepo.ListByUserID(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Expenses"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	_ = f.DeleteSheet("Sheet1")

	for i, h := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, e := range expenses {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, e.TxDate.Format(models.DateLayout))
		write(2, e.Amount)
		write(3, e.Category)
		write(4, e.Memo)
		write(5, e.Transcript)
		write(6, e.ReceiptURL)
		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 14) // date
	_ = f.SetColWidth(sheet, "B", "B", 12) // amount
	_ = f.SetColWidth(sheet, "C", "C", 18) // category
	_ = f.SetColWidth(sheet, "D", "E", 40) // memo, transcript
	_ = f.SetColWidth(sheet, "F", "F", 50) // receipt url

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("XLSX export",
		zap.String("user_id", userID.String()),
		zap.Int("rows", len(expenses)),
		zap.Int64("elapsed_ms", time.Since(start).Milliseconds()),
	)

	return buf.Bytes(), nil
}

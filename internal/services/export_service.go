package services

import (
	"context"
	"fmt"
	"time"

	"steel-ledger/mtrledger/internal/logging"
	"steel-ledger/mtrledger/internal/models/dtos"

	"github.com/xuri/excelize/v2"
)

const joinedSheet = "Joined"

// ExportService writes joined views as spreadsheets.
type ExportService struct {
	join *JoinService
}

func NewExportService(join *JoinService) *ExportService {
	return &ExportService{join: join}
}

// ExportJoinedXLSX returns an .xlsx workbook with one row per joined row. The header
// row lists every flattened key; unmatched rows leave the MTR columns empty.
func (s *ExportService) ExportJoinedXLSX(ctx context.Context, filter JoinFilter) ([]byte, error) {
	start := time.Now()

	rows, err := s.join.Query(ctx, filter)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), joinedSheet); err != nil {
		return nil, fmt.Errorf("xlsx sheet: %w", err)
	}

	columns := dtos.JoinedColumns()
	colIndex := make(map[string]int, len(columns))
	for i, h := range columns {
		colIndex[h] = i + 1
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(joinedSheet, cell, h); err != nil {
			return nil, fmt.Errorf("xlsx header: %w", err)
		}
	}

	dateStyle, err := f.NewStyle(&excelize.Style{NumFmt: 14})
	if err != nil {
		return nil, fmt.Errorf("xlsx style: %w", err)
	}

	for r, row := range rows {
		rowNum := r + 2
		for _, field := range row.Fields() {
			if field.Value == nil {
				continue
			}
			col, ok := colIndex[field.Key]
			if !ok {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(col, rowNum)
			if err := f.SetCellValue(joinedSheet, cell, field.Value); err != nil {
				return nil, fmt.Errorf("xlsx cell %s: %w", cell, err)
			}
			if t, isTime := field.Value.(time.Time); isTime && isMidnight(t) {
				if err := f.SetCellStyle(joinedSheet, cell, cell, dateStyle); err != nil {
					return nil, fmt.Errorf("xlsx style %s: %w", cell, err)
				}
			}
		}
	}

	if err := f.SetPanes(joinedSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("xlsx panes: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	logging.Info("Joined view exported",
		"rows", len(rows),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func isMidnight(t time.Time) bool {
	return t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0
}

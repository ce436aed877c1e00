package tabular

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// decodeXLSX reads the first worksheet. Row one holds the headers; date-formatted
// numeric cells come back as time.Time and boolean cells as bool.
func decodeXLSX(data []byte) ([]*Row, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return []*Row{}, nil
	}
	sheet := sheets[0]

	grid, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: sheet %s: %v", ErrUnreadableFile, sheet, err)
	}
	if len(grid) == 0 {
		return []*Row{}, nil
	}

	headers := make([]string, len(grid[0]))
	for i, h := range grid[0] {
		headers[i] = strings.TrimSpace(h)
	}

	cells := newCellDecoder(f, sheet)
	rows := make([]*Row, 0, len(grid)-1)
	for r := 1; r < len(grid); r++ {
		line := grid[r]
		values := make([]any, len(line))
		blank := true
		for c, raw := range line {
			values[c] = cells.decode(c, r, raw)
			if strings.TrimSpace(raw) != "" {
				blank = false
			}
		}
		if blank {
			continue
		}

		row := NewRow(len(headers))
		for i, h := range headers {
			var v any = ""
			if i < len(values) {
				v = values[i]
			}
			row.Set(h, v)
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// cellDecoder recovers cell types that RawCellValue flattens to text.
type cellDecoder struct {
	f         *excelize.File
	sheet     string
	date1904  bool
	dateStyle map[int]bool
}

func newCellDecoder(f *excelize.File, sheet string) *cellDecoder {
	d := &cellDecoder{f: f, sheet: sheet, dateStyle: make(map[int]bool)}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		d.date1904 = *props.Date1904
	}
	return d
}

func (d *cellDecoder) decode(col, row int, raw string) any {
	if raw == "" {
		return raw
	}
	serial, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return raw
	}

	cell, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return raw
	}

	if raw == "0" || raw == "1" {
		if typ, err := d.f.GetCellType(d.sheet, cell); err == nil && typ == excelize.CellTypeBool {
			return raw == "1"
		}
	}

	styleID, err := d.f.GetCellStyle(d.sheet, cell)
	if err != nil || !d.isDateStyle(styleID) {
		return raw
	}
	t, err := excelize.ExcelDateToTime(serial, d.date1904)
	if err != nil {
		return raw
	}
	return t
}

func (d *cellDecoder) isDateStyle(styleID int) bool {
	if cached, ok := d.dateStyle[styleID]; ok {
		return cached
	}
	isDate := false
	if style, err := d.f.GetStyle(styleID); err == nil && style != nil {
		switch {
		case style.CustomNumFmt != nil:
			isDate = isDateFormatCode(*style.CustomNumFmt)
		case style.NumFmt >= 14 && style.NumFmt <= 17, style.NumFmt == 22:
			isDate = true
		}
	}
	d.dateStyle[styleID] = isDate
	return isDate
}

// isDateFormatCode looks for day or year tokens outside quoted literals and [..] sections.
func isDateFormatCode(code string) bool {
	inQuote, inBracket := false, false
	for i := 0; i < len(code); i++ {
		ch := code[i]
		switch {
		case ch == '\\':
			i++
		case ch == '"':
			inQuote = !inQuote
		case inQuote:
		case ch == '[':
			inBracket = true
		case ch == ']':
			inBracket = false
		case inBracket:
		case ch == 'y' || ch == 'Y' || ch == 'd' || ch == 'D':
			return true
		}
	}
	return false
}

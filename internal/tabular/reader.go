package tabular

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

var (
	ErrUnsupportedFormat      = errors.New("unsupported format: only CSV and XLSX files are supported")
	ErrSpreadsheetUnavailable = errors.New("spreadsheet import is not available in this build")
	ErrInvalidDelimiter       = errors.New("delimiter must be a single character")
	ErrInvalidEncoding        = errors.New("file is not valid UTF-8 text")
	ErrUnreadableFile         = errors.New("file could not be parsed")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Options controls CSV parsing. The spreadsheet path ignores both fields.
type Options struct {
	Delimiter string // default ","
	HasHeader bool
}

// DefaultOptions matches the upload form defaults.
func DefaultOptions() Options {
	return Options{Delimiter: ",", HasHeader: true}
}

type sheetDecoder func(data []byte) ([]*Row, error)

// Reader turns an uploaded file into rows. The zero value reads CSV only and reports
// ErrSpreadsheetUnavailable for spreadsheets; NewReader enables XLSX.
type Reader struct {
	decodeSheet sheetDecoder
}

func NewReader() *Reader {
	return &Reader{decodeSheet: decodeXLSX}
}

// Read selects a parser by the filename's extension and returns every non-blank data row.
func (rd *Reader) Read(data []byte, filename string, opts Options) ([]*Row, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return readCSV(data, opts)
	case ".xlsx":
		if rd == nil || rd.decodeSheet == nil {
			return nil, ErrSpreadsheetUnavailable
		}
		return rd.decodeSheet(data)
	default:
		return nil, fmt.Errorf("%w (got %q)", ErrUnsupportedFormat, filename)
	}
}

func readCSV(data []byte, opts Options) ([]*Row, error) {
	delim := opts.Delimiter
	if delim == "" {
		delim = ","
	}
	if utf8.RuneCountInString(delim) != 1 {
		return nil, ErrInvalidDelimiter
	}
	comma, _ := utf8.DecodeRuneInString(delim)

	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return nil, ErrInvalidEncoding
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var headers []string
	rows := make([]*Row, 0)
	line := 0
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: csv line %d: %v", ErrUnreadableFile, line+1, err)
		}
		line++

		if headers == nil && opts.HasHeader {
			headers = append([]string{}, record...)
			continue
		}

		row := NewRow(max(len(headers), len(record)))
		for i, h := range headers {
			if i < len(record) {
				row.Set(h, record[i])
			} else {
				row.Set(h, nil)
			}
		}
		for i := len(headers); i < len(record); i++ {
			row.Set(syntheticHeader(i), record[i])
		}

		if row.IsBlank() {
			continue
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// syntheticHeader names a column that has no header cell.
func syntheticHeader(i int) string {
	return fmt.Sprintf("column_%d", i+1)
}

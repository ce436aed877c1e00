package tabular

import (
	"bytes"
	"encoding/json"

	"steel-ledger/mtrledger/internal/coerce"
)

// Cell is one header/value pair of a source row.
type Cell struct {
	Header string
	Value  any
}

// Row is an ordered header -> value mapping. Setting an existing header replaces its
// value in place, so the first occurrence keeps its position and the last value wins.
type Row struct {
	cells []Cell
	index map[string]int
}

func NewRow(capacity int) *Row {
	return &Row{
		cells: make([]Cell, 0, capacity),
		index: make(map[string]int, capacity),
	}
}

func (r *Row) Set(header string, value any) {
	if i, ok := r.index[header]; ok {
		r.cells[i].Value = value
		return
	}
	r.index[header] = len(r.cells)
	r.cells = append(r.cells, Cell{Header: header, Value: value})
}

func (r *Row) Get(header string) (any, bool) {
	i, ok := r.index[header]
	if !ok {
		return nil, false
	}
	return r.cells[i].Value, true
}

func (r *Row) Cells() []Cell {
	return r.cells
}

func (r *Row) Len() int {
	return len(r.cells)
}

// Normalized re-keys the row by NormalizeHeader. Headers that collapse to the same
// key resolve to the value of the right-most column.
func (r *Row) Normalized() map[string]any {
	out := make(map[string]any, len(r.cells))
	for _, c := range r.cells {
		out[NormalizeHeader(c.Header)] = c.Value
	}
	return out
}

// IsBlank reports whether every value in the row is empty.
func (r *Row) IsBlank() bool {
	for _, c := range r.cells {
		if !coerce.IsBlank(c.Value) {
			return false
		}
	}
	return true
}

// MarshalJSON writes the row as a JSON object in column order. Values that have no
// natural JSON form are written as their display string.
func (r *Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range r.cells {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(c.Header)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		val, err := json.Marshal(jsonValue(c.Value))
		if err != nil {
			// anything json refuses falls back to its string form
			val, err = json.Marshal(coerce.String(c.Value))
			if err != nil {
				return nil, err
			}
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func jsonValue(v any) any {
	switch t := v.(type) {
	case nil, string, bool, float64, float32, int, int64, int32:
		return t
	default:
		return coerce.String(t)
	}
}

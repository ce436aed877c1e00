// Package coerce converts loosely formatted spreadsheet cells into typed values.
// None of these functions fail: a value that cannot be interpreted comes back nil.
package coerce

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Layouts tried in order by Date. Single-digit month and day are accepted.
var dateLayouts = []string{
	"2006-1-2", // YYYY-MM-DD
	"1/2/2006", // MM/DD/YYYY
	"1/2/06",   // MM/DD/YY
	"2-1-2006", // DD-MM-YYYY
}

// Float returns nil for nil, empty and unparsable input.
func Float(raw any) *float64 {
	var f float64
	switch v := raw.(type) {
	case nil:
		return nil
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int8:
		f = float64(v)
	case int16:
		f = float64(v)
	case int32:
		f = float64(v)
	case int64:
		f = float64(v)
	case uint:
		f = float64(v)
	case uint8:
		f = float64(v)
	case uint16:
		f = float64(v)
	case uint32:
		f = float64(v)
	case uint64:
		f = float64(v)
	case bool:
		if v {
			f = 1
		}
	case string:
		cleaned := strings.ReplaceAll(strings.TrimSpace(v), ",", "")
		if cleaned == "" {
			return nil
		}
		parsed, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return Float(fmt.Sprint(v))
	}

	// NaN and Inf can't be stored as JSON or compared sensibly
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// Int truncates toward zero.
func Int(raw any) *int64 {
	f := Float(raw)
	if f == nil {
		return nil
	}
	t := math.Trunc(*f)
	if t >= math.MaxInt64 || t < math.MinInt64 {
		return nil
	}
	n := int64(t)
	return &n
}

// Date narrows timestamps to a UTC calendar date and parses strings against dateLayouts.
func Date(raw any) *time.Time {
	switch v := raw.(type) {
	case nil:
		return nil
	case time.Time:
		if v.IsZero() {
			return nil
		}
		return dateOf(v)
	case *time.Time:
		if v == nil {
			return nil
		}
		return Date(*v)
	case string:
		text := strings.TrimSpace(v)
		if text == "" {
			return nil
		}
		for _, layout := range dateLayouts {
			if parsed, err := time.Parse(layout, text); err == nil {
				return dateOf(parsed)
			}
		}
		return nil
	default:
		return Date(fmt.Sprint(v))
	}
}

// BoolText keeps the display form of a yes/no style cell.
func BoolText(raw any) *string {
	s, ok := stringForm(raw)
	if !ok || s == "" {
		return nil
	}
	return &s
}

// Text is the char-field counterpart of BoolText: nil when empty, verbatim otherwise.
func Text(raw any) *string {
	return BoolText(raw)
}

// IsBlank reports whether a cell carries no information.
func IsBlank(raw any) bool {
	switch v := raw.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	default:
		return false
	}
}

func stringForm(raw any) (string, bool) {
	switch v := raw.(type) {
	case nil:
		return "", false
	case string:
		return v, true
	case time.Time:
		if v.Hour() == 0 && v.Minute() == 0 && v.Second() == 0 && v.Nanosecond() == 0 {
			return v.Format("2006-01-02"), true
		}
		return v.Format("2006-01-02 15:04:05"), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case bool:
		// spreadsheet booleans keep their capitalized spelling
		if v {
			return "True", true
		}
		return "False", true
	default:
		return fmt.Sprint(v), true
	}
}

// String renders any cell value the way it is stored in text columns and raw payloads.
func String(raw any) string {
	s, _ := stringForm(raw)
	return s
}

func dateOf(t time.Time) *time.Time {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &d
}

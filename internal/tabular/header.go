package tabular

import (
	"regexp"
	"strings"
)

var nonAlnumRun = regexp.MustCompile(`[^a-z0-9]+`)

// NormalizeHeader maps a column title to a snake_case key, e.g. "Lot No." -> "lot_no".
func NormalizeHeader(value string) string {
	normalized := nonAlnumRun.ReplaceAllString(strings.ToLower(strings.TrimSpace(value)), "_")
	return strings.Trim(normalized, "_")
}

package dataset

import (
	"strconv"
	"strings"
)

// missingTokens are cell values treated as absent, mirroring the usual CSV
// NA conventions.
var missingTokens = map[string]struct{}{
	"":     {},
	"na":   {},
	"n/a":  {},
	"nan":  {},
	"null": {},
	"none": {},
}

// IsMissing reports whether a raw cell value represents a missing value.
func IsMissing(cell string) bool {
	_, ok := missingTokens[strings.ToLower(strings.TrimSpace(cell))]
	return ok
}

// ParseNumeric parses a cell as a float. Missing cells report ok=false.
func ParseNumeric(cell string) (float64, bool) {
	if IsMissing(cell) {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// NumericColumns returns the names of columns whose every non-missing cell
// parses as a number. A column that is entirely missing still counts as
// numeric, matching float inference on all-NA columns.
func NumericColumns(t *Table) []string {
	var numeric []string
	for col, name := range t.Headers {
		isNumeric := true
		for row := range t.Rows {
			cell := t.Cell(row, col)
			if IsMissing(cell) {
				continue
			}
			if _, err := strconv.ParseFloat(strings.TrimSpace(cell), 64); err != nil {
				isNumeric = false
				break
			}
		}
		if isNumeric {
			numeric = append(numeric, name)
		}
	}
	return numeric
}

// ColumnValues extracts the parsed numeric values of a column, skipping
// missing cells, together with a per-row missing mask.
func ColumnValues(t *Table, col int) (values []float64, missing []bool) {
	missing = make([]bool, len(t.Rows))
	for row := range t.Rows {
		cell := t.Cell(row, col)
		if v, ok := ParseNumeric(cell); ok {
			values = append(values, v)
		} else {
			missing[row] = true
		}
	}
	return values, missing
}

package client

import (
	"fmt"
	"strconv"

	"goimpute/models"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// imputedMarker flags a cell whose value was filled in by the server.
const imputedMarker = " *"

// previewNoticeThreshold is the row count at which the truncation notice
// appears. The server caps previews at this many rows.
const previewNoticeThreshold = 50

// RenderPreviewTable renders preview rows as a text table. Column order
// follows the first row's key order. Cells whose imputation flag is set are
// marked; nil values render empty. An empty input renders a single
// placeholder row with no header.
func RenderPreviewTable(rows []models.PreviewRow, flags map[string][]bool, numericColumns []string) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)

	if len(rows) == 0 {
		t.AppendRow(table.Row{"No data available"})
		return t.Render()
	}

	columns := rows[0].Columns

	header := make(table.Row, len(columns))
	for i, col := range columns {
		header[i] = col
	}
	t.AppendHeader(header)

	numeric := make(map[string]bool, len(numericColumns))
	for _, col := range numericColumns {
		numeric[col] = true
	}
	var configs []table.ColumnConfig
	for i, col := range columns {
		if numeric[col] {
			configs = append(configs, table.ColumnConfig{
				Number: i + 1,
				Align:  text.AlignRight,
			})
		}
	}
	t.SetColumnConfigs(configs)

	anyImputed := false
	for rowIdx, row := range rows {
		cells := make(table.Row, len(columns))
		for colIdx, col := range columns {
			value := formatCell(row.Get(col))
			if cellImputed(flags, col, rowIdx) {
				value += imputedMarker
				anyImputed = true
			}
			cells[colIdx] = value
		}
		t.AppendRow(cells)
	}

	if anyImputed {
		t.AppendFooter(table.Row{"* imputed value"})
	}

	out := t.Render()
	if len(rows) >= previewNoticeThreshold {
		out += fmt.Sprintf("\nShowing first %d rows only", previewNoticeThreshold)
	}
	return out
}

func cellImputed(flags map[string][]bool, column string, rowIdx int) bool {
	mask, ok := flags[column]
	if !ok || rowIdx >= len(mask) {
		return false
	}
	return mask[rowIdx]
}

func formatCell(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

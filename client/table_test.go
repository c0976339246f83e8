package client

import (
	"fmt"
	"strings"
	"testing"

	"goimpute/models"

	"github.com/stretchr/testify/assert"
)

func previewRows(n int) []models.PreviewRow {
	rows := make([]models.PreviewRow, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, models.PreviewRow{
			Columns: []string{"name", "age"},
			Values:  map[string]interface{}{"name": fmt.Sprintf("p%d", i), "age": float64(i)},
		})
	}
	return rows
}

func TestRenderPreviewTable_Empty(t *testing.T) {
	out := RenderPreviewTable(nil, map[string][]bool{}, nil)

	assert.Contains(t, out, "No data available")
	assert.NotContains(t, out, "NAME")
	assert.NotContains(t, out, "name")
}

func TestRenderPreviewTable_ColumnOrderFollowsFirstRow(t *testing.T) {
	rows := []models.PreviewRow{{
		Columns: []string{"zeta", "alpha"},
		Values:  map[string]interface{}{"zeta": 1.0, "alpha": 2.0},
	}}

	out := RenderPreviewTable(rows, nil, nil)
	lines := strings.Split(out, "\n")
	header := lines[1]
	assert.Less(t, strings.Index(header, "ZETA"), strings.Index(header, "ALPHA"))
}

func TestRenderPreviewTable_ImputedMarker(t *testing.T) {
	rows := []models.PreviewRow{
		{Columns: []string{"age"}, Values: map[string]interface{}{"age": 35.0}},
		{Columns: []string{"age"}, Values: map[string]interface{}{"age": 40.0}},
	}
	flags := map[string][]bool{"age": {true, false}}

	out := RenderPreviewTable(rows, flags, []string{"age"})

	assert.Contains(t, out, "35 *")
	assert.NotContains(t, out, "40 *")
	assert.Contains(t, out, "* imputed value")
}

func TestRenderPreviewTable_NoMarkerWithoutFlags(t *testing.T) {
	out := RenderPreviewTable(previewRows(2), map[string][]bool{}, []string{"age"})
	assert.NotContains(t, out, "* imputed value")
}

func TestRenderPreviewTable_NullRendersEmpty(t *testing.T) {
	rows := []models.PreviewRow{{
		Columns: []string{"age"},
		Values:  map[string]interface{}{"age": nil},
	}}

	out := RenderPreviewTable(rows, nil, []string{"age"})
	assert.NotContains(t, out, "<nil>")
}

func TestRenderPreviewTable_TruncationNotice(t *testing.T) {
	// The notice appears from the 50-row preview cap onward. The server
	// never sends more than 50 rows, so 50 is the "truncated" signal.
	tests := []struct {
		rows       int
		wantNotice bool
	}{
		{0, false},
		{49, false},
		{50, true},
		{51, true},
	}

	for _, tt := range tests {
		out := RenderPreviewTable(previewRows(tt.rows), nil, []string{"age"})
		got := strings.Contains(out, "Showing first 50 rows only")
		if got != tt.wantNotice {
			t.Errorf("rows=%d: truncation notice = %v, want %v", tt.rows, got, tt.wantNotice)
		}
	}
}

func TestFormatCell(t *testing.T) {
	assert.Equal(t, "", formatCell(nil))
	assert.Equal(t, "x", formatCell("x"))
	assert.Equal(t, "1.5", formatCell(1.5))
	assert.Equal(t, "3", formatCell(3.0))
	assert.Equal(t, "true", formatCell(true))
}

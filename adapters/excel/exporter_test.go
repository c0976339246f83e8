package excel

import (
	"bytes"
	"testing"

	"goimpute/domain/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExport(t *testing.T) {
	table := &dataset.Table{
		Headers: []string{"name", "age"},
		Rows: [][]string{
			{"alice", "30"},
			{"bob", "35.5"},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, NewExporter().Export(table, &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"name", "age"}, rows[0])
	assert.Equal(t, "alice", rows[1][0])
	assert.Equal(t, "30", rows[1][1])
	assert.Equal(t, "35.5", rows[2][1])
}

func TestExport_EmptyTable(t *testing.T) {
	table := &dataset.Table{Headers: []string{"a"}}

	var buf bytes.Buffer
	require.NoError(t, NewExporter().Export(table, &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"a"}, rows[0])
}

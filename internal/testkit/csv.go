// Package testkit builds CSV fixtures for tests.
package testkit

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// CSVBuilder assembles small CSV documents row by row.
type CSVBuilder struct {
	lines []string
}

// NewCSV starts a builder with the given header row.
func NewCSV(headers ...string) *CSVBuilder {
	return &CSVBuilder{lines: []string{strings.Join(headers, ",")}}
}

// Row appends a data row. Empty cells stand for missing values.
func (b *CSVBuilder) Row(cells ...string) *CSVBuilder {
	b.lines = append(b.lines, strings.Join(cells, ","))
	return b
}

// String renders the CSV document.
func (b *CSVBuilder) String() string {
	return strings.Join(b.lines, "\n") + "\n"
}

// Reader returns the document as an io.Reader.
func (b *CSVBuilder) Reader() *strings.Reader {
	return strings.NewReader(b.String())
}

// WriteFile writes the document into dir and returns its path.
func (b *CSVBuilder) WriteFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatalf("failed to write fixture %s: %v", name, err)
	}
	return path
}

// SampleCSV is a small mixed-type table: one text column, one numeric
// column with a missing cell (observed 30 and 40, mean 35), and one fully
// observed numeric column.
func SampleCSV() *CSVBuilder {
	return NewCSV("name", "age", "score").
		Row("alice", "30", "10").
		Row("bob", "", "20").
		Row("carol", "40", "30")
}

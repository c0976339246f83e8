package dataset

import (
	"testing"
)

func TestIsMissing(t *testing.T) {
	tests := []struct {
		cell    string
		missing bool
	}{
		{"", true},
		{"  ", true},
		{"NA", true},
		{"n/a", true},
		{"NaN", true},
		{"null", true},
		{"None", true},
		{"0", false},
		{"abc", false},
		{"nane", false},
	}

	for _, tt := range tests {
		if got := IsMissing(tt.cell); got != tt.missing {
			t.Errorf("IsMissing(%q) = %v, want %v", tt.cell, got, tt.missing)
		}
	}
}

func TestNumericColumns(t *testing.T) {
	table := &Table{
		Headers: []string{"name", "age", "score", "empty"},
		Rows: [][]string{
			{"alice", "30", "1.5", ""},
			{"bob", "", "2e3", ""},
			{"carol", "40", "-7", ""},
		},
	}

	got := NumericColumns(table)
	want := []string{"age", "score", "empty"}
	if len(got) != len(want) {
		t.Fatalf("NumericColumns = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("NumericColumns[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestNumericColumns_MixedColumnIsNotNumeric(t *testing.T) {
	table := &Table{
		Headers: []string{"v"},
		Rows:    [][]string{{"1"}, {"two"}, {"3"}},
	}
	if got := NumericColumns(table); len(got) != 0 {
		t.Errorf("NumericColumns = %v, want none", got)
	}
}

func TestColumnValues(t *testing.T) {
	table := &Table{
		Headers: []string{"v"},
		Rows:    [][]string{{"10"}, {""}, {"20"}},
	}

	values, missing := ColumnValues(table, 0)
	if len(values) != 2 || values[0] != 10 || values[1] != 20 {
		t.Errorf("values = %v, want [10 20]", values)
	}
	wantMissing := []bool{false, true, false}
	for i, m := range wantMissing {
		if missing[i] != m {
			t.Errorf("missing[%d] = %v, want %v", i, missing[i], m)
		}
	}
}

func TestParseNumeric(t *testing.T) {
	if _, ok := ParseNumeric(""); ok {
		t.Error("ParseNumeric(\"\") should not be ok")
	}
	if v, ok := ParseNumeric(" 2.5 "); !ok || v != 2.5 {
		t.Errorf("ParseNumeric(\" 2.5 \") = %v, %v", v, ok)
	}
}

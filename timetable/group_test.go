package timetable

import (
	"reflect"
	"testing"
)

func TestGroupRows(t *testing.T) {
	rows := []Row{
		{"A", "Chiuso", "09:00"},
		{"Chiuso", "Chiuso", "14:00"},
		{"Chiuso", "Chiuso", "16:00"},
		{"B", "Chiuso", "10:00"},
	}

	expected := []Group{
		{Name: "A", Rows: []Row{rows[0], rows[1], rows[2]}},
		{Name: "B", Rows: []Row{rows[3]}},
	}

	groups := GroupRows(rows)

	if !reflect.DeepEqual(groups, expected) {
		t.Errorf("Incorrect groups\n   expected: %v\n   got:      %v\n", expected, groups)
	}
}

func TestGroupRowsWithBlankContinuation(t *testing.T) {
	rows := []Row{
		{"A", "x"},
		{"", "y"},
		{"Chiuso", "z"},
		{"B", "w"},
	}

	groups := GroupRows(rows)

	if len(groups) != 2 {
		t.Fatalf("Expected 2 groups, got %v", len(groups))
	}

	if groups[0].Name != "A" || len(groups[0].Rows) != 3 {
		t.Errorf("Incorrect first group - expected A with 3 rows, got %v with %v rows", groups[0].Name, len(groups[0].Rows))
	}

	if groups[1].Name != "B" || len(groups[1].Rows) != 1 {
		t.Errorf("Incorrect second group - expected B with 1 row, got %v with %v rows", groups[1].Name, len(groups[1].Rows))
	}
}

func TestGroupRowsWithOrphanContinuationRows(t *testing.T) {
	rows := []Row{
		{"Chiuso", "orphan"},
		{"", "orphan"},
		{"A", "x"},
	}

	expected := []Group{
		{Name: "A", Rows: []Row{rows[2]}},
	}

	if groups := GroupRows(rows); !reflect.DeepEqual(groups, expected) {
		t.Errorf("Incorrect groups\n   expected: %v\n   got:      %v\n", expected, groups)
	}
}

func TestGroupRowsWithoutNames(t *testing.T) {
	rows := []Row{
		{"Chiuso", "09:00"},
		{"", "10:00"},
		{},
	}

	if groups := GroupRows(rows); len(groups) != 0 {
		t.Errorf("Expected no groups, got %v", groups)
	}
}

func TestGroupRowsWithEmptyInput(t *testing.T) {
	if groups := GroupRows(nil); len(groups) != 0 {
		t.Errorf("Expected no groups, got %v", groups)
	}
}

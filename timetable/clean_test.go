package timetable

import (
	"reflect"
	"testing"
)

func TestClean(t *testing.T) {
	expected := []Row{
		{"Anagrafe", "Chiuso", "09:00", "12:00", "30"},
		{"Chiuso", "Chiuso", "Chiuso", "Chiuso", "Chiuso"},
	}

	data := [][]string{
		{" Anagrafe ", "", "09:00 ", " 12:00", "30"},
		{"chiuso", "CLOSED", "Closed", "   ", "CHIUSO"},
	}

	rows := Clean(data)

	if !reflect.DeepEqual(rows, expected) {
		t.Errorf("Incorrect cleaned rows\n   expected: %v\n   got:      %v\n", expected, rows)
	}
}

func TestCleanIsIdempotent(t *testing.T) {
	data := [][]string{
		{" Anagrafe ", "", "09:00 ", " 12:00", "30", "closed", "x"},
		{"", "CHIUSO", "9:30pm", "", "abc"},
		{},
	}

	once := Clean(data)

	values := [][]string{}
	for _, row := range once {
		values = append(values, []string(row))
	}

	twice := Clean(values)

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("Clean is not idempotent\n   once:  %v\n   twice: %v\n", once, twice)
	}
}

func TestStripHeader(t *testing.T) {
	data := [][]string{
		{"Orari di apertura"},
		{"Ufficio", "", "Lunedi"},
		{"Anagrafe"},
	}

	expected := [][]string{{"Anagrafe"}}

	if rows := StripHeader(data); !reflect.DeepEqual(rows, expected) {
		t.Errorf("Incorrect rows\n   expected: %v\n   got:      %v\n", expected, rows)
	}

	if rows := StripHeader(data[:2]); len(rows) != 0 {
		t.Errorf("Expected no rows for header-only sheet, got %v", rows)
	}

	if rows := StripHeader(nil); len(rows) != 0 {
		t.Errorf("Expected no rows for empty sheet, got %v", rows)
	}
}

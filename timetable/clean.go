package timetable

import (
	"strings"
)

// Closed is the canonical value for a closed day, a blank cell or a
// continuation row's name column.
const Closed = "Chiuso"

// HeaderRows is the number of title/header rows at the top of a worksheet.
const HeaderRows = 2

// Row is a single cleaned worksheet row. Column 0 is the calendar name.
type Row []string

// StripHeader discards the worksheet header rows.
func StripHeader(values [][]string) [][]string {
	if len(values) <= HeaderRows {
		return [][]string{}
	}

	return values[HeaderRows:]
}

// Clean trims every cell and replaces any of 'chiuso', 'closed' and blank
// (case insensitive) with 'Chiuso'.
func Clean(values [][]string) []Row {
	rows := make([]Row, 0, len(values))
	for _, v := range values {
		row := make(Row, len(v))
		for i, cell := range v {
			row[i] = CleanCell(cell)
		}

		rows = append(rows, row)
	}

	return rows
}

func CleanCell(v string) string {
	s := strings.TrimSpace(v)

	switch strings.ToLower(s) {
	case "chiuso", "closed", "":
		return Closed
	}

	return s
}

func isClosed(v string) bool {
	s := strings.TrimSpace(v)

	return s == "" || s == Closed
}

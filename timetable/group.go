package timetable

import (
	"strings"
)

// Group is the set of rows describing the weekly schedule of one calendar. The
// first row carries the calendar name, the remaining rows are continuation rows
// with additional time bands.
type Group struct {
	Name string
	Rows []Row
}

// GroupRows partitions header-free, cleaned rows into calendar groups. A row
// with a name starts a new group; a row with a blank or 'Chiuso' name continues
// the current group and is dropped if no group has been started yet.
func GroupRows(rows []Row) []Group {
	groups := []Group{}
	current := ""
	list := []Row{}

	for _, row := range rows {
		name := ""
		if len(row) > 0 {
			name = strings.TrimSpace(row[0])
		}

		if isClosed(name) {
			if current != "" {
				list = append(list, row)
			}

			continue
		}

		if current != "" {
			groups = append(groups, Group{Name: current, Rows: list})
		}

		current = name
		list = []Row{row}
	}

	if current != "" {
		groups = append(groups, Group{Name: current, Rows: list})
	}

	return groups
}

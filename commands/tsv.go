package commands

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/opensdc/sdc-app-sheets/timetable"
)

// rowsToTSV writes a worksheet as tab separated values. If clean is set the
// header rows are dropped and the cells normalised the way 'provision' sees
// them.
func rowsToTSV(f io.Writer, values [][]string, clean bool) error {
	if len(values) == 0 {
		return fmt.Errorf("empty sheet")
	}

	records := values
	if clean {
		records = [][]string{}
		for _, row := range timetable.Clean(timetable.StripHeader(values)) {
			records = append(records, row)
		}
	}

	w := csv.NewWriter(f)
	w.Comma = '\t'

	if err := w.WriteAll(records); err != nil {
		return err
	}

	return nil
}

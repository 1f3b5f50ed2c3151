package results

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

const DefaultFile = "calendars_ids.csv"

var header = []string{"Calendar ID", "Calendar Name"}

// CSV is a result log kept in a local CSV file.
type CSV struct {
	File string
}

// Header truncates the file and writes the 'Calendar ID, Calendar Name' header.
func (c *CSV) Header(ctx context.Context) error {
	if dir := filepath.Dir(c.File); dir != "" {
		if err := os.MkdirAll(dir, 0770); err != nil {
			return err
		}
	}

	return c.write(os.O_CREATE|os.O_WRONLY|os.O_TRUNC, header)
}

func (c *CSV) Append(ctx context.Context, id, name string) error {
	return c.write(os.O_CREATE|os.O_WRONLY|os.O_APPEND, []string{id, name})
}

func (c *CSV) write(flags int, record []string) error {
	f, err := os.OpenFile(c.File, flags, 0660)
	if err != nil {
		return fmt.Errorf("unable to open result log %v (%w)", c.File, err)
	}

	w := csv.NewWriter(f)
	w.Write(record)
	w.Flush()

	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("error writing result log %v (%w)", c.File, err)
	}

	return f.Close()
}

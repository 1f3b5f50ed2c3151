package sheet

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
)

// TSV reads a worksheet previously downloaded with 'get'.
type TSV struct {
	File string
}

func (t *TSV) Rows(ctx context.Context) ([][]string, error) {
	f, err := os.Open(t.File)
	if err != nil {
		return nil, err
	}

	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = '\t'
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("invalid TSV file %v (%w)", t.File, err)
	}

	return pad(records), nil
}

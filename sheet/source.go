// Package sheet reads the rows of the first worksheet of a spreadsheet, either
// from Google Sheets or from a local Excel workbook.
package sheet

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"google.golang.org/api/sheets/v4"
)

// Source returns all the rows of a worksheet, top to bottom, as text.
type Source interface {
	Rows(ctx context.Context) ([][]string, error)
}

var spreadsheetURL = regexp.MustCompile(`^https://docs.google.com/spreadsheets/d/(.*?)(?:/.*)?$`)

// SpreadsheetID extracts the spreadsheet ID from a Google Sheets URL.
func SpreadsheetID(url string) (string, error) {
	match := spreadsheetURL.FindStringSubmatch(strings.TrimSpace(url))
	if len(match) < 2 || match[1] == "" {
		return "", fmt.Errorf("invalid spreadsheet URL - expected something like 'https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms'")
	}

	return match[1], nil
}

// IsURL returns true if location looks like a Google Sheets URL rather than a
// local file.
func IsURL(location string) bool {
	return strings.HasPrefix(strings.TrimSpace(location), "https://")
}

// Open returns the source for a spreadsheet URL or a local .xlsx, .xls or .tsv
// file. The
// Sheets service is only required for URLs.
func Open(location, area string, google *sheets.Service) (Source, error) {
	location = strings.TrimSpace(location)

	if IsURL(location) {
		if google == nil {
			return nil, fmt.Errorf("no Google Sheets client for %v", location)
		}

		return NewGoogle(google, location, area)
	}

	switch strings.ToLower(filepath.Ext(location)) {
	case ".xlsx", ".xlsm":
		return &XLSX{File: location}, nil

	case ".xls":
		return &XLS{File: location}, nil

	case ".tsv":
		return &TSV{File: location}, nil

	default:
		return nil, fmt.Errorf("unsupported spreadsheet '%v' - expected a Google Sheets URL or an .xlsx, .xls or .tsv file", location)
	}
}

// pad extends every row to the width of the widest row. The reader APIs drop
// trailing empty cells, which must read as blank rather than missing.
func pad(rows [][]string) [][]string {
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}

	padded := make([][]string, 0, len(rows))
	for _, row := range rows {
		r := make([]string, width)
		copy(r, row)
		padded = append(padded, r)
	}

	return padded
}

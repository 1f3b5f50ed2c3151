package sheet

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/sheets/v4"
)

// Google reads a worksheet from Google Sheets. If Range is empty the whole of
// the first worksheet is read.
type Google struct {
	ID    string
	Range string

	service *sheets.Service
}

func NewGoogle(service *sheets.Service, url, area string) (*Google, error) {
	id, err := SpreadsheetID(url)
	if err != nil {
		return nil, err
	}

	return &Google{
		ID:      id,
		Range:   strings.TrimSpace(area),
		service: service,
	}, nil
}

func (g *Google) Rows(ctx context.Context) ([][]string, error) {
	area := g.Range
	if area == "" {
		title, err := g.firstSheet(ctx)
		if err != nil {
			return nil, err
		}

		area = fmt.Sprintf("'%v'", strings.ReplaceAll(title, "'", "''"))
	}

	response, err := g.service.Spreadsheets.Values.Get(g.ID, area).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve data from sheet (%w)", err)
	}

	rows := make([][]string, 0, len(response.Values))
	for _, row := range response.Values {
		record := make([]string, len(row))
		for i, v := range row {
			record[i] = fmt.Sprintf("%v", v)
		}

		rows = append(rows, record)
	}

	return pad(rows), nil
}

func (g *Google) firstSheet(ctx context.Context) (string, error) {
	spreadsheet, err := g.service.Spreadsheets.Get(g.ID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to fetch spreadsheet (%w)", err)
	}

	if len(spreadsheet.Sheets) == 0 || spreadsheet.Sheets[0].Properties == nil {
		return "", fmt.Errorf("spreadsheet %v has no worksheets", g.ID)
	}

	return spreadsheet.Sheets[0].Properties.Title, nil
}

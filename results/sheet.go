package results

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"time"

	"google.golang.org/api/sheets/v4"
)

const timestampFormat = "2006-01-02 15:04:05"

var sheetRange = regexp.MustCompile(`^(.+?)!.*`)

// Sheet appends the created calendars to a Google Sheets worksheet, e.g.
// 'Calendars!A1:C'. The columns are matched by header name (Timestamp,
// Calendar ID, Calendar Name) if the worksheet already has a header row.
// If Retention is non-zero, rows older than Retention days are pruned when
// the log is prepared.
type Sheet struct {
	SpreadsheetID string
	Range         string
	Retention     uint

	service *sheets.Service
	log     *slog.Logger
	now     func() time.Time
	index   map[string]int
}

func NewSheet(service *sheets.Service, spreadsheetID, area string, retention uint, log *slog.Logger) (*Sheet, error) {
	if !sheetRange.MatchString(strings.TrimSpace(area)) {
		return nil, fmt.Errorf("invalid log range '%v' - expected something like 'Calendars!A1:C'", area)
	}

	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	return &Sheet{
		SpreadsheetID: spreadsheetID,
		Range:         strings.TrimSpace(area),
		Retention:     retention,
		service:       service,
		log:           log,
		now:           time.Now,
	}, nil
}

func (s *Sheet) Header(ctx context.Context) error {
	response, err := s.service.Spreadsheets.Values.Get(s.SpreadsheetID, s.Range).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("unable to retrieve column headers from log sheet (%w)", err)
	}

	index := map[string]int{
		"timestamp":    0,
		"calendarid":   1,
		"calendarname": 2,
	}

	if len(response.Values) == 0 {
		row := []any{"Timestamp", "Calendar ID", "Calendar Name"}
		if err := s.append(ctx, row); err != nil {
			return err
		}
	} else {
		index = columns(response.Values[0])
		if _, ok := index["calendarid"]; !ok {
			return fmt.Errorf("log sheet %v has no 'Calendar ID' column (header %v)", s.Range, response.Values[0])
		}

		s.log.Debug("log sheet column index", "index", index)
	}

	s.index = index

	if s.Retention > 0 {
		return s.prune(ctx, response.Values)
	}

	return nil
}

func (s *Sheet) Append(ctx context.Context, id, name string) error {
	if s.index == nil {
		if err := s.Header(ctx); err != nil {
			return err
		}
	}

	width := 0
	for _, v := range s.index {
		if v >= width {
			width = v + 1
		}
	}

	row := make([]any, width)
	for i := range row {
		row[i] = ""
	}

	if ix, ok := s.index["timestamp"]; ok {
		row[ix] = s.now().Format(timestampFormat)
	}

	if ix, ok := s.index["calendarid"]; ok {
		row[ix] = id
	}

	if ix, ok := s.index["calendarname"]; ok {
		row[ix] = name
	}

	return s.append(ctx, row)
}

func (s *Sheet) append(ctx context.Context, row []any) error {
	rows := sheets.ValueRange{
		Values: [][]any{row},
	}

	if _, err := s.service.Spreadsheets.Values.Append(s.SpreadsheetID, s.Range, &rows).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do(); err != nil {
		return fmt.Errorf("error writing log to Google Sheets (%w)", err)
	}

	return nil
}

func (s *Sheet) prune(ctx context.Context, values [][]any) error {
	before := s.now().Add(time.Hour * time.Duration(-24*(int(s.Retention)-1)))
	cutoff := time.Date(before.Year(), before.Month(), before.Day(), 0, 0, 0, 0, before.Location())

	column := 0
	if ix, ok := s.index["timestamp"]; ok {
		column = ix
	}

	list := expired(values, column, cutoff)
	if len(list) == 0 {
		return nil
	}

	spreadsheet, err := s.service.Spreadsheets.Get(s.SpreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to fetch spreadsheet (%w)", err)
	}

	sheet, err := worksheet(spreadsheet, s.Range)
	if err != nil {
		return err
	}

	// Row indices in the Values response are relative to the top of the range
	offset, _ := top(s.Range)

	rq := sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{},
	}

	deleted := 0
	for _, r := range contiguous(list) {
		rq.Requests = append(rq.Requests, &sheets.Request{
			DeleteDimension: &sheets.DeleteDimensionRequest{
				Range: &sheets.DimensionRange{
					SheetId:    sheet.Properties.SheetId,
					Dimension:  "ROWS",
					StartIndex: int64(offset + r[0] - deleted),
					EndIndex:   int64(offset + r[1] - deleted + 1),
				},
			},
		})

		deleted += r[1] - r[0] + 1
	}

	if _, err := s.service.Spreadsheets.BatchUpdate(s.SpreadsheetID, &rq).Context(ctx).Do(); err != nil {
		return fmt.Errorf("error pruning log sheet (%w)", err)
	}

	s.log.Info("pruned log sheet", "records", deleted, "before", cutoff.Format("2006-01-02"))

	return nil
}

func columns(header []any) map[string]int {
	index := map[string]int{}

	for i, v := range header {
		switch normalise(fmt.Sprintf("%v", v)) {
		case "timestamp":
			index["timestamp"] = i
		case "calendarid", "id":
			index["calendarid"] = i
		case "calendarname", "calendar", "name":
			index["calendarname"] = i
		}
	}

	return index
}

// expired returns the (sorted) indices of the rows with a timestamp before cutoff.
func expired(values [][]any, column int, cutoff time.Time) []int {
	list := []int{}

	for row, record := range values {
		if column >= len(record) {
			continue
		}

		timestamp, err := time.ParseInLocation(timestampFormat, fmt.Sprintf("%v", record[column]), cutoff.Location())
		if err == nil && timestamp.Before(cutoff) {
			list = append(list, row)
		}
	}

	sort.Ints(list)

	return list
}

// contiguous collapses a sorted list of row indices into [start,end] runs.
func contiguous(list []int) [][2]int {
	if len(list) == 0 {
		return nil
	}

	runs := [][2]int{}
	start := list[0]
	last := list[0]

	for _, row := range list[1:] {
		if row != last+1 {
			runs = append(runs, [2]int{start, last})
			start = row
		}

		last = row
	}

	return append(runs, [2]int{start, last})
}

func worksheet(spreadsheet *sheets.Spreadsheet, area string) (*sheets.Sheet, error) {
	match := sheetRange.FindStringSubmatch(area)
	if len(match) < 2 {
		return nil, fmt.Errorf("invalid range '%v'", area)
	}

	name := strings.Trim(match[1], "'")
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil && normalise(sheet.Properties.Title) == normalise(name) {
			return sheet, nil
		}
	}

	return nil, fmt.Errorf("unable to identify worksheet for '%v'", area)
}

var topRow = regexp.MustCompile(`^.+?![a-zA-Z]+([0-9]+)`)

// top returns the zero-based index of the first row of a range, e.g. 0 for
// 'Calendars!A1:C' and 2 for 'Calendars!A3:C'.
func top(area string) (int, bool) {
	match := topRow.FindStringSubmatch(area)
	if len(match) < 2 {
		return 0, false
	}

	var row int
	if _, err := fmt.Sscanf(match[1], "%d", &row); err != nil || row < 1 {
		return 0, false
	}

	return row - 1, true
}

func normalise(v string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(v), " ", ""))
}

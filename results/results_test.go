package results

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

func TestCSV(t *testing.T) {
	file := filepath.Join(t.TempDir(), "logs", "calendars_ids.csv")
	log := CSV{File: file}

	require.NoError(t, os.MkdirAll(filepath.Dir(file), 0770))
	require.NoError(t, os.WriteFile(file, []byte("stale\n"), 0660))

	require.NoError(t, log.Header(context.Background()))
	require.NoError(t, log.Append(context.Background(), "cal-1", "Anagrafe"))
	require.NoError(t, log.Append(context.Background(), "cal-2", "Stato civile, piano 2"))

	b, err := os.ReadFile(file)
	require.NoError(t, err)

	expected := "Calendar ID,Calendar Name\ncal-1,Anagrafe\ncal-2,\"Stato civile, piano 2\"\n"
	assert.Equal(t, expected, string(b))
}

type failing struct {
	appended []string
	err      error
}

func (f *failing) Header(ctx context.Context) error {
	return f.err
}

func (f *failing) Append(ctx context.Context, id, name string) error {
	f.appended = append(f.appended, id)
	return f.err
}

func TestMulti(t *testing.T) {
	broken := &failing{err: errors.New("qwerty")}
	ok := &failing{}

	m := Multi{broken, ok}

	err := m.Append(context.Background(), "cal-1", "Anagrafe")
	require.ErrorContains(t, err, "qwerty")
	assert.Equal(t, []string{"cal-1"}, ok.appended)

	assert.NoError(t, Multi{ok}.Header(context.Background()))
}

func TestColumns(t *testing.T) {
	expected := map[string]int{"calendarname": 0, "timestamp": 1, "calendarid": 3}

	index := columns([]any{"Calendar Name", "Timestamp", "Notes", " Calendar ID "})
	if !reflect.DeepEqual(index, expected) {
		t.Errorf("Incorrect column index\n   expected: %v\n   got:      %v\n", expected, index)
	}
}

func TestExpired(t *testing.T) {
	cutoff := time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC)
	values := [][]any{
		{"Timestamp", "Calendar ID", "Calendar Name"},
		{"2026-09-01 10:00:00", "cal-1", "Anagrafe"},
		{"2026-09-30 23:59:59", "cal-2", "Tributi"},
		{"2026-10-01 00:00:00", "cal-3", "Protocollo"},
		{},
		{"2026-09-15 10:00:00", "cal-4", "Servizi sociali"},
	}

	expected := []int{1, 2, 5}
	if list := expired(values, 0, cutoff); !reflect.DeepEqual(list, expected) {
		t.Errorf("Incorrect expired rows - expected %v, got %v", expected, list)
	}
}

func TestContiguous(t *testing.T) {
	expected := [][2]int{{1, 2}, {5, 5}, {7, 9}}
	if runs := contiguous([]int{1, 2, 5, 7, 8, 9}); !reflect.DeepEqual(runs, expected) {
		t.Errorf("Incorrect runs - expected %v, got %v", expected, runs)
	}

	if runs := contiguous(nil); runs != nil {
		t.Errorf("Expected no runs, got %v", runs)
	}
}

func TestTop(t *testing.T) {
	tests := map[string]int{
		"Calendars!A1:C":   0,
		"Calendars!A3:C":   2,
		"'Log 2026'!B10:D": 9,
	}

	for area, expected := range tests {
		row, ok := top(area)
		if !ok || row != expected {
			t.Errorf("Incorrect top row for %v - expected %v, got %v (%v)", area, expected, row, ok)
		}
	}

	if _, ok := top("Calendars"); ok {
		t.Errorf("Expected invalid range for 'Calendars'")
	}
}

func TestNewSheetWithInvalidRange(t *testing.T) {
	_, err := NewSheet(nil, "abc", "A1:C", 0, nil)
	assert.Error(t, err)
}

func TestSheetAppend(t *testing.T) {
	var appended [][]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		switch {
		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, ":append"):
			assert.Equal(t, "RAW", r.URL.Query().Get("valueInputOption"))
			assert.Equal(t, "INSERT_ROWS", r.URL.Query().Get("insertDataOption"))

			var rows sheets.ValueRange
			require.NoError(t, json.NewDecoder(r.Body).Decode(&rows))
			appended = append(appended, rows.Values...)
			w.Write([]byte(`{}`))

		case r.Method == http.MethodGet && strings.Contains(r.URL.Path, "/values/"):
			w.Write([]byte(`{"range":"Calendars!A1:C2","values":[["Calendar ID","Calendar Name","Timestamp"],["cal-0","Tributi","2026-10-16 09:00:00"]]}`))

		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	service, err := sheets.NewService(context.Background(), option.WithEndpoint(server.URL+"/"), option.WithoutAuthentication())
	require.NoError(t, err)

	log, err := NewSheet(service, "abc", "Calendars!A1:C", 0, nil)
	require.NoError(t, err)

	log.now = func() time.Time { return time.Date(2026, time.October, 17, 9, 30, 0, 0, time.Local) }

	require.NoError(t, log.Header(context.Background()))
	require.NoError(t, log.Append(context.Background(), "cal-1", "Anagrafe"))

	expected := [][]any{
		{"cal-1", "Anagrafe", "2026-10-17 09:30:00"},
	}

	assert.Equal(t, expected, appended)
}

func TestSheetHeaderWithoutCalendarIDColumn(t *testing.T) {
	appended := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		switch {
		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, ":append"):
			appended++
			w.Write([]byte(`{}`))

		case r.Method == http.MethodGet && strings.Contains(r.URL.Path, "/values/"):
			w.Write([]byte(`{"range":"Calendars!A1:C1","values":[["Foo","Bar"]]}`))

		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	service, err := sheets.NewService(context.Background(), option.WithEndpoint(server.URL+"/"), option.WithoutAuthentication())
	require.NoError(t, err)

	log, err := NewSheet(service, "abc", "Calendars!A1:C", 0, nil)
	require.NoError(t, err)

	err = log.Header(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Calendar ID")

	assert.Error(t, log.Append(context.Background(), "cal-1", "Anagrafe"))
	assert.Equal(t, 0, appended)
}

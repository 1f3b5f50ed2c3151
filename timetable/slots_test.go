package timetable

import (
	"bytes"
	"log/slog"
	"reflect"
	"strings"
	"testing"
	"time"
)

// week builds a 20 column row with every day closed except the days in hours.
func week(name string, hours map[int][3]string) Row {
	row := make(Row, 20)
	for i := range row {
		row[i] = Closed
	}

	row[0] = name
	for day, v := range hours {
		col := 2 + 3*(day-1)
		row[col] = v[0]
		row[col+1] = v[1]
		row[col+2] = v[2]
	}

	return row
}

func TestConsolidate(t *testing.T) {
	rows := []Row{
		week("Anagrafe", map[int][3]string{
			1: {"09:00", "12:00", "30"},
			2: {"09:00", "12:00", "30"},
			3: {"14:00", "17:00", "15"},
		}),
	}

	expected := []Slot{
		{Key: Key{Begin: "09:00", End: "12:00", Minutes: 30}, Days: []int{1, 2}},
		{Key: Key{Begin: "14:00", End: "17:00", Minutes: 15}, Days: []int{3}},
	}

	table := Consolidate(rows, nil)

	if slots := table.Slots(); !reflect.DeepEqual(slots, expected) {
		t.Errorf("Incorrect slots\n   expected: %v\n   got:      %v\n", expected, slots)
	}
}

func TestConsolidateWithDuplicateRows(t *testing.T) {
	rows := []Row{
		week("Anagrafe", map[int][3]string{1: {"09:00", "12:00", "30"}}),
		week("Chiuso", map[int][3]string{1: {"09:00", "12:00", "30"}}),
	}

	table := Consolidate(rows, nil)

	if table.Len() != 1 {
		t.Fatalf("Expected 1 slot, got %v", table.Len())
	}

	key := Key{Begin: "09:00", End: "12:00", Minutes: 30}
	if days := table.Days(key); !reflect.DeepEqual(days, []int{1}) {
		t.Errorf("Incorrect days - expected %v, got %v", []int{1}, days)
	}
}

func TestConsolidateWithClosedDays(t *testing.T) {
	rows := []Row{
		week("Anagrafe", map[int][3]string{
			1: {"Chiuso", "12:00", "30"},
			2: {"09:00", "Chiuso", "30"},
			3: {"", "12:00", "30"},
			4: {"09:00", "12:00", "30"},
		}),
	}

	expected := []Slot{
		{Key: Key{Begin: "09:00", End: "12:00", Minutes: 30}, Days: []int{4}},
	}

	if slots := Consolidate(rows, nil).Slots(); !reflect.DeepEqual(slots, expected) {
		t.Errorf("Incorrect slots\n   expected: %v\n   got:      %v\n", expected, slots)
	}
}

func TestConsolidateWithInvalidTime(t *testing.T) {
	var b bytes.Buffer
	log := slog.New(slog.NewTextHandler(&b, nil))

	rows := []Row{
		week("Anagrafe", map[int][3]string{
			1: {"25:61", "12:00", "30"},
			2: {"09:00", "9:30pm", "30"},
			3: {"09:00", "12:00", "30"},
		}),
	}

	expected := []Slot{
		{Key: Key{Begin: "09:00", End: "12:00", Minutes: 30}, Days: []int{3}},
	}

	if slots := Consolidate(rows, log).Slots(); !reflect.DeepEqual(slots, expected) {
		t.Errorf("Incorrect slots\n   expected: %v\n   got:      %v\n", expected, slots)
	}

	if !strings.Contains(b.String(), "invalid opening time") || !strings.Contains(b.String(), "invalid closing time") {
		t.Errorf("Expected warnings for invalid times, got:\n%v", b.String())
	}
}

func TestConsolidateWithInvalidMeetingMinutes(t *testing.T) {
	rows := []Row{
		week("Anagrafe", map[int][3]string{
			1: {"09:00", "12:00", "mezz'ora"},
			2: {"09:00", "12:00", "-15"},
			3: {"09:00", "12:00", "Chiuso"},
		}),
	}

	expected := []Slot{
		{Key: Key{Begin: "09:00", End: "12:00", Minutes: DefaultMeetingMinutes}, Days: []int{1, 2, 3}},
	}

	if slots := Consolidate(rows, nil).Slots(); !reflect.DeepEqual(slots, expected) {
		t.Errorf("Incorrect slots\n   expected: %v\n   got:      %v\n", expected, slots)
	}
}

func TestConsolidateWithZeroMeetingMinutes(t *testing.T) {
	rows := []Row{
		week("Anagrafe", map[int][3]string{1: {"09:00", "12:00", "0"}}),
	}

	expected := []Slot{
		{Key: Key{Begin: "09:00", End: "12:00", Minutes: 0}, Days: []int{1}},
	}

	if slots := Consolidate(rows, nil).Slots(); !reflect.DeepEqual(slots, expected) {
		t.Errorf("Incorrect slots\n   expected: %v\n   got:      %v\n", expected, slots)
	}
}

func TestConsolidateWithReversedTimes(t *testing.T) {
	var b bytes.Buffer
	log := slog.New(slog.NewTextHandler(&b, nil))

	rows := []Row{
		week("Anagrafe", map[int][3]string{
			1: {"12:00", "09:00", "30"},
			2: {"09:00", "09:00", "30"},
		}),
	}

	expected := []Slot{
		{Key: Key{Begin: "12:00", End: "09:00", Minutes: 30}, Days: []int{1}},
		{Key: Key{Begin: "09:00", End: "09:00", Minutes: 30}, Days: []int{2}},
	}

	if slots := Consolidate(rows, log).Slots(); !reflect.DeepEqual(slots, expected) {
		t.Errorf("Incorrect slots\n   expected: %v\n   got:      %v\n", expected, slots)
	}

	if n := strings.Count(b.String(), "closing time is not after opening time"); n != 2 {
		t.Errorf("Expected 2 warnings for reversed times, got %v:\n%v", n, b.String())
	}
}

func TestConsolidateWithShortRow(t *testing.T) {
	var b bytes.Buffer
	log := slog.New(slog.NewTextHandler(&b, nil))

	rows := []Row{
		{"Anagrafe", Closed, "09:00", "12:00", "30", "10:00", "11:00"},
	}

	expected := []Slot{
		{Key: Key{Begin: "09:00", End: "12:00", Minutes: 30}, Days: []int{1}},
	}

	if slots := Consolidate(rows, log).Slots(); !reflect.DeepEqual(slots, expected) {
		t.Errorf("Incorrect slots\n   expected: %v\n   got:      %v\n", expected, slots)
	}

	if !strings.Contains(b.String(), "incomplete row") {
		t.Errorf("Expected warning for incomplete row, got:\n%v", b.String())
	}
}

func TestConsolidateWithMultipleBands(t *testing.T) {
	rows := []Row{
		week("Anagrafe", map[int][3]string{1: {"09:00", "12:00", "30"}}),
		week("Chiuso", map[int][3]string{1: {"14:00", "16:00", "30"}}),
	}

	expected := []Slot{
		{Key: Key{Begin: "09:00", End: "12:00", Minutes: 30}, Days: []int{1}},
		{Key: Key{Begin: "14:00", End: "16:00", Minutes: 30}, Days: []int{1}},
	}

	if slots := Consolidate(rows, nil).Slots(); !reflect.DeepEqual(slots, expected) {
		t.Errorf("Incorrect slots\n   expected: %v\n   got:      %v\n", expected, slots)
	}
}

func TestConsolidateWithConflictingBands(t *testing.T) {
	rows := []Row{
		week("Anagrafe", map[int][3]string{1: {"09:00", "12:00", "30"}}),
		week("Chiuso", map[int][3]string{1: {"10:00", "13:00", "20"}, 2: {"10:00", "13:00", "20"}}),
	}

	expected := []Slot{
		{Key: Key{Begin: "09:00", End: "12:00", Minutes: 30}, Days: []int{1}},
		{Key: Key{Begin: "10:00", End: "13:00", Minutes: 20}, Days: []int{2}},
	}

	if slots := Consolidate(rows, nil).Slots(); !reflect.DeepEqual(slots, expected) {
		t.Errorf("Incorrect slots\n   expected: %v\n   got:      %v\n", expected, slots)
	}
}

func TestConsolidateNormalisesTimes(t *testing.T) {
	rows := []Row{
		week("Anagrafe", map[int][3]string{
			1: {"9:00", "12:00", "30"},
			2: {"09:00", "12:00", "30"},
		}),
	}

	key := Key{Begin: "09:00", End: "12:00", Minutes: 30}
	if days := Consolidate(rows, nil).Days(key); !reflect.DeepEqual(days, []int{1, 2}) {
		t.Errorf("Incorrect days - expected %v, got %v", []int{1, 2}, days)
	}
}

func TestRules(t *testing.T) {
	now := time.Date(2026, time.October, 17, 8, 30, 15, 999, time.UTC)
	window := NewWindow(now)

	rows := []Row{
		week("Anagrafe", map[int][3]string{2: {"09:00", "12:00", "30"}}),
		week("Chiuso", map[int][3]string{1: {"09:00", "12:00", "30"}}),
	}

	expected := []Rule{
		{
			Name:            "Orario 09:00-12:00",
			From:            time.Date(2026, time.October, 17, 8, 30, 15, 0, time.UTC),
			To:              time.Date(2027, time.October, 17, 8, 30, 15, 0, time.UTC),
			Days:            []int{1, 2},
			Begin:           "09:00",
			End:             "12:00",
			Moderated:       false,
			MeetingMinutes:  30,
			IntervalMinutes: 0,
			MeetingQueue:    1,
		},
	}

	rules := Rules(Consolidate(rows, nil), window)

	if !reflect.DeepEqual(rules, expected) {
		t.Errorf("Incorrect rules\n   expected: %+v\n   got:      %+v\n", expected, rules)
	}

	if s := rules[0].From.Format(DateFormat); s != "2026-10-17T08:30:15Z" {
		t.Errorf("Incorrect start date - expected %v, got %v", "2026-10-17T08:30:15Z", s)
	}
}

func TestRulesWithEmptyTable(t *testing.T) {
	if rules := Rules(NewTable(), NewWindow(time.Now())); len(rules) != 0 {
		t.Errorf("Expected no rules, got %v", rules)
	}
}

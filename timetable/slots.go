package timetable

import (
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// DefaultMeetingMinutes replaces a missing or malformed meeting duration.
const DefaultMeetingMinutes = 30

// Weekday column bands: Monday (1) starts at column 2, each day is an
// (open, close, meeting minutes) triple.
var bands = []struct {
	day    int
	column int
}{
	{1, 2},
	{2, 5},
	{3, 8},
	{4, 11},
	{5, 14},
	{6, 17},
}

var digits = regexp.MustCompile(`^[0-9]+$`)

// Key identifies a recurring weekly rule. Days that share a key are merged
// into a single opening hours record.
type Key struct {
	Begin     string
	End       string
	Minutes   int
	Moderated bool
}

func (k Key) String() string {
	moderated := "no"
	if k.Moderated {
		moderated = "si"
	}

	return fmt.Sprintf("%v-%v/%vm/%v", k.Begin, k.End, k.Minutes, moderated)
}

// Slot is a key with the weekdays (1=Monday..6=Saturday) it applies to.
type Slot struct {
	Key
	Days []int
}

// Table maps time slot keys to weekday sets, preserving the order in which
// keys were first seen.
type Table struct {
	slots []*Slot
	index map[Key]*Slot
}

func NewTable() *Table {
	return &Table{
		slots: []*Slot{},
		index: map[Key]*Slot{},
	}
}

// Add records that the rule identified by key applies to day. Adding the same
// (key, day) pair twice is a no-op. Returns false if the day was already present.
func (t *Table) Add(key Key, day int) bool {
	slot, ok := t.index[key]
	if !ok {
		slot = &Slot{Key: key, Days: []int{}}
		t.index[key] = slot
		t.slots = append(t.slots, slot)
	}

	for _, d := range slot.Days {
		if d == day {
			return false
		}
	}

	slot.Days = append(slot.Days, day)

	return true
}

// Days returns the sorted weekdays for key, or nil if the key is not present.
func (t *Table) Days(key Key) []int {
	if slot, ok := t.index[key]; ok {
		days := append([]int{}, slot.Days...)
		sort.Ints(days)
		return days
	}

	return nil
}

// Slots returns a copy of the table contents with each weekday list sorted
// ascending.
func (t *Table) Slots() []Slot {
	list := make([]Slot, 0, len(t.slots))
	for _, s := range t.slots {
		days := append([]int{}, s.Days...)
		sort.Ints(days)

		list = append(list, Slot{Key: s.Key, Days: days})
	}

	return list
}

func (t *Table) Len() int {
	return len(t.slots)
}

// conflict returns the key of an overlapping time band already claimed for day.
func (t *Table) conflict(key Key, day int) (Key, bool) {
	begin, _ := minutes(key.Begin)
	end, _ := minutes(key.End)

	for _, s := range t.slots {
		if s.Key == key {
			continue
		}

		for _, d := range s.Days {
			if d != day {
				continue
			}

			b, _ := minutes(s.Begin)
			e, _ := minutes(s.End)
			if begin < e && b < end {
				return s.Key, true
			}
		}
	}

	return Key{}, false
}

// Consolidate scans the rows of a group across the six weekday bands and
// merges the days that share an identical rule. Malformed cells never fail the
// consolidation: the offending day is skipped (or the meeting duration
// defaulted) and a warning is logged.
func Consolidate(rows []Row, log *slog.Logger) *Table {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	table := NewTable()

	for i, row := range rows {
		for _, band := range bands {
			day := band.day
			col := band.column
			weekday := time.Weekday(day).String()

			if len(row) < col+3 {
				log.Warn("incomplete row", "row", i, "day", weekday, "columns", fmt.Sprintf("%v-%v", col, col+2))
				continue
			}

			begin := strings.TrimSpace(row[col])
			end := strings.TrimSpace(row[col+1])
			duration := strings.TrimSpace(row[col+2])

			if isClosed(begin) || isClosed(end) {
				continue
			}

			from, ok := parseTime(begin)
			if !ok {
				log.Warn("invalid opening time", "row", i, "day", weekday, "begin", begin, "end", end)
				continue
			}

			to, ok := parseTime(end)
			if !ok {
				log.Warn("invalid closing time", "row", i, "day", weekday, "begin", begin, "end", end)
				continue
			}

			if from >= to {
				log.Warn("closing time is not after opening time", "row", i, "day", weekday, "begin", from, "end", to)
			}

			m, ok := parseMinutes(duration)
			if !ok {
				log.Warn("invalid meeting minutes, using default", "row", i, "day", weekday, "minutes", duration, "default", DefaultMeetingMinutes)
				m = DefaultMeetingMinutes
			}

			key := Key{
				Begin:     from,
				End:       to,
				Minutes:   m,
				Moderated: false,
			}

			if other, ok := table.conflict(key, day); ok {
				log.Warn("conflicting time band ignored", "row", i, "day", weekday, "slot", key, "existing", other)
				continue
			}

			table.Add(key, day)
		}
	}

	return table
}

// parseTime validates a 24 hour HH:MM time and returns it in canonical form.
func parseTime(v string) (string, bool) {
	t, err := time.Parse("15:04", v)
	if err != nil {
		return "", false
	}

	return t.Format("15:04"), true
}

func parseMinutes(v string) (int, bool) {
	if !digits.MatchString(v) {
		return 0, false
	}

	m, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}

	return m, true
}

func minutes(hhmm string) (int, error) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return 0, err
	}

	return t.Hour()*60 + t.Minute(), nil
}

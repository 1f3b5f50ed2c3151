package timetable

import (
	"fmt"
	"time"
)

// ValidityDays is the length of the opening hours validity window.
const ValidityDays = 365

// DateFormat is the ISO-8601 UTC layout used for opening hours validity dates.
const DateFormat = "2006-01-02T15:04:05Z"

// Window is the validity period applied to every opening hours rule of a run.
type Window struct {
	From time.Time
	To   time.Time
}

func NewWindow(now time.Time) Window {
	from := now.UTC().Truncate(time.Second)

	return Window{
		From: from,
		To:   from.AddDate(0, 0, ValidityDays),
	}
}

// Rule is a single recurring weekly opening hours definition.
type Rule struct {
	Name            string
	From            time.Time
	To              time.Time
	Days            []int
	Begin           string
	End             string
	Moderated       bool
	MeetingMinutes  int
	IntervalMinutes int
	MeetingQueue    int
}

// Rules converts a consolidated table into opening hours rules, one per time
// slot key, in the order the keys were first seen.
func Rules(table *Table, window Window) []Rule {
	rules := []Rule{}

	for _, slot := range table.Slots() {
		rules = append(rules, Rule{
			Name:            fmt.Sprintf("Orario %v-%v", slot.Begin, slot.End),
			From:            window.From,
			To:              window.To,
			Days:            slot.Days,
			Begin:           slot.Begin,
			End:             slot.End,
			Moderated:       slot.Moderated,
			MeetingMinutes:  slot.Minutes,
			IntervalMinutes: 0,
			MeetingQueue:    1,
		})
	}

	return rules
}

// Package preview renders the opening hours rules of a dry run as weekly
// recurring events, so that a time-table can be checked in any calendar
// application before it is provisioned.
package preview

import (
	"fmt"
	"io"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"
	"github.com/teambition/rrule-go"

	"github.com/opensdc/sdc-app-sheets/timetable"
)

const productID = "-//opensdc//sdc-app-sheets//IT"

// Calendar is a named calendar and the rules generated for it.
type Calendar struct {
	Name  string
	Rules []timetable.Rule
}

type Options struct {
	// Zone is the time zone of the opening hours. Defaults to time.Local.
	Zone *time.Location

	// Location is the LOCATION of the generated events.
	Location string

	// Now is the DTSTAMP of the generated events. Defaults to time.Now().
	Now time.Time
}

var weekdays = map[int]rrule.Weekday{
	1: rrule.MO,
	2: rrule.TU,
	3: rrule.WE,
	4: rrule.TH,
	5: rrule.FR,
	6: rrule.SA,
	7: rrule.SU,
}

// ICS writes an iCalendar file with one weekly recurring event per rule.
func ICS(w io.Writer, calendars []Calendar, options Options) error {
	zone := options.Zone
	if zone == nil {
		zone = time.Local
	}

	now := options.Now
	if now.IsZero() {
		now = time.Now()
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)
	cal.SetXWRCalName("sdc-app-sheets")

	for _, c := range calendars {
		for _, rule := range c.Rules {
			r, duration, err := recurrence(rule, zone)
			if err != nil {
				return fmt.Errorf("%v: %v (%w)", c.Name, rule.Name, err)
			}

			occurrences := r.Between(rule.From, rule.To, true)
			if len(occurrences) == 0 {
				continue
			}

			start := occurrences[0]

			event := cal.AddEvent(uid(c.Name, rule))
			event.SetDtStampTime(now)
			event.SetStartAt(start)
			event.SetEndAt(start.Add(duration))
			event.SetSummary(fmt.Sprintf("%v - %v", c.Name, rule.Name))
			event.SetDescription(fmt.Sprintf("%v minute appointments", rule.MeetingMinutes))
			if options.Location != "" {
				event.SetLocation(options.Location)
			}
			event.AddRrule(r.OrigOptions.RRuleString())
		}
	}

	return cal.SerializeTo(w)
}

// Occurrences returns the start times of the weekly openings generated by a
// rule within its validity window.
func Occurrences(rule timetable.Rule, zone *time.Location) ([]time.Time, error) {
	if zone == nil {
		zone = time.Local
	}

	r, _, err := recurrence(rule, zone)
	if err != nil {
		return nil, err
	}

	return r.Between(rule.From, rule.To, true), nil
}

func recurrence(rule timetable.Rule, zone *time.Location) (*rrule.RRule, time.Duration, error) {
	begin, err := time.ParseInLocation("15:04", rule.Begin, zone)
	if err != nil {
		return nil, 0, fmt.Errorf("invalid opening time '%v'", rule.Begin)
	}

	end, err := time.ParseInLocation("15:04", rule.End, zone)
	if err != nil {
		return nil, 0, fmt.Errorf("invalid closing time '%v'", rule.End)
	}

	days := []rrule.Weekday{}
	for _, d := range rule.Days {
		wd, ok := weekdays[d]
		if !ok {
			return nil, 0, fmt.Errorf("invalid weekday %v", d)
		}

		days = append(days, wd)
	}

	if len(days) == 0 {
		return nil, 0, fmt.Errorf("no weekdays")
	}

	from := rule.From.In(zone)

	r, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.WEEKLY,
		Dtstart:   time.Date(from.Year(), from.Month(), from.Day(), begin.Hour(), begin.Minute(), 0, 0, zone),
		Until:     rule.To.UTC(),
		Byweekday: days,
	})
	if err != nil {
		return nil, 0, err
	}

	return r, end.Sub(begin), nil
}

// uid is derived from the calendar and rule so that re-exporting the same
// time-table replaces rather than duplicates the events.
func uid(calendar string, rule timetable.Rule) string {
	key := fmt.Sprintf("%v|%v|%v|%v", calendar, rule.Name, rule.Days, rule.MeetingMinutes)

	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(key)).String() + "@sdc-app-sheets"
}

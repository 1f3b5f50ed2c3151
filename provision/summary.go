package provision

import (
	"fmt"
)

// Result is the outcome for a single calendar group.
type Result struct {
	Name   string
	ID     string
	Rules  int
	Failed int
	Err    error
}

// Summary tallies a provisioning run.
type Summary struct {
	Groups          int
	CalendarsOK     int
	CalendarsFailed int
	RulesOK         int
	RulesFailed     int
	Calendars       []Result
}

func (s *Summary) add(r Result) {
	s.Calendars = append(s.Calendars, r)

	if r.ID == "" {
		s.CalendarsFailed++
	} else {
		s.CalendarsOK++
	}

	s.RulesOK += r.Rules
	s.RulesFailed += r.Failed
}

func (s Summary) String() string {
	return fmt.Sprintf("calendars: %v/%v created, %v failed  opening hours: %v created, %v failed",
		s.CalendarsOK, s.Groups, s.CalendarsFailed, s.RulesOK, s.RulesFailed)
}

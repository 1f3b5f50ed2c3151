package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/opensdc/sdc-app-sheets/timetable"
)

// OpeningHours is a recurring weekly opening hours record of a calendar.
type OpeningHours struct {
	Name            string `json:"name"`
	StartDate       string `json:"start_date"`
	EndDate         string `json:"end_date"`
	DaysOfWeek      []int  `json:"days_of_week"`
	BeginHour       string `json:"begin_hour"`
	EndHour         string `json:"end_hour"`
	Moderated       bool   `json:"is_moderated"`
	MeetingMinutes  int    `json:"meeting_minutes"`
	IntervalMinutes int    `json:"interval_minutes"`
	MeetingQueue    int    `json:"meeting_queue"`
}

func NewOpeningHours(rule timetable.Rule) OpeningHours {
	return OpeningHours{
		Name:            rule.Name,
		StartDate:       rule.From.UTC().Format(timetable.DateFormat),
		EndDate:         rule.To.UTC().Format(timetable.DateFormat),
		DaysOfWeek:      append([]int{}, rule.Days...),
		BeginHour:       rule.Begin,
		EndHour:         rule.End,
		Moderated:       rule.Moderated,
		MeetingMinutes:  rule.MeetingMinutes,
		IntervalMinutes: rule.IntervalMinutes,
		MeetingQueue:    rule.MeetingQueue,
	}
}

// CreateOpeningHours adds an opening hours record to a calendar.
func (c *Client) CreateOpeningHours(ctx context.Context, calendarID string, hours OpeningHours) error {
	path := fmt.Sprintf("/calendars/%v/opening-hours", url.PathEscape(calendarID))

	return c.post(ctx, path, hours, nil)
}

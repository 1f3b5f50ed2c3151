package api

import (
	"context"
	"fmt"
)

// CalendarDefaults are the fixed settings applied to every created calendar.
type CalendarDefaults struct {
	Type                    string `yaml:"type"`
	RollingDays             int    `yaml:"rolling-days"`
	DraftsDuration          int    `yaml:"drafts-duration"`
	DraftsDurationIncrement int    `yaml:"drafts-duration-increment"`
	MinimumSchedulingNotice int    `yaml:"minimum-scheduling-notice"`
	AllowCancelDays         int    `yaml:"allow-cancel-days"`
	Moderated               bool   `yaml:"moderated"`
	Location                string `yaml:"location"`
	ContactEmail            string `yaml:"contact-email"`
}

var DefaultCalendar = CalendarDefaults{
	Type:                    "time_fixed_slots",
	RollingDays:             90,
	DraftsDuration:          10,
	DraftsDurationIncrement: 5,
	MinimumSchedulingNotice: 24,
	AllowCancelDays:         3,
	Moderated:               false,
	Location:                "Verona",
	ContactEmail:            "",
}

// Calendar is the calendar descriptor posted to the calendars endpoint.
type Calendar struct {
	Owner                    string   `json:"owner"`
	CodeGenerationStrategyID string   `json:"code_generation_strategy_id"`
	Moderators               []string `json:"moderators"`
	OpeningHours             []any    `json:"opening_hours"`
	Title                    string   `json:"title"`
	Type                     string   `json:"type"`
	ContactEmail             string   `json:"contact_email"`
	RollingDays              int      `json:"rolling_days"`
	DraftsDuration           int      `json:"drafts_duration"`
	DraftsDurationIncrement  int      `json:"drafts_duration_increment"`
	MinimumSchedulingNotice  int      `json:"minimum_scheduling_notice"`
	AllowCancelDays          int      `json:"allow_cancel_days"`
	Moderated                bool     `json:"is_moderated"`
	Location                 string   `json:"location"`
	ExternalCalendars        []any    `json:"external_calendars"`
	ClosingPeriods           []any    `json:"closing_periods"`
	ReservationLimits        []any    `json:"reservation_limits"`
}

func NewCalendar(title, owner string, defaults CalendarDefaults) Calendar {
	return Calendar{
		Owner:                    owner,
		CodeGenerationStrategyID: "",
		Moderators:               []string{},
		OpeningHours:             []any{},
		Title:                    title,
		Type:                     defaults.Type,
		ContactEmail:             defaults.ContactEmail,
		RollingDays:              defaults.RollingDays,
		DraftsDuration:           defaults.DraftsDuration,
		DraftsDurationIncrement:  defaults.DraftsDurationIncrement,
		MinimumSchedulingNotice:  defaults.MinimumSchedulingNotice,
		AllowCancelDays:          defaults.AllowCancelDays,
		Moderated:                defaults.Moderated,
		Location:                 defaults.Location,
		ExternalCalendars:        []any{},
		ClosingPeriods:           []any{},
		ReservationLimits:        []any{},
	}
}

type created struct {
	ID string `json:"id"`
}

// CreateCalendar creates a calendar and returns its ID.
func (c *Client) CreateCalendar(ctx context.Context, calendar Calendar) (string, error) {
	var response created
	if err := c.post(ctx, "/calendars", calendar, &response); err != nil {
		return "", err
	}

	if response.ID == "" {
		return "", fmt.Errorf("missing calendar ID in response for '%v'", calendar.Title)
	}

	return response.ID, nil
}

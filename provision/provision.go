// Package provision creates the calendars and opening hours described by a
// time-table worksheet.
package provision

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/opensdc/sdc-app-sheets/api"
	"github.com/opensdc/sdc-app-sheets/results"
	"github.com/opensdc/sdc-app-sheets/retry"
	"github.com/opensdc/sdc-app-sheets/timetable"
)

// Source supplies the raw worksheet rows, header rows included.
type Source interface {
	Rows(ctx context.Context) ([][]string, error)
}

// API is the subset of the scheduling API used to provision calendars.
type API interface {
	Authenticate(ctx context.Context, username, password string) (string, error)
	AdminID(ctx context.Context) (string, error)
	CreateCalendar(ctx context.Context, calendar api.Calendar) (string, error)
	CreateOpeningHours(ctx context.Context, calendarID string, hours api.OpeningHours) error
}

type Credentials struct {
	Username string
	Password string
}

type Options struct {
	Calendar api.CalendarDefaults
	Retry    retry.Policy

	// Minimum interval between consecutive opening hours creation calls
	// and between consecutive calendar creation calls.
	OpeningHoursSpacing time.Duration
	CalendarSpacing     time.Duration

	Now func() time.Time
}

type Provisioner struct {
	api     API
	source  Source
	results results.Log
	options Options
	log     *slog.Logger
}

// run is the state of a single provisioning run.
type run struct {
	window       timetable.Window
	admin        string
	groups       []timetable.Group
	calendars    *rate.Limiter
	openingHours *rate.Limiter
	summary      Summary
}

func NewProvisioner(client API, source Source, log results.Log, options Options, logger *slog.Logger) *Provisioner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	if options.Now == nil {
		options.Now = time.Now
	}

	return &Provisioner{
		api:     client,
		source:  source,
		results: log,
		options: options,
		log:     logger,
	}
}

// Run authenticates, reads and groups the worksheet and then creates one
// calendar with its opening hours per group, in worksheet order. Only a failure
// to authenticate, to initialise the result log or to read the worksheet is
// returned as an error: failures for individual calendars and opening hours are
// logged, counted in the summary and skipped.
func (p *Provisioner) Run(ctx context.Context, credentials Credentials) (Summary, error) {
	r := run{
		window:       timetable.NewWindow(p.options.Now()),
		calendars:    limiter(p.options.CalendarSpacing),
		openingHours: limiter(p.options.OpeningHoursSpacing),
		summary:      Summary{Calendars: []Result{}},
	}

	if err := p.authenticate(ctx, credentials); err != nil {
		return r.summary, err
	}

	if p.results != nil {
		if err := p.results.Header(ctx); err != nil {
			return r.summary, fmt.Errorf("error initialising result log (%w)", err)
		}
	}

	groups, err := p.read(ctx)
	if err != nil {
		return r.summary, err
	} else if len(groups) == 0 {
		p.log.Warn("no calendars to create")
		return r.summary, nil
	}

	r.groups = groups
	r.summary.Groups = len(groups)

	for _, group := range r.groups {
		if err := ctx.Err(); err != nil {
			return r.summary, err
		}

		result, err := p.provision(ctx, &r, group)

		r.summary.add(result)

		if err != nil && ctx.Err() != nil {
			return r.summary, ctx.Err()
		}
	}

	return r.summary, nil
}

func (p *Provisioner) authenticate(ctx context.Context, credentials Credentials) error {
	err := retry.Do(ctx, p.options.Retry, "authenticate", api.IsTransient, p.log, func(ctx context.Context) error {
		_, err := p.api.Authenticate(ctx, credentials.Username, credentials.Password)
		return err
	})

	if err != nil {
		return fmt.Errorf("authentication failed (%w)", err)
	}

	p.log.Info("authenticated", "user", credentials.Username)

	return nil
}

// read retrieves, cleans and groups the worksheet rows. A worksheet without
// any data rows is not an error and yields no groups.
func (p *Provisioner) read(ctx context.Context) ([]timetable.Group, error) {
	values, err := p.source.Rows(ctx)
	if err != nil {
		return nil, fmt.Errorf("error reading spreadsheet (%w)", err)
	}

	if len(values) < timetable.HeaderRows {
		p.log.Warn("no data found in spreadsheet", "rows", len(values))
		return nil, nil
	}

	data := timetable.StripHeader(values)
	if len(data) == 0 {
		p.log.Warn("no data found in spreadsheet", "rows", len(values))
		return nil, nil
	}

	groups := timetable.GroupRows(timetable.Clean(data))

	p.log.Info("read spreadsheet", "rows", len(data), "calendars", len(groups))

	return groups, nil
}

func (p *Provisioner) provision(ctx context.Context, r *run, group timetable.Group) (Result, error) {
	log := p.log.With("calendar", group.Name)
	result := Result{Name: group.Name}

	if err := r.calendars.Wait(ctx); err != nil {
		result.Err = err
		return result, err
	}

	owner, err := p.admin(ctx, r)
	if err != nil {
		log.Error("admin lookup failed, calendar skipped", "err", err)
		result.Err = err
		return result, err
	}

	log.Info("creating calendar")

	calendar := api.NewCalendar(group.Name, owner, p.options.Calendar)

	var id string
	err = retry.Do(ctx, p.options.Retry, "create calendar", api.IsTransient, log, func(ctx context.Context) error {
		id, err = p.api.CreateCalendar(ctx, calendar)
		return err
	})

	if err != nil {
		log.Error("failed to create calendar", "err", err)
		result.Err = err
		return result, err
	}

	result.ID = id
	log.Info("created calendar", "id", id)

	if p.results != nil {
		if err := p.results.Append(ctx, id, group.Name); err != nil {
			log.Warn("error recording calendar in result log", "id", id, "err", err)
		}
	}

	table := timetable.Consolidate(group.Rows, log)
	rules := timetable.Rules(table, r.window)

	if len(rules) == 0 {
		log.Warn("no valid opening hours found")
		return result, nil
	}

	for _, rule := range rules {
		if err := r.openingHours.Wait(ctx); err != nil {
			return result, err
		}

		if err := p.api.CreateOpeningHours(ctx, id, api.NewOpeningHours(rule)); err != nil {
			log.Error("failed to create opening hours", "id", id, "rule", rule.Name, "days", rule.Days, "err", err)
			result.Failed++
			continue
		}

		log.Info("created opening hours", "id", id, "days", rule.Days, "begin", rule.Begin, "end", rule.End, "minutes", rule.MeetingMinutes)
		result.Rules++
	}

	return result, nil
}

// admin returns the calendar owner, looking it up on first use.
func (p *Provisioner) admin(ctx context.Context, r *run) (string, error) {
	if r.admin != "" {
		return r.admin, nil
	}

	var id string
	err := retry.Do(ctx, p.options.Retry, "admin lookup", api.IsTransient, p.log, func(ctx context.Context) (err error) {
		id, err = p.api.AdminID(ctx)
		return
	})

	if err != nil {
		return "", err
	}

	r.admin = id
	p.log.Debug("admin user", "id", id)

	return id, nil
}

func limiter(spacing time.Duration) *rate.Limiter {
	if spacing <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}

	return rate.NewLimiter(rate.Every(spacing), 1)
}

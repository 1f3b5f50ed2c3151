package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/opensdc/sdc-app-sheets/config"
	"github.com/opensdc/sdc-app-sheets/preview"
	"github.com/opensdc/sdc-app-sheets/timetable"
)

var PlanCmd = Plan{
	command: command{
		workdir:     DEFAULT_WORKDIR,
		credentials: DEFAULT_CREDENTIALS,
	},
	zone: "Europe/Rome",
}

// Plan is a dry run of 'provision': the time-table is read, grouped and
// consolidated but nothing is sent to the scheduling API.
type Plan struct {
	command
	ics  string
	zone string
	out  io.Writer
}

func (cmd *Plan) Name() string {
	return "plan"
}

func (cmd *Plan) Description() string {
	return "Displays the calendars and opening hours that 'provision' would create"
}

func (cmd *Plan) Usage() string {
	return "--spreadsheet-url <url> | --file <file> [--ics <file>]"
}

func (cmd *Plan) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] [--config <file>] plan [options] --spreadsheet-url <URL> [--ics <file>]\n", APP)
	fmt.Println()
	fmt.Println("  Reads the time-table and lists the calendars and opening hours rules that would be created,")
	fmt.Println("  optionally exporting them as weekly recurring events to an iCalendar file")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Println(`    sdc-app-sheets plan --file orari.xlsx --ics orari.ics`)
	fmt.Println()
}

func (cmd *Plan) FlagSet() *flag.FlagSet {
	flagset := cmd.flagset("plan")

	flagset.StringVar(&cmd.ics, "ics", cmd.ics, "Writes the opening hours to an iCalendar (.ics) file")
	flagset.StringVar(&cmd.zone, "timezone", cmd.zone, "Time zone of the opening hours, for the iCalendar file")

	return flagset
}

func (cmd *Plan) Execute(ctx context.Context, options *Options) error {
	log := options.log()

	cfg, err := config.Load(options.Config)
	if err != nil {
		return err
	}

	if cmd.location() == "" && cfg.Spreadsheet.URL != "" {
		cmd.url = cfg.Spreadsheet.URL
	}

	if cmd.area == "" {
		cmd.area = cfg.Spreadsheet.Range
	}

	if cmd.credentials == DEFAULT_CREDENTIALS && cfg.Spreadsheet.Credentials != "" {
		cmd.credentials = cfg.Spreadsheet.Credentials
	}

	if cmd.tokens == "" {
		cmd.tokens = cfg.Spreadsheet.Tokens
	}

	zone, err := time.LoadLocation(cmd.zone)
	if err != nil {
		return fmt.Errorf("invalid time zone '%v' (%w)", cmd.zone, err)
	}

	src, _, err := cmd.source(ctx, READONLY)
	if err != nil {
		return err
	}

	values, err := src.Rows(ctx)
	if err != nil {
		return fmt.Errorf("error reading spreadsheet (%w)", err)
	}

	window := timetable.NewWindow(time.Now())
	groups := timetable.GroupRows(timetable.Clean(timetable.StripHeader(values)))
	calendars := make([]preview.Calendar, 0, len(groups))

	for _, g := range groups {
		table := timetable.Consolidate(g.Rows, log.With("calendar", g.Name))
		calendars = append(calendars, preview.Calendar{
			Name:  g.Name,
			Rules: timetable.Rules(table, window),
		})
	}

	w := cmd.out
	if w == nil {
		w = os.Stdout
	}

	if err := plan(w, calendars, zone); err != nil {
		return err
	}

	if cmd.ics != "" {
		err := atomic(cmd.ics, func(f io.Writer) error {
			return preview.ICS(f, calendars, preview.Options{
				Zone:     zone,
				Location: cfg.Calendar.Location,
			})
		})

		if err != nil {
			return fmt.Errorf("error writing iCalendar file (%w)", err)
		}

		log.Info("wrote iCalendar preview", "file", cmd.ics)
	}

	return nil
}

var weekdays = map[int]string{1: "Mon", 2: "Tue", 3: "Wed", 4: "Thu", 5: "Fri", 6: "Sat", 7: "Sun"}

func plan(w io.Writer, calendars []preview.Calendar, zone *time.Location) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)

	fmt.Fprintln(tw, "CALENDAR\tRULE\tDAYS\tHOURS\tMINUTES\tOPENINGS")

	for _, c := range calendars {
		if len(c.Rules) == 0 {
			fmt.Fprintf(tw, "%v\t-\t-\t-\t-\t0\n", c.Name)
			continue
		}

		for _, rule := range c.Rules {
			days := []string{}
			for _, d := range rule.Days {
				days = append(days, weekdays[d])
			}

			occurrences, err := preview.Occurrences(rule, zone)
			if err != nil {
				return err
			}

			fmt.Fprintf(tw, "%v\t%v\t%v\t%v-%v\t%v\t%v\n",
				c.Name,
				rule.Name,
				strings.Join(days, ","),
				rule.Begin,
				rule.End,
				rule.MeetingMinutes,
				len(occurrences))
		}
	}

	return tw.Flush()
}

package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/opensdc/sdc-app-sheets/api"
	"github.com/opensdc/sdc-app-sheets/config"
	"github.com/opensdc/sdc-app-sheets/provision"
	"github.com/opensdc/sdc-app-sheets/results"
	"github.com/opensdc/sdc-app-sheets/sheet"
)

var ProvisionCmd = Provision{
	command: command{
		workdir:     DEFAULT_WORKDIR,
		credentials: DEFAULT_CREDENTIALS,
	},
	env: ".env",
}

// Provision creates a calendar with its opening hours for every group of rows
// in a time-table worksheet.
type Provision struct {
	command
	apiURL       string
	username     string
	password     string
	results      string
	logRange     string
	logRetention uint
	env          string
	prompt       *prompter
	out          io.Writer
}

func (cmd *Provision) Name() string {
	return "provision"
}

func (cmd *Provision) Description() string {
	return "Creates calendars and opening hours in the scheduling API from a time-table worksheet"
}

func (cmd *Provision) Usage() string {
	return "--api-url <url> --spreadsheet-url <url> --username <user> --password <password>"
}

func (cmd *Provision) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] [--config <file>] provision [options] --api-url <URL> --spreadsheet-url <URL> --username <user> --password <password>\n", APP)
	fmt.Println()
	fmt.Println("  Reads the weekly opening hours time-table and creates one calendar, with its opening hours,")
	fmt.Println("  per calendar in the worksheet. Any of the API URL, spreadsheet, username and password that")
	fmt.Println("  are not supplied on the command line, in the configuration file or in the environment are")
	fmt.Println("  prompted for.")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Environment:")
	fmt.Println()
	fmt.Printf("    %-20s API base URL\n", config.EnvAPIURL)
	fmt.Printf("    %-20s Google Sheets URL\n", config.EnvSpreadsheetURL)
	fmt.Printf("    %-20s API username\n", config.EnvUsername)
	fmt.Printf("    %-20s API password\n", config.EnvPassword)
	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Println(`    sdc-app-sheets provision --api-url "https://servizi.comune.bugliano.pi.it/lang/api" \`)
	fmt.Println(`                             --spreadsheet-url "https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms" \`)
	fmt.Println(`                             --username "admin"`)
	fmt.Println()
	fmt.Println(`    sdc-app-sheets --debug provision --file orari.xlsx --results calendars.csv`)
	fmt.Println()
}

func (cmd *Provision) FlagSet() *flag.FlagSet {
	flagset := cmd.flagset("provision")

	flagset.StringVar(&cmd.apiURL, "api-url", cmd.apiURL, "Scheduling API base URL e.g. https://servizi.comune.bugliano.pi.it/lang/api")
	flagset.StringVar(&cmd.username, "username", cmd.username, "API username")
	flagset.StringVar(&cmd.password, "password", cmd.password, "API password. Prompted for (without echo) if not supplied")
	flagset.StringVar(&cmd.results, "results", cmd.results, fmt.Sprintf("CSV file for the created calendar IDs. Defaults to %v", config.DefaultResultsFile))
	flagset.StringVar(&cmd.logRange, "log-range", cmd.logRange, "Google Sheets range to which the created calendar IDs are also appended e.g. 'Calendars!A1:C'")
	flagset.UintVar(&cmd.logRetention, "log-retention", cmd.logRetention, "Log sheet records older than 'log-retention' days are pruned. Defaults to 0 (keep all)")
	flagset.StringVar(&cmd.env, "env", cmd.env, "Optional .env file with SDC_* environment variables")

	return flagset
}

func (cmd *Provision) Execute(ctx context.Context, options *Options) error {
	log := options.log()

	cfg, err := cmd.configure(options)
	if err != nil {
		return err
	}

	if err := cmd.complete(cfg); err != nil {
		return err
	}

	cmd.show(cfg)

	// ... spreadsheet source and result logs
	cmd.url = ""
	cmd.file = ""
	if sheet.IsURL(cfg.Spreadsheet.URL) {
		cmd.url = cfg.Spreadsheet.URL
	} else {
		cmd.file = cfg.Spreadsheet.URL
	}

	cmd.area = cfg.Spreadsheet.Range
	if cfg.Spreadsheet.Credentials != "" {
		cmd.credentials = cfg.Spreadsheet.Credentials
	}

	if cfg.Spreadsheet.Tokens != "" {
		cmd.tokens = cfg.Spreadsheet.Tokens
	}

	scope := READONLY
	if cfg.Results.Range != "" {
		scope = SHEETS
	}

	src, google, err := cmd.source(ctx, scope)
	if err != nil {
		return err
	}

	logs := results.Multi{&results.CSV{File: cfg.Results.File}}

	if cfg.Results.Range != "" {
		if google == nil {
			return fmt.Errorf("--log-range requires a Google Sheets spreadsheet")
		}

		id, err := sheet.SpreadsheetID(cfg.Spreadsheet.URL)
		if err != nil {
			return err
		}

		l, err := results.NewSheet(google, id, cfg.Results.Range, cfg.Results.Retention, log)
		if err != nil {
			return err
		}

		logs = append(logs, l)
	}

	// ... provision
	client := api.NewClient(cfg.API.URL, api.Options{
		Timeout: cfg.API.Timeout,
		Proxy:   cfg.Proxy(),
		Logger:  log,
	})

	p := provision.NewProvisioner(client, src, logs, provision.Options{
		Calendar:            cfg.Calendar,
		Retry:               cfg.Retry,
		OpeningHoursSpacing: cfg.Spacing.OpeningHours,
		CalendarSpacing:     cfg.Spacing.Calendars,
	}, log)

	summary, err := p.Run(ctx, provision.Credentials{
		Username: cfg.API.Username,
		Password: cfg.API.Password,
	})

	for _, r := range summary.Calendars {
		if r.Err != nil {
			log.Warn("calendar not created", "calendar", r.Name, "err", r.Err)
		}
	}

	if err != nil {
		return err
	}

	log.Info("provisioning complete",
		"calendars", summary.Groups,
		"created", summary.CalendarsOK,
		"failed", summary.CalendarsFailed,
		"opening-hours", summary.RulesOK,
		"opening-hours-failed", summary.RulesFailed,
		"results", cfg.Results.File)

	return nil
}

// configure merges the configuration file, the .env file and environment, and
// the command line flags, in increasing order of precedence.
func (cmd *Provision) configure(options *Options) (*config.Config, error) {
	cfg, err := config.Load(options.Config)
	if err != nil {
		return nil, err
	}

	if err := config.LoadEnv(cmd.env); err != nil {
		return nil, fmt.Errorf("error loading %v (%w)", cmd.env, err)
	}

	cfg.ApplyEnv()

	set := func(v string, field *string) {
		if strings.TrimSpace(v) != "" {
			*field = strings.TrimSpace(v)
		}
	}

	set(cmd.apiURL, &cfg.API.URL)
	set(cmd.location(), &cfg.Spreadsheet.URL)
	set(cmd.area, &cfg.Spreadsheet.Range)
	set(cmd.username, &cfg.API.Username)
	if cmd.password != "" {
		cfg.API.Password = cmd.password
	}
	set(cmd.results, &cfg.Results.File)
	set(cmd.logRange, &cfg.Results.Range)

	if cmd.logRetention > 0 {
		cfg.Results.Retention = cmd.logRetention
	}

	if cmd.credentials != DEFAULT_CREDENTIALS || cfg.Spreadsheet.Credentials == "" {
		set(cmd.credentials, &cfg.Spreadsheet.Credentials)
	}

	return cfg, nil
}

// complete prompts for any required setting that is still missing.
func (cmd *Provision) complete(cfg *config.Config) error {
	missing := cfg.API.URL == "" || cfg.Spreadsheet.URL == "" || cfg.API.Username == "" || cfg.API.Password == ""
	if !missing {
		return nil
	}

	p := cmd.prompt
	if p == nil {
		p = newPrompter()
	}

	cmd.banner(p.out)

	prompts := []struct {
		field  *string
		label  string
		secret bool
	}{
		{&cfg.API.URL, "Enter API URL (e.g., https://servizi.comune.bugliano.pi.it/lang/api): ", false},
		{&cfg.Spreadsheet.URL, "Enter Google Spreadsheet URL (or .xlsx/.xls file): ", false},
		{&cfg.API.Username, "Enter API username: ", false},
		{&cfg.API.Password, "Enter API password: ", true},
	}

	for _, q := range prompts {
		if *q.field != "" {
			continue
		}

		var v string
		var err error

		if q.secret {
			v, err = p.secret(q.label)
		} else {
			v, err = p.required(q.label)
		}

		if err != nil {
			return err
		}

		*q.field = v
	}

	return nil
}

func (cmd *Provision) banner(w io.Writer) {
	line := strings.Repeat("=", 60)
	title := "CALENDAR PROVISIONING CONFIGURATION"

	fmt.Fprintln(w)
	fmt.Fprintln(w, line)
	fmt.Fprintf(w, "%*s\n", (60+len(title))/2, title)
	fmt.Fprintln(w, line)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "You need to provide the following information:")
	fmt.Fprintln(w, "1. API URL (e.g., https://servizi.comune.bugliano.pi.it/lang/api)")
	fmt.Fprintln(w, "2. Google Spreadsheet URL")
	fmt.Fprintln(w, "3. API username")
	fmt.Fprintln(w, "4. API password")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "You can provide these either:")
	fmt.Fprintln(w, "- As command line arguments (--api-url, --spreadsheet-url, etc.)")
	fmt.Fprintf(w, "- As %v, %v, %v and %v environment variables\n", config.EnvAPIURL, config.EnvSpreadsheetURL, config.EnvUsername, config.EnvPassword)
	fmt.Fprintln(w, "- Or interactively when prompted")
	fmt.Fprintln(w, line)
	fmt.Fprintln(w)
}

// show prints the effective configuration with the password hidden.
func (cmd *Provision) show(cfg *config.Config) {
	w := cmd.out
	if w == nil {
		w = os.Stdout
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Configuration received:")
	fmt.Fprintf(w, "API URL: %v\n", cfg.API.URL)
	fmt.Fprintf(w, "Spreadsheet URL: %v\n", cfg.Spreadsheet.URL)
	fmt.Fprintf(w, "Username: %v\n", cfg.API.Username)
	fmt.Fprintln(w, "Password: [hidden]")
	fmt.Fprintln(w)
}

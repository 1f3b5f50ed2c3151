package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/opensdc/sdc-app-sheets/sheet"
)

const APP = "sdc-app-sheets"

// VERSION is set at build time with -ldflags "-X .../commands.VERSION=..."
var VERSION = "v0.1.0"

// Options are the global command line options.
type Options struct {
	Debug  bool
	Config string
	Logger *slog.Logger
}

func (o *Options) log() *slog.Logger {
	if o == nil || o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}

	return o.Logger
}

// Command is a sub-command of the sdc-app-sheets CLI.
type Command interface {
	Name() string
	Description() string
	Usage() string
	Help()
	FlagSet() *flag.FlagSet
	Execute(ctx context.Context, options *Options) error
}

// command holds the spreadsheet and Google credentials options shared by the
// commands that read a time-table.
type command struct {
	workdir     string
	credentials string
	tokens      string
	url         string
	file        string
	area        string
}

func (c *command) flagset(name string) *flag.FlagSet {
	flagset := flag.NewFlagSet(name, flag.ExitOnError)

	flagset.StringVar(&c.workdir, "workdir", c.workdir, "Directory for working files (tokens, etc)")
	flagset.StringVar(&c.credentials, "credentials", c.credentials, "Path for the Google 'credentials.json' file (OAuth client or service account)")
	flagset.StringVar(&c.tokens, "tokens", c.tokens, "Directory for the cached Google OAuth tokens. Defaults to <workdir>")
	flagset.StringVar(&c.url, "spreadsheet-url", c.url, "Google Sheets URL of the time-table")
	flagset.StringVar(&c.file, "file", c.file, "Local .xlsx, .xls or .tsv time-table (alternative to --spreadsheet-url)")
	flagset.StringVar(&c.area, "range", c.area, "Spreadsheet range e.g. 'Orari!A1:T'. Defaults to the whole of the first worksheet")

	return flagset
}

// location returns the spreadsheet URL, or the local workbook if no URL was given.
func (c *command) location() string {
	if strings.TrimSpace(c.url) != "" {
		return strings.TrimSpace(c.url)
	}

	return strings.TrimSpace(c.file)
}

// source opens the time-table. The Google Sheets service is only created for
// a spreadsheet URL and is nil for a local workbook.
func (c *command) source(ctx context.Context, scope string) (sheet.Source, *sheets.Service, error) {
	location := c.location()
	if location == "" {
		return nil, nil, fmt.Errorf("--spreadsheet-url or --file is a required option")
	}

	if !sheet.IsURL(location) {
		src, err := sheet.Open(location, c.area, nil)
		return src, nil, err
	}

	if _, err := sheet.SpreadsheetID(location); err != nil {
		return nil, nil, err
	}

	if strings.TrimSpace(c.credentials) == "" {
		return nil, nil, fmt.Errorf("--credentials is a required option")
	}

	tokens := c.tokens
	if tokens == "" {
		tokens = c.workdir
	}

	client, err := authorize(ctx, c.credentials, scope, tokens)
	if err != nil {
		return nil, nil, fmt.Errorf("authentication/authorization error (%w)", err)
	}

	google, err := sheets.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, nil, fmt.Errorf("unable to create new Sheets client (%w)", err)
	}

	src, err := sheet.Open(location, c.area, google)
	if err != nil {
		return nil, nil, err
	}

	return src, google, nil
}

func helpOptions(flagset *flag.FlagSet) {
	flagset.VisitAll(func(f *flag.Flag) {
		fmt.Printf("    --%-16s %s\n", f.Name, f.Usage)
	})

	fmt.Println()
	fmt.Println("  Options:")
	fmt.Println()
	fmt.Println("    --config <file>  Path to the YAML configuration file")
	fmt.Println("    --debug          Displays internal information for diagnosing errors")
}

// atomic writes a file by way of a temporary file in the same directory, so
// that a failed write never leaves a partial file behind.
func atomic(file string, write func(io.Writer) error) error {
	dir := filepath.Dir(file)
	if err := os.MkdirAll(dir, 0770); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+APP+"-*")
	if err != nil {
		return err
	}

	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	if err := write(tmp); err != nil {
		return err
	}

	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), file)
}

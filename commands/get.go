package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"
)

var GetCmd = Get{
	command: command{
		workdir:     DEFAULT_WORKDIR,
		credentials: DEFAULT_CREDENTIALS,
	},

	tsv: time.Now().Format("2006-01-02T150405.tsv"),
}

type Get struct {
	command
	tsv   string
	clean bool
}

func (cmd *Get) Name() string {
	return "get"
}

func (cmd *Get) Description() string {
	return "Retrieves a time-table worksheet and stores it to a local TSV file"
}

func (cmd *Get) Usage() string {
	return "--credentials <file> --spreadsheet-url <url> --tsv <file>"
}

func (cmd *Get) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] get [options] --spreadsheet-url <URL> --tsv <file>\n", APP)
	fmt.Println()
	fmt.Println("  Downloads a Google Sheets time-table worksheet to a TSV file. The TSV file can be used")
	fmt.Println("  in place of the spreadsheet with the --file option of 'plan' and 'provision'")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Println(`    sdc-app-sheets --debug get --credentials "credentials.json" \`)
	fmt.Println(`                               --spreadsheet-url "https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms" \`)
	fmt.Println(`                               --tsv "orari.tsv"`)
	fmt.Println()
}

func (cmd *Get) FlagSet() *flag.FlagSet {
	flagset := cmd.flagset("get")

	flagset.StringVar(&cmd.tsv, "tsv", cmd.tsv, "TSV file name. Defaults to '<yyyy-mm-ddTHHmmss>.tsv'")
	flagset.BoolVar(&cmd.clean, "clean", cmd.clean, "Drops the header rows and normalises closed days to 'Chiuso'")

	return flagset
}

func (cmd *Get) Execute(ctx context.Context, options *Options) error {
	log := options.log()

	if strings.TrimSpace(cmd.tsv) == "" {
		return fmt.Errorf("--tsv is a required option")
	}

	src, _, err := cmd.source(ctx, READONLY)
	if err != nil {
		return err
	}

	values, err := src.Rows(ctx)
	if err != nil {
		return fmt.Errorf("unable to retrieve data from sheet (%w)", err)
	}

	if len(values) == 0 {
		return fmt.Errorf("no data in spreadsheet/range")
	}

	if err := atomic(cmd.tsv, func(f io.Writer) error { return rowsToTSV(f, values, cmd.clean) }); err != nil {
		return fmt.Errorf("error creating TSV file (%w)", err)
	}

	log.Info("retrieved time-table", "file", cmd.tsv, "rows", len(values))

	return nil
}

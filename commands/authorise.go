package commands

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/opensdc/sdc-app-sheets/sheet"
)

var AuthoriseCmd = Authorise{
	workdir:     DEFAULT_WORKDIR,
	credentials: DEFAULT_CREDENTIALS,
	write:       false,
}

// Authorise runs the Google OAuth flow ahead of time, so that later runs from
// cron or a script do not stop to ask for an authorisation code.
type Authorise struct {
	workdir     string
	credentials string
	tokens      string
	url         string
	write       bool
}

func (cmd *Authorise) Name() string {
	return "authorise"
}

func (cmd *Authorise) Description() string {
	return "Authorises sdc-app-sheets to access a Google Sheets worksheet"
}

func (cmd *Authorise) Usage() string {
	return "--credentials <file> --spreadsheet-url <url>"
}

func (cmd *Authorise) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] authorise [options] --spreadsheet-url <URL>\n", APP)
	fmt.Println()
	fmt.Println("  Authorises sdc-app-sheets to access a Google Sheets worksheet and caches the OAuth tokens")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Println(`    sdc-app-sheets authorise --credentials "credentials.json" --spreadsheet-url "https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms"`)
	fmt.Println()
}

func (cmd *Authorise) FlagSet() *flag.FlagSet {
	flagset := flag.NewFlagSet("authorise", flag.ExitOnError)

	flagset.StringVar(&cmd.workdir, "workdir", cmd.workdir, "Directory for working files (tokens, etc)")
	flagset.StringVar(&cmd.credentials, "credentials", cmd.credentials, "Path for the Google 'credentials.json' file")
	flagset.StringVar(&cmd.tokens, "tokens", cmd.tokens, "Directory for the cached Google OAuth tokens. Defaults to <workdir>")
	flagset.StringVar(&cmd.url, "spreadsheet-url", cmd.url, "Spreadsheet URL")
	flagset.BoolVar(&cmd.write, "write", cmd.write, "Requests read/write access, required for --log-range")

	return flagset
}

func (cmd *Authorise) Execute(ctx context.Context, options *Options) error {
	if strings.TrimSpace(cmd.credentials) == "" {
		return fmt.Errorf("--credentials is a required option")
	}

	if strings.TrimSpace(cmd.url) == "" {
		return fmt.Errorf("--spreadsheet-url is a required option")
	}

	if _, err := sheet.SpreadsheetID(cmd.url); err != nil {
		return err
	}

	scope := READONLY
	if cmd.write {
		scope = SHEETS
	}

	tokens := cmd.tokens
	if tokens == "" {
		tokens = cmd.workdir
	}

	c := command{
		workdir:     cmd.workdir,
		credentials: cmd.credentials,
		tokens:      tokens,
		url:         cmd.url,
	}

	src, _, err := c.source(ctx, scope)
	if err != nil {
		return fmt.Errorf("authorisation error (%w)", err)
	}

	rows, err := src.Rows(ctx)
	if err != nil {
		return err
	}

	options.log().Info("authorised", "spreadsheet", cmd.url, "rows", len(rows), "tokens", tokensFile(cmd.credentials, scope, tokens))

	return nil
}

package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	EnvAPIURL         = "SDC_API_URL"
	EnvSpreadsheetURL = "SDC_SPREADSHEET_URL"
	EnvUsername       = "SDC_USERNAME"
	EnvPassword       = "SDC_PASSWORD"
)

// LoadEnv loads a .env file into the process environment. Variables that are
// already set are not overwritten and a missing file is not an error.
func LoadEnv(file string) error {
	if file == "" {
		return nil
	}

	if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	return nil
}

// ApplyEnv overrides the configuration with the SDC_* environment variables.
func (c *Config) ApplyEnv() {
	set := func(key string, v *string) {
		if s, ok := os.LookupEnv(key); ok && strings.TrimSpace(s) != "" {
			*v = s
		}
	}

	set(EnvAPIURL, &c.API.URL)
	set(EnvSpreadsheetURL, &c.Spreadsheet.URL)
	set(EnvUsername, &c.API.Username)
	set(EnvPassword, &c.API.Password)
}

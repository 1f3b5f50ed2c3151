// Package config loads the sdc-app-sheets configuration from an optional YAML
// file, a .env file and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"golang.org/x/net/http/httpproxy"
	"gopkg.in/yaml.v3"

	"github.com/opensdc/sdc-app-sheets/api"
	"github.com/opensdc/sdc-app-sheets/retry"
)

// API holds the scheduling API connection settings.
type API struct {
	URL      string        `yaml:"url"`
	Username string        `yaml:"username"`
	Password string        `yaml:"password"`
	Timeout  time.Duration `yaml:"timeout"`

	// Proxy settings override HTTP_PROXY, HTTPS_PROXY and NO_PROXY if set.
	HTTPProxy  string `yaml:"http-proxy"`
	HTTPSProxy string `yaml:"https-proxy"`
	NoProxy    string `yaml:"no-proxy"`
}

// Spreadsheet identifies the time-table source and the Google credentials
// used to read it.
type Spreadsheet struct {
	URL         string `yaml:"url"`
	Range       string `yaml:"range"`
	Credentials string `yaml:"credentials"`
	Tokens      string `yaml:"tokens"`
}

// Spacing is the minimum interval between consecutive calls to the
// rate-limited API endpoints.
type Spacing struct {
	OpeningHours time.Duration `yaml:"opening-hours"`
	Calendars    time.Duration `yaml:"calendars"`
}

// Results configures where created calendars are recorded.
type Results struct {
	File      string `yaml:"file"`
	Range     string `yaml:"log-range"`
	Retention uint   `yaml:"log-retention"`
}

type Config struct {
	API         API                  `yaml:"api"`
	Spreadsheet Spreadsheet          `yaml:"spreadsheet"`
	Spacing     Spacing              `yaml:"spacing"`
	Retry       retry.Policy         `yaml:"retry"`
	Calendar    api.CalendarDefaults `yaml:"calendar"`
	Results     Results              `yaml:"results"`
}

const (
	DefaultOpeningHoursSpacing = 1 * time.Second
	DefaultCalendarSpacing     = 2 * time.Second
	DefaultResultsFile         = "calendars_ids.csv"
)

func DefaultConfig() *Config {
	return &Config{
		API: API{
			Timeout: api.DefaultTimeout,
		},
		Spacing: Spacing{
			OpeningHours: DefaultOpeningHoursSpacing,
			Calendars:    DefaultCalendarSpacing,
		},
		Retry:    retry.DefaultPolicy,
		Calendar: api.DefaultCalendar,
		Results: Results{
			File: DefaultResultsFile,
		},
	}
}

// Normalize fills in missing or zero values with the defaults, so that a
// partial configuration file only needs the settings it changes.
func (c *Config) Normalize() {
	if c.API.Timeout <= 0 {
		c.API.Timeout = api.DefaultTimeout
	}

	if c.Spacing.OpeningHours <= 0 {
		c.Spacing.OpeningHours = DefaultOpeningHoursSpacing
	}

	if c.Spacing.Calendars <= 0 {
		c.Spacing.Calendars = DefaultCalendarSpacing
	}

	if c.Retry.MaxAttempts <= 0 {
		c.Retry.MaxAttempts = retry.DefaultPolicy.MaxAttempts
	}

	if c.Retry.Initial <= 0 {
		c.Retry.Initial = retry.DefaultPolicy.Initial
	}

	if c.Retry.Multiplier < 1 {
		c.Retry.Multiplier = retry.DefaultPolicy.Multiplier
	}

	if c.Retry.Max <= 0 {
		c.Retry.Max = retry.DefaultPolicy.Max
	}

	d := api.DefaultCalendar
	if c.Calendar.Type == "" {
		c.Calendar.Type = d.Type
	}

	if c.Calendar.RollingDays <= 0 {
		c.Calendar.RollingDays = d.RollingDays
	}

	if c.Calendar.DraftsDuration <= 0 {
		c.Calendar.DraftsDuration = d.DraftsDuration
	}

	if c.Calendar.DraftsDurationIncrement <= 0 {
		c.Calendar.DraftsDurationIncrement = d.DraftsDurationIncrement
	}

	if c.Calendar.MinimumSchedulingNotice <= 0 {
		c.Calendar.MinimumSchedulingNotice = d.MinimumSchedulingNotice
	}

	if c.Calendar.AllowCancelDays <= 0 {
		c.Calendar.AllowCancelDays = d.AllowCancelDays
	}

	if c.Calendar.Location == "" {
		c.Calendar.Location = d.Location
	}

	if strings.TrimSpace(c.Results.File) == "" {
		c.Results.File = DefaultResultsFile
	}
}

// Load reads the YAML configuration file at path. An empty path or a missing
// file yields the default configuration.
func Load(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultConfig(), nil
	} else if err != nil {
		return nil, err
	}

	cfg := Config{}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration file %v (%w)", path, err)
	}

	cfg.Normalize()

	return &cfg, nil
}

// Proxy returns the configured outbound proxy, or nil if the proxy should be
// taken from the environment.
func (c *Config) Proxy() *httpproxy.Config {
	if c.API.HTTPProxy == "" && c.API.HTTPSProxy == "" && c.API.NoProxy == "" {
		return nil
	}

	return &httpproxy.Config{
		HTTPProxy:  c.API.HTTPProxy,
		HTTPSProxy: c.API.HTTPSProxy,
		NoProxy:    c.API.NoProxy,
	}
}

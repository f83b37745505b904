package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

const (
	DefaultURL     = "http://localhost:8080/api/notes"
	DefaultFile    = "test-notes-data.json"
	DefaultDelay   = 500 * time.Millisecond
	DefaultTimeout = 30 * time.Second

	// DotEnvFile is read from the working directory when present.
	DotEnvFile = ".env"
)

type Config struct {
	URL     string
	File    string
	Delay   time.Duration
	Timeout time.Duration

	NoColor bool

	env map[string]string
	get func(string) string
}

// Load builds the config from defaults, the dotenv file and the process
// environment, in increasing priority. A missing dotenv file is fine.
func Load(dotenv string, getenv func(string) string) (*Config, error) {
	if getenv == nil {
		getenv = os.Getenv
	}
	env := map[string]string{}
	if dotenv != "" {
		m, err := godotenv.Read(dotenv)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read %s: %w", dotenv, err)
		}
		if m != nil {
			env = m
		}
	}

	c := &Config{env: env, get: getenv}
	c.URL = c.stringOr("NOTES_API_URL", DefaultURL)
	c.File = c.stringOr("NOTES_FILE", DefaultFile)
	c.Delay = c.durationOr("NOTES_DELAY", DefaultDelay)
	c.Timeout = c.durationOr("NOTES_TIMEOUT", DefaultTimeout)
	c.NoColor = c.Getenv("NO_COLOR") != ""
	if c.Delay < 0 {
		c.Delay = 0
	}
	return c, nil
}

// Getenv looks a key up in the process environment, then the dotenv file.
func (c *Config) Getenv(key string) string {
	if v := c.get(key); v != "" {
		return v
	}
	return c.env[key]
}

func (c *Config) stringOr(key, def string) string {
	if v := c.Getenv(key); v != "" {
		return v
	}
	return def
}

func (c *Config) durationOr(key string, def time.Duration) time.Duration {
	v := c.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

// Flags registers the command line overrides on fs.
func Flags(fs *pflag.FlagSet) {
	fs.String("url", DefaultURL, "notes API endpoint (env NOTES_API_URL)")
	fs.StringP("file", "f", DefaultFile, "notes file, JSON or YAML (env NOTES_FILE)")
	fs.Duration("delay", DefaultDelay, "pause between requests (env NOTES_DELAY)")
	fs.Duration("timeout", DefaultTimeout, "per-request timeout (env NOTES_TIMEOUT)")
}

// PersistentFlags registers the overrides every subcommand shares.
func PersistentFlags(fs *pflag.FlagSet) {
	fs.Bool("no-color", false, "disable coloured output (env NO_COLOR)")
}

// ApplyFlags overrides c with every flag the user actually set.
// Flags that were not registered on fs are skipped.
func (c *Config) ApplyFlags(fs *pflag.FlagSet) error {
	var err error
	if fs.Changed("url") {
		if c.URL, err = fs.GetString("url"); err != nil {
			return err
		}
	}
	if fs.Changed("file") {
		if c.File, err = fs.GetString("file"); err != nil {
			return err
		}
	}
	if fs.Changed("delay") {
		if c.Delay, err = fs.GetDuration("delay"); err != nil {
			return err
		}
		if c.Delay < 0 {
			c.Delay = 0
		}
	}
	if fs.Changed("timeout") {
		if c.Timeout, err = fs.GetDuration("timeout"); err != nil {
			return err
		}
	}
	if fs.Changed("no-color") {
		if c.NoColor, err = fs.GetBool("no-color"); err != nil {
			return err
		}
	}
	return nil
}

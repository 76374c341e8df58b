// Package config loads runtime settings from the environment.
// Every setting has a default, so the tool runs with no configuration at all.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
)

// DefaultEnvFile is read when present; its absence is not an error
const DefaultEnvFile = "config.env"

// Config holds the settings for the converter
type Config struct {
	TableURL string        `env:"NBP_URL" envDefault:"https://static.nbp.pl/dane/kursy/xml/lastA.xml"`
	Encoding string        `env:"NBP_ENCODING" envDefault:"ISO-8859-2"`
	Timeout  time.Duration `env:"NBP_TIMEOUT" envDefault:"10s"`
	LogLevel string        `env:"LOG_LEVEL" envDefault:"INFO"`
	LogFile  string        `env:"LOG_FILE"`
	HTTPAddr string        `env:"HTTP_ADDR" envDefault:":8080"`
}

// Load reads envFile (if it exists) into the process environment and then
// parses the environment into a Config
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the values that cannot be defaulted away
func (c *Config) Validate() error {
	u, err := url.Parse(c.TableURL)
	if err != nil || !u.IsAbs() {
		return fmt.Errorf("NBP_URL must be an absolute URL, got %q", c.TableURL)
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("NBP_TIMEOUT must be positive, got %s", c.Timeout)
	}

	return nil
}

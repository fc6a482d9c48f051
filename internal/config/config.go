// Package config reads settings for page suites and the pagecheck CLI from
// a .env file and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/mstoykov/envconfig"
	"github.com/sirupsen/logrus"
)

// Backends accepted in PAGEOBJECT_DRIVER.
const (
	DriverRod      = "rod"
	DriverSelenium = "selenium"
	DriverChromedp = "chromedp"
	DriverHTML     = "html"
)

// Typing modes accepted in PAGEOBJECT_TYPING.
const (
	TypingFast  = "fast"
	TypingHuman = "human"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	Driver       string        `envconfig:"PAGEOBJECT_DRIVER" default:"rod"`
	Timeout      time.Duration `envconfig:"PAGEOBJECT_TIMEOUT" default:"10s"`
	PollInterval time.Duration `envconfig:"PAGEOBJECT_POLL_INTERVAL" default:"500ms"`
	// AppVersion pins the version used to resolve versioned selectors.
	AppVersion string `envconfig:"PAGEOBJECT_APP_VERSION"`

	Headless   bool   `envconfig:"PAGEOBJECT_HEADLESS" default:"true"`
	BrowserBin string `envconfig:"PAGEOBJECT_BROWSER_BIN"`
	Stealth    bool   `envconfig:"PAGEOBJECT_STEALTH" default:"false"`
	// Typing is how rod sessions type into fields: TypingFast or
	// TypingHuman.
	Typing string `envconfig:"PAGEOBJECT_TYPING" default:"fast"`
	// ReplayHAR, when set, serves rod sessions from this recording.
	ReplayHAR string `envconfig:"PAGEOBJECT_REPLAY_HAR"`
	// ReplayPassthrough sends requests missing from ReplayHAR to the network
	// instead of answering 404.
	ReplayPassthrough bool `envconfig:"PAGEOBJECT_REPLAY_PASSTHROUGH" default:"false"`

	SeleniumURL string `envconfig:"PAGEOBJECT_SELENIUM_URL" default:"http://127.0.0.1:4444/wd/hub"`
	BrowserName string `envconfig:"PAGEOBJECT_BROWSER_NAME" default:"chrome"`

	LogLevel string `envconfig:"PAGEOBJECT_LOG_LEVEL" default:"info"`
}

// Load reads envFile if it exists, then the environment. Variables already
// set in the environment win over the file.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from lookup instead of the process environment.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg, lookup); err != nil {
		return Config{}, fmt.Errorf("read environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Driver {
	case DriverRod, DriverSelenium, DriverChromedp, DriverHTML:
	default:
		return fmt.Errorf("%w: unknown driver %q", ErrInvalidConfig, c.Driver)
	}
	switch c.Typing {
	case TypingFast, TypingHuman:
	default:
		return fmt.Errorf("%w: unknown typing mode %q", ErrInvalidConfig, c.Typing)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: timeout must be positive, got %s", ErrInvalidConfig, c.Timeout)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("%w: poll interval must be positive, got %s", ErrInvalidConfig, c.PollInterval)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// Logger returns a logrus logger at the configured level.
func (c Config) Logger() *logrus.Logger {
	l := logrus.New()
	if level, err := logrus.ParseLevel(c.LogLevel); err == nil {
		l.SetLevel(level)
	}
	return l
}

package main

import (
	"github.com/grez-lucas/pageobject/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// app carries what every subcommand needs once flags and .env are read.
type app struct {
	envFile  string
	driver   string
	logLevel string

	cfg config.Config
	log *logrus.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "pagecheck",
		Short:         "Probe and capture pages for page object suites",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "dotenv file to read before the environment")
	root.PersistentFlags().StringVar(&a.driver, "driver", "", "backend: rod, selenium, chromedp or html (overrides PAGEOBJECT_DRIVER)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (overrides PAGEOBJECT_LOG_LEVEL)")

	root.AddCommand(newProbeCmd(a), newCaptureCmd(a), newRedactCmd(a))
	return root
}

func (a *app) load(cmd *cobra.Command) error {
	cfg, err := config.Load(a.envFile)
	if err != nil {
		return err
	}
	if a.driver != "" {
		cfg.Driver = a.driver
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	a.cfg = cfg
	a.log = cfg.Logger()
	a.log.SetOutput(cmd.ErrOrStderr())
	return nil
}

// Package browser opens a driver session for the backend named in the
// configuration. Page objects never call it; suites and the CLI do, and they
// own the returned Session.
package browser

import (
	"context"
	"errors"
	"fmt"

	"github.com/chromedp/chromedp"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/grez-lucas/pageobject/internal/config"
	"github.com/grez-lucas/pageobject/internal/driver"
	"github.com/grez-lucas/pageobject/internal/driver/cdpdriver"
	"github.com/grez-lucas/pageobject/internal/driver/htmldriver"
	"github.com/grez-lucas/pageobject/internal/driver/roddriver"
	"github.com/grez-lucas/pageobject/internal/driver/wddriver"
	"github.com/grez-lucas/pageobject/internal/har"
	"github.com/grez-lucas/pageobject/internal/page"
	"github.com/grez-lucas/pageobject/internal/wait"
	"github.com/sirupsen/logrus"
	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"
)

var ErrUnknownDriver = errors.New("unknown driver")

// Session is an open driver plus whatever has to be torn down with it.
type Session struct {
	Driver driver.Driver
	Engine wait.Engine

	cfg     config.Config
	log     logrus.FieldLogger
	closers []func() error
}

// Open starts the configured backend.
func Open(ctx context.Context, cfg config.Config, log logrus.FieldLogger) (*Session, error) {
	s := &Session{
		cfg: cfg,
		log: log.WithField("driver", cfg.Driver),
		Engine: wait.NewPoller(
			wait.WithInterval(cfg.PollInterval),
			wait.WithLogger(log),
		),
	}

	var err error
	switch cfg.Driver {
	case config.DriverRod:
		err = s.openRod(ctx)
	case config.DriverSelenium:
		err = s.openSelenium()
	case config.DriverChromedp:
		err = s.openChromedp(ctx)
	case config.DriverHTML:
		s.Driver = htmldriver.New(htmldriver.WithAppVersion(cfg.AppVersion))
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
	if err != nil {
		if closeErr := s.Close(); closeErr != nil {
			s.log.WithError(closeErr).Warn("cleanup after failed open")
		}
		return nil, err
	}

	s.log.Debug("session opened")
	return s, nil
}

// PageOptions returns the options that bind a page.Page to this session's
// engine, logger and pinned application version.
func (s *Session) PageOptions() []page.Option {
	opts := []page.Option{page.WithEngine(s.Engine), page.WithLogger(s.log)}
	if s.cfg.AppVersion != "" {
		opts = append(opts, page.WithAppVersion(s.cfg.AppVersion))
	}
	return opts
}

// Close releases the session in reverse order of acquisition. It is safe to
// call more than once.
func (s *Session) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}

func (s *Session) onClose(fn func() error) {
	s.closers = append(s.closers, fn)
}

func (s *Session) openRod(ctx context.Context) error {
	l := launcher.New().
		Headless(s.cfg.Headless).
		Set("disable-blink-features", "AutomationControlled").
		Set("no-first-run").
		Set("no-default-browser-check")
	if s.cfg.BrowserBin != "" {
		l = l.Bin(s.cfg.BrowserBin)
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("launch browser: %w", err)
	}
	s.onClose(func() error {
		l.Kill()
		return nil
	})

	b := rod.New().ControlURL(u).Context(ctx)
	if err := b.Connect(); err != nil {
		return fmt.Errorf("connect to browser: %w", err)
	}
	s.onClose(b.Close)

	var p *rod.Page
	if s.cfg.Stealth {
		p, err = stealth.Page(b)
	} else {
		p, err = b.Page(proto.TargetCreateTarget{})
	}
	if err != nil {
		return fmt.Errorf("open page: %w", err)
	}

	d := roddriver.New(p, s.rodOptions()...)
	s.Driver = d

	if s.cfg.ReplayHAR == "" {
		return nil
	}

	rec, err := har.Load(s.cfg.ReplayHAR)
	if err != nil {
		return err
	}
	replayer := har.NewReplayer(rec, s.replayOptions()...)
	router, err := d.Hijack(replayer.Hijack())
	if err != nil {
		return err
	}
	s.onClose(router.Stop)
	s.log.WithFields(logrus.Fields{
		"har":         s.cfg.ReplayHAR,
		"entries":     len(rec.Entries),
		"passthrough": s.cfg.ReplayPassthrough,
	}).Info("replaying recording")
	return nil
}

func (s *Session) rodOptions() []roddriver.Option {
	opts := []roddriver.Option{roddriver.WithAppVersion(s.cfg.AppVersion), roddriver.WithLogger(s.log)}
	if s.cfg.Typing == config.TypingHuman {
		opts = append(opts, roddriver.WithTyping(roddriver.TypeHuman))
	}
	return opts
}

func (s *Session) replayOptions() []har.Option {
	return []har.Option{har.WithLogger(s.log), har.WithPassthrough(s.cfg.ReplayPassthrough)}
}

func (s *Session) openSelenium() error {
	caps := selenium.Capabilities{"browserName": s.cfg.BrowserName}
	if s.cfg.BrowserName == "chrome" {
		var args []string
		if s.cfg.Headless {
			args = append(args, "--headless=new")
		}
		caps.AddChrome(chrome.Capabilities{Args: args, Path: s.cfg.BrowserBin})
	}

	wd, err := selenium.NewRemote(caps, s.cfg.SeleniumURL)
	if err != nil {
		return fmt.Errorf("open webdriver session at %s: %w", s.cfg.SeleniumURL, err)
	}
	s.onClose(wd.Quit)

	s.Driver = wddriver.New(wd, wddriver.WithAppVersion(s.cfg.AppVersion))
	s.Engine = wddriver.NewEngine(wd, s.cfg.PollInterval)
	return nil
}

func (s *Session) openChromedp(ctx context.Context) error {
	opts := append(chromedp.DefaultExecAllocatorOptions[:], chromedp.Flag("headless", s.cfg.Headless))
	if s.cfg.BrowserBin != "" {
		opts = append(opts, chromedp.ExecPath(s.cfg.BrowserBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	s.onClose(func() error {
		cancelAlloc()
		return nil
	})

	tabCtx, cancelTab := chromedp.NewContext(allocCtx)
	s.onClose(func() error {
		cancelTab()
		return nil
	})

	// Run with no actions starts the browser so launch errors surface here.
	if err := chromedp.Run(tabCtx); err != nil {
		return fmt.Errorf("start chrome: %w", err)
	}

	s.Driver = cdpdriver.New(tabCtx, cdpdriver.WithAppVersion(s.cfg.AppVersion))
	return nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/grez-lucas/pageobject/internal/browser"
	"github.com/grez-lucas/pageobject/internal/config"
	"github.com/grez-lucas/pageobject/internal/driver"
	"github.com/grez-lucas/pageobject/internal/driver/roddriver"
	"github.com/grez-lucas/pageobject/internal/page"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var errNeedsRod = errors.New("capture needs the rod driver")

type captureOptions struct {
	output     string
	screenshot bool
	waitFor    string
	settle     time.Duration
}

func newCaptureCmd(a *app) *cobra.Command {
	opts := &captureOptions{}

	cmd := &cobra.Command{
		Use:   "capture <url>",
		Short: "Save a page, with shadow roots and iframes folded in, as an htmldriver fixture",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.Driver != config.DriverRod {
				return fmt.Errorf("%w, got %q", errNeedsRod, a.cfg.Driver)
			}
			return a.capture(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "fixture.html", "where to write the fixture")
	cmd.Flags().BoolVar(&opts.screenshot, "screenshot", false, "also save a PNG next to the fixture")
	cmd.Flags().StringVar(&opts.waitFor, "wait-for", "", "CSS selector that must be visible before capturing")
	cmd.Flags().DurationVar(&opts.settle, "settle", time.Second, "how long the DOM must stay unchanged")
	return cmd
}

func (a *app) capture(ctx context.Context, url string, opts *captureOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	s, err := browser.Open(ctx, a.cfg, a.log)
	if err != nil {
		return err
	}
	defer func() {
		if err := s.Close(); err != nil {
			a.log.WithError(err).Warn("close session")
		}
	}()

	rd, ok := s.Driver.(*roddriver.Driver)
	if !ok {
		return errNeedsRod
	}

	p := page.New(rd, page.Descriptor{URL: url, Timeout: a.cfg.Timeout}, s.PageOptions()...)
	if err := p.Navigate(""); err != nil {
		return err
	}
	if opts.waitFor != "" {
		if _, err := p.WaitUntilVisible(ctx, driver.CSS(opts.waitFor), 0); err != nil {
			return err
		}
	}
	if err := roddriver.WaitStable(rd.Page(), opts.settle); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(opts.output), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	// The screenshot goes first: Snapshot rewrites the live DOM.
	if opts.screenshot {
		png, err := rd.Page().Screenshot(false, nil)
		if err != nil {
			return fmt.Errorf("screenshot: %w", err)
		}
		pngPath := trimExt(opts.output) + ".png"
		if err := os.WriteFile(pngPath, png, 0o644); err != nil {
			return fmt.Errorf("write screenshot: %w", err)
		}
		a.log.WithField("path", pngPath).Info("screenshot saved")
	}

	snap, err := rd.Snapshot()
	if err != nil {
		return err
	}
	if err := os.WriteFile(opts.output, []byte(snap.HTML), 0o644); err != nil {
		return fmt.Errorf("write fixture: %w", err)
	}

	a.log.WithFields(logrus.Fields{
		"path":         opts.output,
		"shadow_roots": snap.ShadowRoots,
		"frames":       snap.Frames,
		"bytes":        len(snap.HTML),
	}).Info("fixture saved")
	return nil
}

func trimExt(path string) string {
	return path[:len(path)-len(filepath.Ext(path))]
}

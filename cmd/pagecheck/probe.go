package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/grez-lucas/pageobject/internal/browser"
	"github.com/grez-lucas/pageobject/internal/driver"
	"github.com/grez-lucas/pageobject/internal/driver/htmldriver"
	"github.com/grez-lucas/pageobject/internal/page"
	"github.com/spf13/cobra"
)

// probe is a labelled selector looked up in every frame.
type probe struct {
	Label    string
	Selector driver.Selector
}

type probeOptions struct {
	css    []string
	xpath  []string
	popups []string
	depth  int
}

func newProbeCmd(a *app) *cobra.Command {
	opts := &probeOptions{}

	cmd := &cobra.Command{
		Use:   "probe <url>",
		Short: "Report which selectors exist and are visible, frame by frame",
		Long: `probe opens url with the configured driver, dismisses the given popups and
prints, for each frame, how many elements every probe matches and how many of
them are visible. With --driver html, url is a path to a saved fixture.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			probes, err := parseProbes(opts.css, opts.xpath)
			if err != nil {
				return err
			}
			return a.probe(cmd.Context(), args[0], probes, opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringArrayVar(&opts.css, "css", nil, `CSS probe as "label=selector" (repeatable)`)
	cmd.Flags().StringArrayVar(&opts.xpath, "xpath", nil, `XPath probe as "label=expression" (repeatable)`)
	cmd.Flags().StringArrayVar(&opts.popups, "popup", nil, "CSS selector of a popup to dismiss before probing (repeatable)")
	cmd.Flags().IntVar(&opts.depth, "frames", 0, "how many levels of iframes to descend into")
	return cmd
}

func (a *app) probe(ctx context.Context, url string, probes []probe, opts *probeOptions, w io.Writer) error {
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

	p := page.New(s.Driver, page.Descriptor{URL: url, Timeout: a.cfg.Timeout}, s.PageOptions()...)
	if hd, ok := s.Driver.(*htmldriver.Driver); ok {
		doc, err := os.ReadFile(url)
		if err != nil {
			return fmt.Errorf("read fixture: %w", err)
		}
		if err := hd.Load(string(doc)); err != nil {
			return err
		}
	} else if err := p.Navigate(""); err != nil {
		return err
	}

	popups := make([]driver.Selector, len(opts.popups))
	for i, css := range opts.popups {
		popups[i] = driver.CSS(css)
	}
	p.DismissPopups(popups)

	return probeFrames(p, probes, opts.depth, w)
}

// probeFrames prints a report for the current frame and then for every
// iframe inside it, down to depth levels.
func probeFrames(p *page.Page, probes []probe, depth int, w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if err := probeFrame(p, probes, "top", depth, tw); err != nil {
		return err
	}
	return tw.Flush()
}

func probeFrame(p *page.Page, probes []probe, path string, depth int, w io.Writer) error {
	fmt.Fprintf(w, "FRAME %s\n", path)
	for _, pr := range probes {
		els, err := p.Elements(pr.Selector)
		if err != nil {
			fmt.Fprintf(w, "  %s\t%s\terror: %v\n", pr.Label, pr.Selector, err)
			continue
		}

		visible := 0
		for _, el := range els {
			if ok, err := el.IsDisplayed(); err == nil && ok {
				visible++
			}
		}
		fmt.Fprintf(w, "  %s\t%s\tfound %d\tvisible %d\n", pr.Label, pr.Selector, len(els), visible)
	}

	if depth <= 0 {
		return nil
	}

	frames, err := p.Elements(driver.CSS("iframe"))
	if err != nil {
		return err
	}
	for i, fr := range frames {
		id, _ := fr.Attribute("id")
		if id == "" {
			id = fmt.Sprintf("#%d", i)
		}

		if err := p.Driver().SwitchToFrame(fr); err != nil {
			fmt.Fprintf(w, "FRAME %s > %s\n  error: %v\n", path, id, err)
			continue
		}
		err := probeFrame(p, probes, path+" > "+id, depth-1, w)
		if perr := p.ReturnToParentFrame(); perr != nil {
			return perr
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func parseProbes(css, xpath []string) ([]probe, error) {
	var probes []probe
	add := func(raw string, mk func(string) driver.Selector) error {
		label, value, ok := strings.Cut(raw, "=")
		if !ok || strings.TrimSpace(value) == "" {
			return fmt.Errorf("probe %q: want label=selector", raw)
		}
		probes = append(probes, probe{Label: strings.TrimSpace(label), Selector: mk(strings.TrimSpace(value))})
		return nil
	}

	for _, raw := range css {
		if err := add(raw, driver.CSS); err != nil {
			return nil, err
		}
	}
	for _, raw := range xpath {
		if err := add(raw, driver.XPath); err != nil {
			return nil, err
		}
	}
	if len(probes) == 0 {
		return nil, fmt.Errorf("no probes given, use --css or --xpath")
	}
	return probes, nil
}

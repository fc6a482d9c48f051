package page

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/grez-lucas/pageobject/internal/driver"
	"github.com/grez-lucas/pageobject/internal/wait"
	"github.com/sirupsen/logrus"
)

// TextMatch pairs a selector with text expected inside the element.
type TextMatch struct {
	Selector driver.Selector
	Text     string
}

// WaitForPageLoaded waits for every Descriptor.Loaded locator to become
// visible, one after another, and fails on the first that does not.
func (p *Page) WaitForPageLoaded(ctx context.Context) error {
	for _, loc := range p.desc.Loaded {
		sel, err := p.Resolve(loc)
		if err != nil {
			return err
		}
		if _, err := p.WaitUntilVisible(ctx, sel, p.desc.Timeout); err != nil {
			return err
		}
	}
	return nil
}

// WaitUntilVisible waits for sel to be present and displayed. A zero timeout
// means the Descriptor's.
func (p *Page) WaitUntilVisible(ctx context.Context, sel driver.Selector, timeout time.Duration) (driver.Element, error) {
	return p.waitForElement(ctx, visibilityOf(sel), sel, timeout)
}

// WaitUntilPresent waits for sel to be in the DOM, displayed or not.
func (p *Page) WaitUntilPresent(ctx context.Context, sel driver.Selector, timeout time.Duration) (driver.Element, error) {
	return p.waitForElement(ctx, presenceOf(sel), sel, timeout)
}

// WaitUntilClickable waits for sel to be displayed and enabled.
func (p *Page) WaitUntilClickable(ctx context.Context, sel driver.Selector, timeout time.Duration) (driver.Element, error) {
	return p.waitForElement(ctx, clickableOf(sel), sel, timeout)
}

// WaitUntilInvisible waits for sel to be hidden or gone.
func (p *Page) WaitUntilInvisible(ctx context.Context, sel driver.Selector, timeout time.Duration) error {
	_, err := p.until(ctx, invisibilityOf(sel), sel.String(), timeout)
	return err
}

// WaitUntilAnyVisible waits until at least one element matched by sel is
// displayed and returns the displayed ones.
func (p *Page) WaitUntilAnyVisible(ctx context.Context, sel driver.Selector, timeout time.Duration) ([]driver.Element, error) {
	v, err := p.until(ctx, anyVisibleOf(sel), sel.String(), timeout)
	if err != nil {
		return nil, err
	}
	return v.([]driver.Element), nil
}

// WaitUntilFrameAvailable waits for the frame matched by sel and switches
// into it.
func (p *Page) WaitUntilFrameAvailable(ctx context.Context, sel driver.Selector, timeout time.Duration) error {
	_, err := p.until(ctx, frameAvailableOf(sel), sel.String(), timeout)
	return err
}

// WaitUntilAnyPresent returns as soon as one of sels matches an element.
func (p *Page) WaitUntilAnyPresent(ctx context.Context, sels []driver.Selector, timeout time.Duration) error {
	conds := make([]wait.Condition, len(sels))
	locators := make([]string, len(sels))
	for i, sel := range sels {
		conds[i] = presenceOf(sel)
		locators[i] = sel.String()
	}
	return p.untilAny(ctx, conds, locators, timeout)
}

// WaitUntilAnyText returns as soon as one element contains its expected
// text. A lookup failure on one pair does not stop the others from being
// checked.
func (p *Page) WaitUntilAnyText(ctx context.Context, matches []TextMatch, timeout time.Duration) error {
	conds := make([]wait.Condition, len(matches))
	locators := make([]string, len(matches))
	for i, m := range matches {
		conds[i] = textPresentIn(m.Selector, m.Text)
		locators[i] = m.Selector.String()
	}
	return p.untilAny(ctx, conds, locators, timeout)
}

// WaitForJS evaluates expression until it equals expected. Values are
// compared after a JSON round trip, so 3 and 3.0 are equal and structs match
// the objects a browser returns. If the expression never matches, the result
// is a *FatalError: the caller is expected to abort the run.
func (p *Page) WaitForJS(ctx context.Context, expression string, expected any, timeout time.Duration, message string) error {
	timeout = p.timeoutOr(timeout)
	if message == "" {
		message = fmt.Sprintf("%s is not equal to %v for %s", expression, expected, timeout)
	}

	log := p.log.WithFields(logrus.Fields{"expression": expression, "expected": expected})
	log.WithField("timeout", timeout).Debug("waiting for js statement")

	want := normalize(expected)
	start := time.Now()
	for time.Since(start) < timeout {
		got, err := p.driver.ExecuteScript("return " + expression)
		if err != nil {
			return err
		}
		if cmp.Equal(normalize(got), want) {
			log.WithField("elapsed", time.Since(start)).Debug("js statement matched")
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.jsPoll):
		}
	}

	return &FatalError{Message: message, Timeout: timeout}
}

func (p *Page) waitForElement(ctx context.Context, cond wait.Condition, sel driver.Selector, timeout time.Duration) (driver.Element, error) {
	v, err := p.until(ctx, cond, sel.String(), timeout)
	if err != nil {
		return nil, err
	}
	return v.(driver.Element), nil
}

func (p *Page) until(ctx context.Context, cond wait.Condition, locator string, timeout time.Duration) (any, error) {
	timeout = p.timeoutOr(timeout)
	message := fmt.Sprintf("timed out after %s waiting for %s; locator: %s", timeout, cond.Name, locator)
	return p.engine.Until(ctx, p.driver, cond, timeout, message)
}

func (p *Page) untilAny(ctx context.Context, conds []wait.Condition, locators []string, timeout time.Duration) error {
	timeout = p.timeoutOr(timeout)

	var b strings.Builder
	fmt.Fprintf(&b, "timed out after %s waiting for one of the conditions:", timeout)
	for i, c := range conds {
		fmt.Fprintf(&b, "\n  condition: %s; locator: %s", c.Name, locators[i])
	}

	_, err := p.engine.Until(ctx, p.driver, wait.Any(conds...), timeout, b.String())
	return err
}

// normalize maps v onto the types encoding/json decodes into, which is what
// every driver hands back from a script.
func normalize(v any) any {
	raw, err := json.Marshal(v)
	if err != nil {
		return v
	}

	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return v
	}
	return out
}

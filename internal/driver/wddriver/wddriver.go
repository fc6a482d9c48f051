// Package wddriver implements driver.Driver over a W3C WebDriver session
// opened with tebeka/selenium.
package wddriver

import (
	"errors"
	"fmt"
	"strings"

	"github.com/grez-lucas/pageobject/internal/driver"
	"github.com/tebeka/selenium"
)

// Driver adapts a selenium.WebDriver. The session stays owned by the caller.
type Driver struct {
	wd selenium.WebDriver
	// frames is the path from the top-level document to the current frame.
	frames     []selenium.WebElement
	appVersion string
}

// Option configures a Driver.
type Option func(*Driver)

// WithAppVersion sets the application version reported to page objects.
func WithAppVersion(v string) Option {
	return func(d *Driver) {
		d.appVersion = v
	}
}

func New(wd selenium.WebDriver, opts ...Option) *Driver {
	d := &Driver{wd: wd}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// WebDriver returns the wrapped session.
func (d *Driver) WebDriver() selenium.WebDriver {
	return d.wd
}

func (d *Driver) AppVersion() string {
	return d.appVersion
}

func (d *Driver) Navigate(url string) error {
	d.frames = nil
	if err := d.wd.Get(url); err != nil {
		return fmt.Errorf("navigate to %s: %w", url, mapErr(err))
	}
	return nil
}

func (d *Driver) FindElement(sel driver.Selector) (driver.Element, error) {
	el, err := d.wd.FindElement(string(sel.By), sel.Value)
	if err != nil {
		if errors.Is(mapErr(err), driver.ErrNoSuchElement) {
			return nil, &driver.NotFoundError{Selector: sel}
		}
		return nil, fmt.Errorf("find %s: %w", sel, mapErr(err))
	}
	return &element{el: el}, nil
}

func (d *Driver) FindElements(sel driver.Selector) ([]driver.Element, error) {
	found, err := d.wd.FindElements(string(sel.By), sel.Value)
	if err != nil {
		if errors.Is(mapErr(err), driver.ErrNoSuchElement) {
			return nil, nil
		}
		return nil, fmt.Errorf("find %s: %w", sel, mapErr(err))
	}

	els := make([]driver.Element, len(found))
	for i, el := range found {
		els[i] = &element{el: el}
	}
	return els, nil
}

// ExecuteScript runs script synchronously. Element arguments are sent as
// element references.
func (d *Driver) ExecuteScript(script string, args ...any) (any, error) {
	wdArgs := make([]any, len(args))
	for i, a := range args {
		if el, ok := a.(*element); ok {
			wdArgs[i] = el.el
			continue
		}
		wdArgs[i] = a
	}

	v, err := d.wd.ExecuteScript(script, wdArgs)
	if err != nil {
		return nil, fmt.Errorf("execute script: %w", mapErr(err))
	}
	return v, nil
}

func (d *Driver) DeleteAllCookies() error {
	if err := d.wd.DeleteAllCookies(); err != nil {
		return fmt.Errorf("delete cookies: %w", mapErr(err))
	}
	return nil
}

func (d *Driver) SwitchToFrame(frame driver.Element) error {
	el, ok := frame.(*element)
	if !ok {
		return fmt.Errorf("switch to frame: %w: foreign element %T", driver.ErrUnsupported, frame)
	}

	if err := d.wd.SwitchFrame(el.el); err != nil {
		return fmt.Errorf("switch to frame: %w", mapErr(err))
	}
	d.frames = append(d.frames, el.el)
	return nil
}

// SwitchToParentFrame goes back to the top-level document and re-enters
// every frame but the innermost.
func (d *Driver) SwitchToParentFrame() error {
	if len(d.frames) == 0 {
		return nil
	}

	path := d.frames[:len(d.frames)-1]
	if err := d.wd.SwitchFrame(nil); err != nil {
		return fmt.Errorf("switch to top frame: %w", mapErr(err))
	}
	d.frames = nil

	for _, fr := range path {
		if err := d.wd.SwitchFrame(fr); err != nil {
			return fmt.Errorf("re-enter frame: %w", mapErr(err))
		}
		d.frames = append(d.frames, fr)
	}
	return nil
}

// Quit ends the session.
func (d *Driver) Quit() error {
	return d.wd.Quit()
}

func mapErr(err error) error {
	if err == nil {
		return nil
	}

	code := err.Error()
	var wdErr *selenium.Error
	if errors.As(err, &wdErr) {
		code = wdErr.Err
	}

	switch {
	case strings.Contains(code, "no such element"):
		return fmt.Errorf("%w: %v", driver.ErrNoSuchElement, err)
	case strings.Contains(code, "stale element reference"):
		return fmt.Errorf("%w: %v", driver.ErrStaleElement, err)
	}
	return err
}

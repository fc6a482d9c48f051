// Package roddriver implements driver.Driver on top of a go-rod page.
package roddriver

import (
	"fmt"
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/grez-lucas/pageobject/internal/driver"
	"github.com/sirupsen/logrus"
	"github.com/ysmood/gson"
)

// Driver drives one rod page. Frames entered with SwitchToFrame are kept on
// a stack; lookups and scripts run in the innermost one.
type Driver struct {
	root   *rod.Page
	frames []*rod.Page

	appVersion string
	typing     Typing
	log        logrus.FieldLogger
}

// Option configures a Driver.
type Option func(*Driver)

// WithAppVersion sets the application version reported to page objects.
func WithAppVersion(v string) Option {
	return func(d *Driver) {
		d.appVersion = v
	}
}

// WithTyping selects how SendKeys produces keystrokes. The default is
// TypeFast.
func WithTyping(t Typing) Option {
	return func(d *Driver) {
		d.typing = t
	}
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(d *Driver) {
		d.log = l
	}
}

// New wraps page. The caller keeps ownership of the page and its browser.
func New(page *rod.Page, opts ...Option) *Driver {
	d := &Driver{
		root:   page,
		typing: TypeFast,
		log:    logrus.StandardLogger(),
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Page returns the frame lookups currently run in.
func (d *Driver) Page() *rod.Page {
	if len(d.frames) > 0 {
		return d.frames[len(d.frames)-1]
	}
	return d.root
}

// Typing returns the keystroke strategy SendKeys uses.
func (d *Driver) Typing() Typing {
	return d.typing
}

func (d *Driver) AppVersion() string {
	return d.appVersion
}

// Navigate loads url in the top-level frame and waits for the load event.
func (d *Driver) Navigate(url string) error {
	d.frames = nil

	if err := d.root.Navigate(url); err != nil {
		return fmt.Errorf("navigate to %s: %w", url, err)
	}
	if err := d.root.WaitLoad(); err != nil {
		return fmt.Errorf("wait for load of %s: %w", url, err)
	}
	return nil
}

func (d *Driver) FindElement(sel driver.Selector) (driver.Element, error) {
	els, err := d.FindElements(sel)
	if err != nil {
		return nil, err
	}
	if len(els) == 0 {
		return nil, &driver.NotFoundError{Selector: sel}
	}
	return els[0], nil
}

// FindElements queries the current frame without waiting.
func (d *Driver) FindElements(sel driver.Selector) ([]driver.Element, error) {
	var (
		found rod.Elements
		err   error
	)
	if css, ok := sel.AsCSS(); ok {
		found, err = d.Page().Elements(css)
	} else if xpath, ok := sel.AsXPath(); ok {
		found, err = d.Page().ElementsX(xpath)
	} else {
		return nil, fmt.Errorf("%w: strategy %q", driver.ErrUnsupported, sel.By)
	}
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", sel, mapErr(err))
	}

	els := make([]driver.Element, len(found))
	for i, el := range found {
		els[i] = &element{d: d, el: el}
	}
	return els, nil
}

// ExecuteScript runs script as the body of a function in the current frame.
// Elements among args are passed by reference, so arguments[0] is the DOM
// node. Returned promises are awaited.
func (d *Driver) ExecuteScript(script string, args ...any) (any, error) {
	jsArgs := make([]any, len(args))
	for i, a := range args {
		if el, ok := a.(*element); ok {
			jsArgs[i] = el.el.Object
			continue
		}
		jsArgs[i] = a
	}

	res, err := d.Page().Eval(wrapScript(script), jsArgs...)
	if err != nil {
		return nil, fmt.Errorf("execute script: %w", mapErr(err))
	}
	return value(res.Value), nil
}

// DeleteAllCookies clears the browser's cookie jar.
func (d *Driver) DeleteAllCookies() error {
	if err := (proto.NetworkClearBrowserCookies{}).Call(d.root); err != nil {
		return fmt.Errorf("clear cookies: %w", err)
	}
	return nil
}

func (d *Driver) SwitchToFrame(frame driver.Element) error {
	el, ok := frame.(*element)
	if !ok {
		return fmt.Errorf("switch to frame: %w: foreign element %T", driver.ErrUnsupported, frame)
	}

	fr, err := el.el.Frame()
	if err != nil {
		return fmt.Errorf("switch to frame: %w", mapErr(err))
	}

	d.frames = append(d.frames, fr)
	return nil
}

func (d *Driver) SwitchToParentFrame() error {
	if len(d.frames) > 0 {
		d.frames = d.frames[:len(d.frames)-1]
	}
	return nil
}

// Hijack routes every request of the page through handler until the returned
// router is stopped.
func (d *Driver) Hijack(handler func(*rod.Hijack)) (*rod.HijackRouter, error) {
	router := d.root.HijackRequests()
	if err := router.Add("*", "", handler); err != nil {
		return nil, fmt.Errorf("add hijack route: %w", err)
	}
	go router.Run()
	return router, nil
}

func wrapScript(script string) string {
	return "function() {\n" + script + "\n}"
}

func value(v gson.JSON) any {
	if v.Nil() {
		return nil
	}
	return v.Val()
}

// staleMessages are the protocol errors returned for nodes that left the
// document or whose execution context was torn down by a navigation.
var staleMessages = []string{
	"Could not find node with given id",
	"No node with given id found",
	"Cannot find context with specified id",
	"Node is detached from document",
	"Object reference chain is too long",
}

func mapErr(err error) error {
	if err == nil {
		return nil
	}

	msg := err.Error()
	for _, s := range staleMessages {
		if strings.Contains(msg, s) {
			return fmt.Errorf("%w: %v", driver.ErrStaleElement, err)
		}
	}
	return err
}

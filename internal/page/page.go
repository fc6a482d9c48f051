// Package page is the base every page object in a UI suite builds on. A
// concrete page embeds *Page, supplies a Descriptor, and gets navigation,
// readiness waits, element lookup, explicit waits and script helpers that
// delegate to a driver.Driver.
//
//	type LoginPage struct{ *page.Page }
//
//	func NewLoginPage(d driver.Driver) *LoginPage {
//		return &LoginPage{page.New(d, page.Descriptor{
//			URL:    "https://app.example.test/login",
//			Loaded: []page.Locator{driver.CSS("form#login")},
//		})}
//	}
package page

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/grez-lucas/pageobject/internal/driver"
	"github.com/grez-lucas/pageobject/internal/wait"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

// DefaultTimeout applies when neither the call nor the Descriptor set one.
const DefaultTimeout = 10 * time.Second

// DefaultJSPollInterval is the pause between evaluations in WaitForJS.
const DefaultJSPollInterval = 50 * time.Millisecond

// Descriptor is the static configuration of a page type.
type Descriptor struct {
	URL string
	// Loaded lists the locators that must all become visible, in order, for
	// the page to count as ready.
	Loaded  []Locator
	Timeout time.Duration
}

// Page wraps a caller-owned driver. It keeps no other mutable state.
type Page struct {
	driver     driver.Driver
	desc       Descriptor
	engine     wait.Engine
	log        logrus.FieldLogger
	appVersion string
	jsPoll     time.Duration
}

// Option configures a Page.
type Option func(*Page)

// WithEngine replaces the default polling wait engine.
func WithEngine(e wait.Engine) Option {
	return func(p *Page) {
		p.engine = e
	}
}

// WithLogger sets the logger for navigation and wait progress.
func WithLogger(l logrus.FieldLogger) Option {
	return func(p *Page) {
		p.log = l
	}
}

// WithAppVersion pins the application version used to resolve versioned
// selectors, overriding whatever the driver reports.
func WithAppVersion(v string) Option {
	return func(p *Page) {
		p.appVersion = v
	}
}

// WithJSPollInterval sets the pause between evaluations in WaitForJS.
func WithJSPollInterval(d time.Duration) Option {
	return func(p *Page) {
		p.jsPoll = d
	}
}

// New returns a Page bound to d.
func New(d driver.Driver, desc Descriptor, opts ...Option) *Page {
	if desc.Timeout <= 0 {
		desc.Timeout = DefaultTimeout
	}

	p := &Page{
		driver: d,
		desc:   desc,
		log:    logrus.StandardLogger(),
		jsPoll: DefaultJSPollInterval,
	}

	for _, opt := range opts {
		opt(p)
	}

	if desc.URL != "" {
		p.log = p.log.WithField("page", desc.URL)
	}
	if p.engine == nil {
		p.engine = wait.NewPoller(wait.WithLogger(p.log))
	}

	return p
}

// Driver returns the underlying driver.
func (p *Page) Driver() driver.Driver {
	return p.driver
}

// Descriptor returns the page's static configuration.
func (p *Page) Descriptor() Descriptor {
	return p.desc
}

// Navigate loads url, or the Descriptor URL when url is empty.
func (p *Page) Navigate(url string) error {
	if url == "" {
		url = p.desc.URL
	}
	p.log.WithField("url", url).Debug("navigating")
	return p.driver.Navigate(url)
}

// AppVersion returns the pinned version, else the driver's, else "".
func (p *Page) AppVersion() string {
	if p.appVersion != "" {
		return p.appVersion
	}
	if v, ok := p.driver.(driver.AppVersioner); ok {
		return v.AppVersion()
	}
	return ""
}

// Resolve turns a locator into the selector to use for the current
// application version.
func (p *Page) Resolve(loc Locator) (driver.Selector, error) {
	return loc.Resolve(p.AppVersion())
}

func (p *Page) Element(sel driver.Selector) (driver.Element, error) {
	return p.driver.FindElement(sel)
}

func (p *Page) Elements(sel driver.Selector) ([]driver.Element, error) {
	return p.driver.FindElements(sel)
}

// Exists reports whether sel matches anything right now. It does not wait.
func (p *Page) Exists(sel driver.Selector) (bool, error) {
	els, err := p.driver.FindElements(sel)
	if err != nil {
		return false, err
	}
	return len(els) > 0, nil
}

func (p *Page) ReturnToParentFrame() error {
	return p.driver.SwitchToParentFrame()
}

func (p *Page) ExecuteScript(js string, args ...any) (any, error) {
	return p.driver.ExecuteScript(js, args...)
}

// FetchJSON performs a GET from inside the page, so the browser's cookies
// and origin apply, and returns the decoded body.
func (p *Page) FetchJSON(url string) (gjson.Result, error) {
	v, err := p.driver.ExecuteScript(fetchJSONScript, url)
	if err != nil {
		return gjson.Result{}, err
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("encode fetch result: %w", err)
	}
	return gjson.ParseBytes(raw), nil
}

func (p *Page) DeleteAllCookies() error {
	return p.driver.DeleteAllCookies()
}

func (p *Page) ScrollToBottom() error {
	_, err := p.driver.ExecuteScript(scrollToBottomScript)
	return err
}

// ActionChain returns the driver's native chain if it has one.
func (p *Page) ActionChain() driver.ActionChain {
	if b, ok := p.driver.(driver.ActionBuilder); ok {
		return b.Actions()
	}
	return driver.NewActionChain()
}

func (p *Page) timeoutOr(d time.Duration) time.Duration {
	if d > 0 {
		return d
	}
	return p.desc.Timeout
}

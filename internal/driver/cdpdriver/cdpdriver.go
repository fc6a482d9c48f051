// Package cdpdriver implements driver.Driver with chromedp over the DevTools
// protocol. Frames are not supported: SwitchToFrame returns
// driver.ErrUnsupported.
package cdpdriver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/grez-lucas/pageobject/internal/driver"
)

// Driver runs every call as a chromedp action on ctx, which must come from
// chromedp.NewContext. The caller cancels ctx to close the tab.
type Driver struct {
	ctx        context.Context
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

func New(ctx context.Context, opts ...Option) *Driver {
	d := &Driver{ctx: ctx}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

func (d *Driver) AppVersion() string {
	return d.appVersion
}

func (d *Driver) Navigate(url string) error {
	if err := chromedp.Run(d.ctx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("navigate to %s: %w", url, err)
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

// FindElements queries the document without waiting for a match.
func (d *Driver) FindElements(sel driver.Selector) ([]driver.Element, error) {
	var (
		query string
		by    chromedp.QueryOption
	)
	if css, ok := sel.AsCSS(); ok {
		query, by = css, chromedp.ByQueryAll
	} else if xpath, ok := sel.AsXPath(); ok {
		query, by = xpath, chromedp.BySearch
	} else {
		return nil, fmt.Errorf("%w: strategy %q", driver.ErrUnsupported, sel.By)
	}

	var nodes []*cdp.Node
	if err := chromedp.Run(d.ctx, chromedp.Nodes(query, &nodes, by, chromedp.AtLeast(0))); err != nil {
		return nil, fmt.Errorf("find %s: %w", sel, mapErr(err))
	}

	els := make([]driver.Element, len(nodes))
	for i, n := range nodes {
		els[i] = &element{d: d, node: n}
	}
	return els, nil
}

// ExecuteScript evaluates script as a function body. Arguments are passed
// as JSON, so element arguments are not supported. Returned promises are
// awaited.
func (d *Driver) ExecuteScript(script string, args ...any) (any, error) {
	for _, a := range args {
		if _, ok := a.(driver.Element); ok {
			return nil, fmt.Errorf("execute script: %w: element arguments", driver.ErrUnsupported)
		}
	}
	if args == nil {
		args = []any{}
	}

	encoded, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("encode script arguments: %w", err)
	}
	expr := fmt.Sprintf("(function() {\n%s\n}).apply(null, %s)", script, encoded)

	var obj *runtime.RemoteObject
	err = chromedp.Run(d.ctx, chromedp.Evaluate(expr, &obj, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
		return p.WithAwaitPromise(true).WithReturnByValue(true)
	}))
	if err != nil {
		return nil, fmt.Errorf("execute script: %w", mapErr(err))
	}
	return decode(obj)
}

func (d *Driver) DeleteAllCookies() error {
	if err := chromedp.Run(d.ctx, network.ClearBrowserCookies()); err != nil {
		return fmt.Errorf("clear cookies: %w", err)
	}
	return nil
}

func (d *Driver) SwitchToFrame(driver.Element) error {
	return fmt.Errorf("switch to frame: %w", driver.ErrUnsupported)
}

func (d *Driver) SwitchToParentFrame() error {
	return nil
}

func decode(obj *runtime.RemoteObject) (any, error) {
	if obj == nil || obj.Type == runtime.TypeUndefined || len(obj.Value) == 0 {
		return nil, nil
	}

	var v any
	if err := json.Unmarshal(obj.Value, &v); err != nil {
		return nil, fmt.Errorf("decode script result: %w", err)
	}
	return v, nil
}

var staleMessages = []string{
	"Could not find node with given id",
	"No node with given id found",
	"Node is detached from document",
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

package cdpdriver

import (
	"context"
	"fmt"
	"strings"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/chromedp"
)

type element struct {
	d    *Driver
	node *cdp.Node
}

func (e *element) ids() []cdp.NodeID {
	return []cdp.NodeID{e.node.NodeID}
}

func (e *element) Click() error {
	if err := chromedp.Run(e.d.ctx, chromedp.MouseClickNode(e.node)); err != nil {
		return fmt.Errorf("click: %w", mapErr(err))
	}
	return nil
}

func (e *element) SendKeys(text string) error {
	if err := chromedp.Run(e.d.ctx, chromedp.SendKeys(e.ids(), text, chromedp.ByNodeID)); err != nil {
		return fmt.Errorf("send keys: %w", mapErr(err))
	}
	return nil
}

// Text returns the collapsed text content, or "" when the element is not
// rendered.
func (e *element) Text() (string, error) {
	visible, err := e.IsDisplayed()
	if err != nil || !visible {
		return "", err
	}

	var s string
	if err := chromedp.Run(e.d.ctx, chromedp.TextContent(e.ids(), &s, chromedp.ByNodeID)); err != nil {
		return "", fmt.Errorf("text: %w", mapErr(err))
	}
	return strings.Join(strings.Fields(s), " "), nil
}

func (e *element) Attribute(name string) (string, error) {
	var (
		v  string
		ok bool
	)
	if err := chromedp.Run(e.d.ctx, chromedp.AttributeValue(e.ids(), name, &v, &ok, chromedp.ByNodeID)); err != nil {
		return "", fmt.Errorf("attribute %s: %w", name, mapErr(err))
	}
	return v, nil
}

// IsDisplayed reports whether the node has a layout box.
func (e *element) IsDisplayed() (bool, error) {
	_, err := e.box()
	switch {
	case err == nil:
		return true, nil
	case strings.Contains(err.Error(), "box model"):
		return false, nil
	}
	return false, mapErr(err)
}

func (e *element) IsEnabled() (bool, error) {
	var (
		v        string
		disabled bool
	)
	if err := chromedp.Run(e.d.ctx, chromedp.AttributeValue(e.ids(), "disabled", &v, &disabled, chromedp.ByNodeID)); err != nil {
		return false, mapErr(err)
	}
	return !disabled, nil
}

// Hover moves the mouse to the centre of the element's content box.
func (e *element) Hover() error {
	box, err := e.box()
	if err != nil {
		return fmt.Errorf("hover: %w", mapErr(err))
	}

	q := box.Content
	x, y := (q[0]+q[4])/2, (q[1]+q[5])/2
	if err := chromedp.Run(e.d.ctx, chromedp.MouseEvent(input.MouseMoved, x, y)); err != nil {
		return fmt.Errorf("hover: %w", err)
	}
	return nil
}

func (e *element) box() (*dom.BoxModel, error) {
	var box *dom.BoxModel
	err := chromedp.Run(e.d.ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		box, err = dom.GetBoxModel().WithNodeID(e.node.NodeID).Do(ctx)
		return err
	}))
	return box, err
}

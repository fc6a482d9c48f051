package roddriver

import (
	"errors"
	"time"

	"github.com/go-rod/rod/lib/proto"
	"github.com/grez-lucas/pageobject/internal/driver"
)

var errForeignElement = errors.New("action chain: element does not belong to this driver")

// chain sends input through the page's mouse and keyboard, so steps act on
// whatever is under the pointer rather than on a specific node.
type chain struct {
	d     *Driver
	steps []func() error
}

// Actions returns a chain bound to the current frame.
func (d *Driver) Actions() driver.ActionChain {
	return &chain{d: d}
}

func (c *chain) MoveTo(el driver.Element) driver.ActionChain {
	c.steps = append(c.steps, func() error {
		e, ok := el.(*element)
		if !ok {
			return errForeignElement
		}
		return e.Hover()
	})
	return c
}

func (c *chain) Click() driver.ActionChain {
	c.steps = append(c.steps, func() error {
		return c.d.Page().Mouse.Click(proto.InputMouseButtonLeft, 1)
	})
	return c
}

func (c *chain) ClickOn(el driver.Element) driver.ActionChain {
	return c.MoveTo(el).Click()
}

func (c *chain) SendKeys(text string) driver.ActionChain {
	c.steps = append(c.steps, func() error {
		return c.d.Page().InsertText(text)
	})
	return c
}

func (c *chain) Pause(d time.Duration) driver.ActionChain {
	c.steps = append(c.steps, func() error {
		time.Sleep(d)
		return nil
	})
	return c
}

func (c *chain) Perform() error {
	steps := c.steps
	c.steps = nil
	for _, step := range steps {
		if err := step(); err != nil {
			return mapErr(err)
		}
	}
	return nil
}

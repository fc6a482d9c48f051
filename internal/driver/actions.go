package driver

import (
	"errors"
	"time"
)

// ActionChain queues input steps and runs them in order on Perform.
type ActionChain interface {
	MoveTo(el Element) ActionChain
	Click() ActionChain
	ClickOn(el Element) ActionChain
	SendKeys(text string) ActionChain
	Pause(d time.Duration) ActionChain
	Perform() error
}

var errNoTarget = errors.New("action chain: no element to act on, call MoveTo first")

// elementChain drives every step through Element methods. The element last
// moved to receives Click and SendKeys.
type elementChain struct {
	steps  []func() error
	target Element
}

// NewActionChain returns a chain that works with any Driver.
func NewActionChain() ActionChain {
	return &elementChain{}
}

func (c *elementChain) MoveTo(el Element) ActionChain {
	c.steps = append(c.steps, func() error {
		c.target = el
		return el.Hover()
	})
	return c
}

func (c *elementChain) Click() ActionChain {
	c.steps = append(c.steps, func() error {
		if c.target == nil {
			return errNoTarget
		}
		return c.target.Click()
	})
	return c
}

func (c *elementChain) ClickOn(el Element) ActionChain {
	return c.MoveTo(el).Click()
}

func (c *elementChain) SendKeys(text string) ActionChain {
	c.steps = append(c.steps, func() error {
		if c.target == nil {
			return errNoTarget
		}
		return c.target.SendKeys(text)
	})
	return c
}

func (c *elementChain) Pause(d time.Duration) ActionChain {
	c.steps = append(c.steps, func() error {
		time.Sleep(d)
		return nil
	})
	return c
}

func (c *elementChain) Perform() error {
	steps := c.steps
	c.steps = nil
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

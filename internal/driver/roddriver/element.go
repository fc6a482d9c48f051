package roddriver

import (
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

type element struct {
	d  *Driver
	el *rod.Element
}

func (e *element) Click() error {
	if err := e.el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("click: %w", mapErr(err))
	}
	return nil
}

func (e *element) SendKeys(text string) error {
	if err := e.d.typing(e.el, text); err != nil {
		return fmt.Errorf("send keys: %w", mapErr(err))
	}
	return nil
}

func (e *element) Text() (string, error) {
	s, err := e.el.Text()
	if err != nil {
		return "", fmt.Errorf("text: %w", mapErr(err))
	}
	return s, nil
}

func (e *element) Attribute(name string) (string, error) {
	v, err := e.el.Attribute(name)
	if err != nil {
		return "", fmt.Errorf("attribute %s: %w", name, mapErr(err))
	}
	if v == nil {
		return "", nil
	}
	return *v, nil
}

func (e *element) IsDisplayed() (bool, error) {
	visible, err := e.el.Visible()
	if err != nil {
		return false, mapErr(err)
	}
	return visible, nil
}

func (e *element) IsEnabled() (bool, error) {
	disabled, err := e.el.Property("disabled")
	if err != nil {
		return false, mapErr(err)
	}
	return !disabled.Bool(), nil
}

func (e *element) Hover() error {
	if err := e.el.Hover(); err != nil {
		return fmt.Errorf("hover: %w", mapErr(err))
	}
	return nil
}

package wddriver

import (
	"fmt"
	"strings"

	"github.com/tebeka/selenium"
)

type element struct {
	el selenium.WebElement
}

func (e *element) Click() error {
	if err := e.el.Click(); err != nil {
		return fmt.Errorf("click: %w", mapErr(err))
	}
	return nil
}

func (e *element) SendKeys(text string) error {
	if err := e.el.SendKeys(text); err != nil {
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

// Attribute returns "" for attributes the element does not have.
func (e *element) Attribute(name string) (string, error) {
	v, err := e.el.GetAttribute(name)
	if err != nil {
		if strings.Contains(err.Error(), "nil return value") {
			return "", nil
		}
		return "", fmt.Errorf("attribute %s: %w", name, mapErr(err))
	}
	return v, nil
}

func (e *element) IsDisplayed() (bool, error) {
	ok, err := e.el.IsDisplayed()
	return ok, mapErr(err)
}

func (e *element) IsEnabled() (bool, error) {
	ok, err := e.el.IsEnabled()
	return ok, mapErr(err)
}

func (e *element) Hover() error {
	if err := e.el.MoveTo(0, 0); err != nil {
		return fmt.Errorf("hover: %w", mapErr(err))
	}
	return nil
}

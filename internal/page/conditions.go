package page

import (
	"errors"
	"fmt"
	"strings"

	"github.com/grez-lucas/pageobject/internal/driver"
	"github.com/grez-lucas/pageobject/internal/wait"
)

func presenceOf(sel driver.Selector) wait.Condition {
	return wait.Condition{
		Name: "presence of element located " + sel.String(),
		Check: func(d driver.Driver) (any, error) {
			el, err := d.FindElement(sel)
			if err != nil {
				return nil, err
			}
			return el, nil
		},
	}
}

func visibilityOf(sel driver.Selector) wait.Condition {
	return wait.Condition{
		Name: "visibility of element located " + sel.String(),
		Check: func(d driver.Driver) (any, error) {
			return visibleElement(d, sel)
		},
	}
}

func invisibilityOf(sel driver.Selector) wait.Condition {
	return wait.Condition{
		Name: "invisibility of element located " + sel.String(),
		Check: func(d driver.Driver) (any, error) {
			el, err := d.FindElement(sel)
			if gone(err) {
				return true, nil
			}
			if err != nil {
				return nil, err
			}

			visible, err := el.IsDisplayed()
			if gone(err) {
				return true, nil
			}
			if err != nil {
				return nil, err
			}
			return !visible, nil
		},
	}
}

func clickableOf(sel driver.Selector) wait.Condition {
	return wait.Condition{
		Name: "element to be clickable " + sel.String(),
		Check: func(d driver.Driver) (any, error) {
			el, err := visibleElement(d, sel)
			if err != nil || el == nil {
				return nil, err
			}

			enabled, err := el.IsEnabled()
			if err != nil || !enabled {
				return nil, err
			}
			return el, nil
		},
	}
}

func anyVisibleOf(sel driver.Selector) wait.Condition {
	return wait.Condition{
		Name: "visibility of any elements located " + sel.String(),
		Check: func(d driver.Driver) (any, error) {
			els, err := d.FindElements(sel)
			if err != nil {
				return nil, err
			}

			visible := make([]driver.Element, 0, len(els))
			for _, el := range els {
				ok, err := el.IsDisplayed()
				if err == nil && ok {
					visible = append(visible, el)
				}
			}
			return visible, nil
		},
	}
}

func frameAvailableOf(sel driver.Selector) wait.Condition {
	return wait.Condition{
		Name: "frame to be available and switch to it " + sel.String(),
		Check: func(d driver.Driver) (any, error) {
			el, err := d.FindElement(sel)
			if err != nil {
				return nil, err
			}
			if err := d.SwitchToFrame(el); err != nil {
				return nil, err
			}
			return true, nil
		},
	}
}

func textPresentIn(sel driver.Selector, text string) wait.Condition {
	return wait.Condition{
		Name: fmt.Sprintf("text %q to be present in element located %s", text, sel),
		Check: func(d driver.Driver) (any, error) {
			el, err := d.FindElement(sel)
			if err != nil {
				return nil, err
			}

			got, err := el.Text()
			if err != nil {
				return nil, err
			}
			return strings.Contains(got, text), nil
		},
	}
}

// visibleElement returns the element matched by sel if it is displayed, and
// a nil element otherwise.
func visibleElement(d driver.Driver, sel driver.Selector) (driver.Element, error) {
	el, err := d.FindElement(sel)
	if err != nil {
		return nil, err
	}

	visible, err := el.IsDisplayed()
	if err != nil || !visible {
		return nil, err
	}
	return el, nil
}

func gone(err error) bool {
	return errors.Is(err, driver.ErrNoSuchElement) || errors.Is(err, driver.ErrStaleElement)
}

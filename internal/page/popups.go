package page

import "github.com/grez-lucas/pageobject/internal/driver"

// DismissPopups makes one pass over the popup selectors and clicks each one
// that is present. CSS-expressible selectors are clicked from script so
// overlays covering the element do not intercept the click; XPath and link
// text selectors get a native element click. Failures are logged and
// ignored.
func (p *Page) DismissPopups(popups []driver.Selector) {
	for _, sel := range popups {
		log := p.log.WithField("selector", sel.String())

		exists, err := p.Exists(sel)
		if err != nil {
			log.WithError(err).Debug("popup lookup failed")
			continue
		}
		if !exists {
			continue
		}

		if err := p.clickPopup(sel); err != nil {
			log.WithError(err).Debug("popup dismissal failed")
			continue
		}
		log.Debug("popup dismissed")
	}
}

func (p *Page) clickPopup(sel driver.Selector) error {
	if css, ok := sel.AsCSS(); ok {
		_, err := p.driver.ExecuteScript(clickCSSScript, css)
		return err
	}

	el, err := p.driver.FindElement(sel)
	if err != nil {
		return err
	}
	return el.Click()
}

package page_test

import (
	"context"
	"fmt"

	"github.com/grez-lucas/pageobject/internal/driver"
	"github.com/grez-lucas/pageobject/internal/driver/htmldriver"
	"github.com/grez-lucas/pageobject/internal/page"
	"github.com/sirupsen/logrus"
)

// Login page selectors. The 2.0 redesign renamed the form fields.
var (
	selectorLoginForm = driver.CSS("form#login")
	selectorUser      = page.Versioned(
		page.Since("1.0", driver.CSS("input#usuario")),
		page.Since("2.0", driver.CSS("input#user")),
	)
	selectorPassword = page.Versioned(
		page.Since("1.0", driver.CSS("input#clave")),
		page.Since("2.0", driver.CSS("input#password")),
	)
	selectorSubmit = driver.CSS("button#submit")
	selectorCookie = driver.CSS("#accept-cookies")
)

type LoginPage struct {
	*page.Page
}

func NewLoginPage(d driver.Driver, opts ...page.Option) *LoginPage {
	return &LoginPage{page.New(d, page.Descriptor{
		URL:    "https://app.example.test/login",
		Loaded: []page.Locator{selectorLoginForm, selectorUser},
	}, opts...)}
}

func (lp *LoginPage) Login(ctx context.Context, user, password string) error {
	if err := lp.Navigate(""); err != nil {
		return err
	}
	if err := lp.WaitForPageLoaded(ctx); err != nil {
		return err
	}
	lp.DismissPopups([]driver.Selector{selectorCookie})

	for _, field := range []struct {
		loc   page.Locator
		value string
	}{{selectorUser, user}, {selectorPassword, password}} {
		sel, err := lp.Resolve(field.loc)
		if err != nil {
			return err
		}
		el, err := lp.WaitUntilVisible(ctx, sel, 0)
		if err != nil {
			return err
		}
		if err := el.SendKeys(field.value); err != nil {
			return err
		}
	}

	submit, err := lp.WaitUntilClickable(ctx, selectorSubmit, 0)
	if err != nil {
		return err
	}
	return submit.Click()
}

func Example() {
	d := htmldriver.New(
		htmldriver.WithAppVersion("2.3"),
		htmldriver.WithPage("https://app.example.test/login", `
			<div id="cookie-banner"><button id="accept-cookies">OK</button></div>
			<form id="login">
				<input id="user"><input id="password" type="password">
				<button id="submit">Sign in</button>
			</form>`),
	)
	log := logrus.New()
	log.SetLevel(logrus.WarnLevel)

	lp := NewLoginPage(d, page.WithLogger(log))
	if err := lp.Login(context.Background(), "alice", "hunter2"); err != nil {
		fmt.Println("login failed:", err)
		return
	}

	fmt.Println(d.Clicked())
	// Output: [#submit]
}
